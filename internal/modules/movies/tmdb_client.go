package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = 200 * time.Millisecond
)

// Config controls how the TMDB client reaches the upstream API.
type Config struct {
	BaseURL       string
	APIKey        string
	HTTPClient    *http.Client
	Timeout       time.Duration
	MaxRetries    uint64
	RetryInterval time.Duration
}

var _ Catalog = (*Client)(nil)

// Client is a Catalog backed by the TMDB v3 API.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		httpClient:    httpClient,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]Movie, error) {
	params := url.Values{}
	params.Set("query", query)

	var payload tmdbSearchResponse
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "search '%s': %v", query, err)
	}

	return core.Map(payload.Results, mapMovie), nil
}

func (c *Client) Get(ctx context.Context, id int) (MovieDetails, error) {
	var payload tmdbMovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), url.Values{}, &payload); err != nil {
		return MovieDetails{}, errors.Wrapf(ErrLookupFailed, "movie %d: %v", id, err)
	}

	return mapMovieDetails(payload), nil
}

type statusError struct {
	statusCode int
	body       string
}

func (e statusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected status %d: %s", e.statusCode, e.body)
}

func (e statusError) transient() bool {
	return e.statusCode == http.StatusTooManyRequests || e.statusCode >= http.StatusInternalServerError
}

// get retries network failures, 429 and 5xx responses. Other statuses and
// undecodable bodies fail immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := statusError{statusCode: resp.StatusCode, body: strings.TrimSpace(string(body))}
			if statusErr.transient() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(errors.Wrap(err, "tmdb: decode response"))
		}

		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}
