package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/config"
	authcommands "github.com/eskrenkovic/movie-duel/internal/modules/auth/commands"
	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	gamesessioncommands "github.com/eskrenkovic/movie-duel/internal/modules/game-session/commands"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"
	"github.com/eskrenkovic/movie-duel/internal/modules/movies"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testFixture struct {
	client  *http.Client
	baseURL string
}

var fixture = testFixture{}

// The mediator registry is process wide, so every test shares one server.
func TestMain(m *testing.M) {
	tmdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = w.Write([]byte(`{"page":1,"results":[{"id":27205,"title":"Inception","poster_path":"/inception.jpg","release_date":"2010-07-15"}]}`))
		case "/movie/27205":
			_, _ = w.Write([]byte(`{"id":27205,"title":"Inception","runtime":148,"genres":[{"id":28,"name":"Action"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	tmdbURL, err := url.Parse(tmdb.URL)
	if err != nil {
		log.Fatal(err)
	}

	publicPath, err := os.MkdirTemp("", "movie-duel-public")
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(publicPath+"/index.html", []byte("<h1>movie duel</h1>"), 0o600); err != nil {
		log.Fatal(err)
	}

	srv, err := NewHTTPServer(config.Config{
		Logger:     zap.NewNop(),
		Store:      config.StoreMemory,
		PublicPath: publicPath,
		TMDB: config.TMDBConfiguration{
			BaseURL: tmdbURL,
			Timeout: time.Second,
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	api := httptest.NewServer(srv.Handler())

	fixture.client = api.Client()
	fixture.baseURL = api.URL

	code := m.Run()

	api.Close()
	tmdb.Close()
	_ = os.RemoveAll(publicPath)

	os.Exit(code)
}

type responseAssertion func(*http.Response)

func sendRequest[TReq any, TResp any](
	c *http.Client,
	url string,
	method string,
	req TReq,
	opts ...responseAssertion,
) (TResp, error) {
	var resp TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}

	httpReq, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return resp, err
	}

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return resp, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	for _, opt := range opts {
		opt(httpResp)
	}

	responsePayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, err
	}

	if len(responsePayload) > 0 {
		if err := json.Unmarshal(responsePayload, &resp); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

func expectStatus(t *testing.T, status int) responseAssertion {
	return func(resp *http.Response) {
		require.Equal(t, status, resp.StatusCode)
	}
}

func apiURL(format string, args ...interface{}) string {
	return fixture.baseURL + "/api" + fmt.Sprintf(format, args...)
}

func createGame(t *testing.T, owner string) string {
	t.Helper()

	resp, err := sendRequest[gamesessioncommands.CreateSessionCommand, gamesessioncommands.CreateSessionResponse](
		fixture.client,
		apiURL("/games"),
		http.MethodPost,
		gamesessioncommands.CreateSessionCommand{Username: owner},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	return resp.GameID
}

func joinGame(t *testing.T, gameID string, player string) {
	t.Helper()

	resp, err := sendRequest[gamesessioncommands.JoinSessionCommand, gamesessioncommands.SuccessResponse](
		fixture.client,
		apiURL("/games/%s/join", gameID),
		http.MethodPost,
		gamesessioncommands.JoinSessionCommand{Username: player},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func selectMovie(t *testing.T, gameID string, player string, title string) {
	t.Helper()

	resp, err := sendRequest[gamesessioncommands.SelectMovieCommand, gamesessioncommands.SuccessResponse](
		fixture.client,
		apiURL("/games/%s/select-movie", gameID),
		http.MethodPost,
		gamesessioncommands.SelectMovieCommand{Username: player, MovieTitle: title},
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func act(
	t *testing.T,
	gameID string,
	player string,
	action string,
	target string,
	opts ...responseAssertion,
) (gamesessioncommands.PerformActionResponse, error) {
	t.Helper()

	return sendRequest[gamesessioncommands.PerformActionCommand, gamesessioncommands.PerformActionResponse](
		fixture.client,
		apiURL("/games/%s/action", gameID),
		http.MethodPost,
		gamesessioncommands.PerformActionCommand{Username: player, Action: action, TargetMovie: target},
		opts...,
	)
}

func Test_Health_Returns_OK(t *testing.T) {
	// Act
	resp, err := sendRequest[any, healthResponse](
		fixture.client,
		apiURL("/health"),
		http.MethodGet,
		nil,
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "OK", resp.Status)
}

func Test_Game_Plays_First_Turn(t *testing.T) {
	// Arrange
	gameID := createGame(t, "alice")
	joinGame(t, gameID, "bob")
	selectMovie(t, gameID, "alice", "Inception")
	selectMovie(t, gameID, "bob", "Heat")

	// Act
	_, err := act(t, gameID, "alice", "forward", "Inception", expectStatus(t, http.StatusOK))
	require.NoError(t, err)

	_, err = act(t, gameID, "alice", "boost", "Inception", expectStatus(t, http.StatusOK))
	require.NoError(t, err)

	resp, err := act(t, gameID, "alice", "backward", "Heat", expectStatus(t, http.StatusOK))
	require.NoError(t, err)

	// Assert
	require.NotNil(t, resp.TurnState)
	require.Equal(t, "bob", resp.TurnState.ActivePlayer)
	require.Equal(t, 2, resp.TurnState.ForwardMovesRemaining)
	require.Equal(t, 1, resp.TurnState.BackwardMovesRemaining)

	require.Equal(t, domain.StatusPlaying, resp.GameState.Status)
	require.Equal(t, "bob", resp.GameState.CurrentPlayer)
	require.Equal(t, 7, resp.GameState.Nominations["alice"].Score)
	require.Equal(t, 4, resp.GameState.Nominations["bob"].Score)
	require.Empty(t, resp.GameState.Winner)

	view, err := sendRequest[any, domain.SessionView](
		fixture.client,
		apiURL("/games/%s", gameID),
		http.MethodGet,
		nil,
		expectStatus(t, http.StatusOK),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, view.Players)
	require.Equal(t, "bob", view.CurrentPlayer)
}

func Test_Action_Out_Of_Turn_Returns_400(t *testing.T) {
	// Arrange
	gameID := createGame(t, "alice")
	joinGame(t, gameID, "bob")
	selectMovie(t, gameID, "alice", "Inception")
	selectMovie(t, gameID, "bob", "Heat")

	// Act
	resp, err := sendRequest[gamesessioncommands.PerformActionCommand, core.ErrorResponse](
		fixture.client,
		apiURL("/games/%s/action", gameID),
		http.MethodPost,
		gamesessioncommands.PerformActionCommand{Username: "bob", Action: "forward", TargetMovie: "Heat"},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, resp.Error)
}

func Test_Join_Unknown_Game_Returns_400(t *testing.T) {
	// Act
	resp, err := sendRequest[gamesessioncommands.JoinSessionCommand, core.ErrorResponse](
		fixture.client,
		apiURL("/games/%s/join", uuid.NewString()),
		http.MethodPost,
		gamesessioncommands.JoinSessionCommand{Username: "bob"},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, resp.Error)
}

func Test_Action_Before_Game_Starts_Returns_400(t *testing.T) {
	// Arrange
	gameID := createGame(t, "alice")
	joinGame(t, gameID, "bob")
	selectMovie(t, gameID, "alice", "Inception")

	// Act
	_, err := act(t, gameID, "alice", "forward", "Inception", expectStatus(t, http.StatusBadRequest))

	// Assert
	require.NoError(t, err)
}

func Test_Create_Game_Without_Username_Returns_400(t *testing.T) {
	// Act
	resp, err := sendRequest[gamesessioncommands.CreateSessionCommand, core.ErrorResponse](
		fixture.client,
		apiURL("/games"),
		http.MethodPost,
		gamesessioncommands.CreateSessionCommand{},
		expectStatus(t, http.StatusBadRequest),
	)

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, resp.Error)
}

func Test_Authenticate_Returns_Username(t *testing.T) {
	// Act
	resp, err := sendRequest[authcommands.AuthenticateCommand, authcommands.AuthenticateResponse](
		fixture.client,
		apiURL("/auth"),
		http.MethodPost,
		authcommands.AuthenticateCommand{Username: "carol", Password: "popcorn"},
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "carol", resp.Username)
}

func Test_Movie_Search_Proxies_Catalog(t *testing.T) {
	// Act
	resp, err := sendRequest[any, []movies.Movie](
		fixture.client,
		apiURL("/movies/search?query=inception"),
		http.MethodGet,
		nil,
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Len(t, resp, 1)
	require.Equal(t, "Inception", resp[0].Title)
	require.Equal(t, "https://image.tmdb.org/t/p/w500/inception.jpg", resp[0].PosterURL)
}

func Test_Movie_Details_Lookup_Failure_Returns_500(t *testing.T) {
	// Act
	resp, err := sendRequest[any, core.ErrorResponse](
		fixture.client,
		apiURL("/movies/42"),
		http.MethodGet,
		nil,
		expectStatus(t, http.StatusInternalServerError),
	)

	// Assert
	require.NoError(t, err)
	require.Contains(t, resp.Error, movies.ErrLookupFailed.Error())
}

func Test_API_Sends_CORS_Headers(t *testing.T) {
	// Arrange
	req, err := http.NewRequest(http.MethodOptions, apiURL("/games"), nil)
	require.NoError(t, err)

	// Act
	resp, err := fixture.client.Do(req)

	// Assert
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func Test_Serves_Static_Files_And_Metrics(t *testing.T) {
	// Act
	index, err := fixture.client.Get(fixture.baseURL + "/")
	require.NoError(t, err)
	defer index.Body.Close()

	metrics, err := fixture.client.Get(fixture.baseURL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()

	// Assert
	require.Equal(t, http.StatusOK, index.StatusCode)

	body, err := io.ReadAll(index.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "movie duel")

	require.Equal(t, http.StatusOK, metrics.StatusCode)
}
