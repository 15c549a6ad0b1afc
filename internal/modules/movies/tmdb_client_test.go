package movies

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:       server.URL,
		APIKey:        "secret",
		HTTPClient:    server.Client(),
		MaxRetries:    2,
		RetryInterval: time.Millisecond,
	})
}

func Test_Search_Maps_Results(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/movie", r.URL.Path)
		require.Equal(t, "inception", r.URL.Query().Get("query"))
		require.Equal(t, "secret", r.URL.Query().Get("api_key"))

		_, _ = w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 27205, "title": "Inception", "poster_path": "/inception.jpg", "release_date": "2010-07-15", "overview": "Dreams.", "vote_average": 8.4},
				{"id": 1, "title": "Inception: The Cobol Job", "poster_path": null, "release_date": ""}
			],
			"total_results": 2
		}`))
	})

	// Act
	movies, err := client.Search(context.Background(), "inception")

	// Assert
	require.NoError(t, err)
	require.Len(t, movies, 2)

	require.Equal(t, Movie{
		ID:          27205,
		Title:       "Inception",
		PosterURL:   "https://image.tmdb.org/t/p/w500/inception.jpg",
		ReleaseYear: 2010,
		Overview:    "Dreams.",
		Rating:      8.4,
	}, movies[0])

	require.Empty(t, movies[1].PosterURL)
	require.Zero(t, movies[1].ReleaseYear)
}

func Test_Get_Maps_Details(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/603", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"poster_path": "/matrix.jpg",
			"release_date": "1999-03-30",
			"runtime": 136,
			"tagline": "Welcome to the Real World.",
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	})

	// Act
	details, err := client.Get(context.Background(), 603)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "The Matrix", details.Title)
	require.Equal(t, 1999, details.ReleaseYear)
	require.Equal(t, 136, details.Runtime)
	require.Equal(t, []string{"Action", "Science Fiction"}, details.Genres)
	require.Equal(t, "Welcome to the Real World.", details.Tagline)
}

func Test_Get_Retries_Server_Errors(t *testing.T) {
	// Arrange
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id": 603, "title": "The Matrix"}`))
	})

	// Act
	details, err := client.Get(context.Background(), 603)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "The Matrix", details.Title)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func Test_Get_Does_Not_Retry_Not_Found(t *testing.T) {
	// Arrange
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message": "The resource you requested could not be found."}`))
	})

	// Act
	_, err := client.Get(context.Background(), 1)

	// Assert
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrLookupFailed))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func Test_Search_Gives_Up_After_Max_Retries(t *testing.T) {
	// Arrange
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Act
	_, err := client.Search(context.Background(), "anything")

	// Assert
	require.True(t, errors.Is(err, ErrLookupFailed))
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func Test_Search_Fails_On_Malformed_Body(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	})

	// Act
	_, err := client.Search(context.Background(), "anything")

	// Assert
	require.True(t, errors.Is(err, ErrLookupFailed))
}
