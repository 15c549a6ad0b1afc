package movies

import (
	"context"

	"github.com/pkg/errors"
)

// ErrLookupFailed is wrapped by every catalog failure.
var ErrLookupFailed = errors.New("movie lookup failed")

type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"poster"`
	ReleaseYear int     `json:"releaseYear,omitempty"`
	Overview    string  `json:"overview"`
	Rating      float64 `json:"rating"`
}

type MovieDetails struct {
	Movie
	Runtime int      `json:"runtime,omitempty"`
	Genres  []string `json:"genres"`
	Tagline string   `json:"tagline,omitempty"`
}

// Catalog looks up movie metadata. Implementations must not block on
// anything but the upstream call.
type Catalog interface {
	Search(ctx context.Context, query string) ([]Movie, error)
	Get(ctx context.Context, id int) (MovieDetails, error)
}
