package queries

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	"github.com/eskrenkovic/movie-duel/internal/modules/movies"

	"github.com/eskrenkovic/mediator-go"
)

type SearchMoviesQuery struct {
	Query string
}

func (q SearchMoviesQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("invalid query - '%s'", q.Query)
	}

	return nil
}

func HandleSearchMovies(w http.ResponseWriter, r *http.Request) {
	query := SearchMoviesQuery{Query: r.URL.Query().Get("query")}

	response, err := mediator.Send[SearchMoviesQuery, []movies.Movie](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SearchMoviesQueryHandler struct {
	catalog movies.Catalog
}

func NewSearchMoviesQueryHandler(catalog movies.Catalog) *SearchMoviesQueryHandler {
	return &SearchMoviesQueryHandler{catalog: catalog}
}

func (h *SearchMoviesQueryHandler) Handle(ctx context.Context, request SearchMoviesQuery) ([]movies.Movie, error) {
	results, err := h.catalog.Search(ctx, strings.TrimSpace(request.Query))
	if err != nil {
		return nil, core.NewCommandError(http.StatusInternalServerError, err)
	}

	return results, nil
}
