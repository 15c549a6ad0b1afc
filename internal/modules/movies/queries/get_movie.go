package queries

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	"github.com/eskrenkovic/movie-duel/internal/modules/movies"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type GetMovieQuery struct {
	ID string
}

func (q GetMovieQuery) Validate() error {
	if id, err := strconv.Atoi(q.ID); err != nil || id <= 0 {
		return fmt.Errorf("invalid movie id - '%s'", q.ID)
	}

	return nil
}

func HandleGetMovie(w http.ResponseWriter, r *http.Request) {
	query := GetMovieQuery{ID: chi.URLParam(r, "id")}

	response, err := mediator.Send[GetMovieQuery, movies.MovieDetails](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetMovieQueryHandler struct {
	catalog movies.Catalog
}

func NewGetMovieQueryHandler(catalog movies.Catalog) *GetMovieQueryHandler {
	return &GetMovieQueryHandler{catalog: catalog}
}

func (h *GetMovieQueryHandler) Handle(ctx context.Context, request GetMovieQuery) (movies.MovieDetails, error) {
	id, err := strconv.Atoi(request.ID)
	if err != nil {
		return movies.MovieDetails{}, core.NewCommandError(http.StatusBadRequest, err)
	}

	details, err := h.catalog.Get(ctx, id)
	if err != nil {
		return movies.MovieDetails{}, core.NewCommandError(http.StatusInternalServerError, err)
	}

	return details, nil
}
