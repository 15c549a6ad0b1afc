package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	gamesession "github.com/eskrenkovic/movie-duel/internal/modules/game-session"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type SelectMovieCommand struct {
	SessionID  string         `json:"-"`
	Username   string         `json:"username"`
	MovieTitle string         `json:"movieTitle"`
	MovieID    domain.MovieID `json:"movieId"`
	Poster     string         `json:"poster"`
}

func (c SelectMovieCommand) Validate() error {
	var titleErr error
	if strings.TrimSpace(c.MovieTitle) == "" {
		titleErr = fmt.Errorf("invalid MovieTitle - '%s'", c.MovieTitle)
	}

	return core.Validation(
		validateSessionID(c.SessionID),
		validateUsername(c.Username),
		titleErr,
	)
}

func HandleSelectMovie(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[SelectMovieCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.SessionID = chi.URLParam(r, "gameId")

	response, err := mediator.Send[SelectMovieCommand, SuccessResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SelectMovieCommandHandler struct {
	repository gamesession.SessionRepository
}

func NewSelectMovieCommandHandler(repository gamesession.SessionRepository) *SelectMovieCommandHandler {
	return &SelectMovieCommandHandler{repository}
}

func (h *SelectMovieCommandHandler) Handle(
	ctx context.Context,
	request SelectMovieCommand,
) (SuccessResponse, error) {
	_, err := h.repository.Update(ctx, request.SessionID, func(s *domain.Session) error {
		return s.Nominate(request.Username, request.MovieTitle, request.MovieID, request.Poster)
	})
	if err != nil {
		return SuccessResponse{}, gamesession.ToCommandError(err)
	}

	return SuccessResponse{Success: true}, nil
}
