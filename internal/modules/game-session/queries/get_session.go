package queries

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

type GetSessionQuery struct {
	SessionID string
}

func (q GetSessionQuery) Validate() error {
	if strings.TrimSpace(q.SessionID) == "" {
		return fmt.Errorf("invalid SessionID - '%s'", q.SessionID)
	}

	return nil
}

func HandleGetSession(w http.ResponseWriter, r *http.Request) {
	query := GetSessionQuery{SessionID: chi.URLParam(r, "gameId")}

	response, err := mediator.Send[GetSessionQuery, domain.SessionView](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetSessionQueryHandler struct {
	repository gamesession.SessionRepository
}

func NewGetSessionQueryHandler(repository gamesession.SessionRepository) *GetSessionQueryHandler {
	return &GetSessionQueryHandler{repository}
}

func (h *GetSessionQueryHandler) Handle(
	ctx context.Context,
	request GetSessionQuery,
) (domain.SessionView, error) {
	session, err := h.repository.Get(ctx, request.SessionID)
	if err != nil {
		return domain.SessionView{}, gamesession.ToCommandError(err)
	}

	return session.View(), nil
}
