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

type JoinSessionCommand struct {
	SessionID string `json:"-"`
	Username  string `json:"username"`
}

func (c JoinSessionCommand) Validate() error {
	return core.Validation(
		validateSessionID(c.SessionID),
		validateUsername(c.Username),
	)
}

func HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[JoinSessionCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.SessionID = chi.URLParam(r, "gameId")

	response, err := mediator.Send[JoinSessionCommand, SuccessResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type JoinSessionCommandHandler struct {
	repository gamesession.SessionRepository
}

func NewJoinSessionCommandHandler(repository gamesession.SessionRepository) *JoinSessionCommandHandler {
	return &JoinSessionCommandHandler{repository}
}

func (h *JoinSessionCommandHandler) Handle(
	ctx context.Context,
	request JoinSessionCommand,
) (SuccessResponse, error) {
	_, err := h.repository.Update(ctx, request.SessionID, func(s *domain.Session) error {
		return s.Join(request.Username)
	})
	if err != nil {
		return SuccessResponse{}, gamesession.ToCommandError(err)
	}

	return SuccessResponse{Success: true}, nil
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("invalid SessionID - '%s'", sessionID)
	}

	return nil
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("invalid Username - '%s'", username)
	}

	return nil
}
