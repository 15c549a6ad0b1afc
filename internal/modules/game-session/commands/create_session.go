package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	gamesession "github.com/eskrenkovic/movie-duel/internal/modules/game-session"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

type CreateSessionCommand struct {
	Username string `json:"username"`
}

func (c CreateSessionCommand) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("invalid Username - '%s'", c.Username)
	}

	return nil
}

type CreateSessionResponse struct {
	GameID string `json:"gameId"`
}

func HandleCreateGameSession(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[CreateSessionCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[CreateSessionCommand, CreateSessionResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type CreateSessionCommandHandler struct {
	repository gamesession.SessionRepository
	metrics    *gamesession.Metrics
	newID      func() string
	now        func() time.Time
}

func NewCreateSessionCommandHandler(
	repository gamesession.SessionRepository,
	metrics *gamesession.Metrics,
) *CreateSessionCommandHandler {
	return &CreateSessionCommandHandler{
		repository: repository,
		metrics:    metrics,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (h *CreateSessionCommandHandler) Handle(
	ctx context.Context,
	request CreateSessionCommand,
) (CreateSessionResponse, error) {
	session := domain.NewSession(h.newID(), request.Username, h.now().UTC())

	if err := h.repository.Create(ctx, session); err != nil {
		return CreateSessionResponse{}, gamesession.ToCommandError(err)
	}

	h.metrics.SessionCreated()

	return CreateSessionResponse{GameID: session.ID}, nil
}
