package commands

import (
	"context"
	"net/http"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	gamesession "github.com/eskrenkovic/movie-duel/internal/modules/game-session"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type PerformActionCommand struct {
	SessionID    string `json:"-"`
	Username     string `json:"username"`
	Action       string `json:"action"`
	TargetMovie  string `json:"targetMovie"`
	TargetPlayer string `json:"targetPlayer,omitempty"`
}

// Validate only checks addressing. Action and target are checked by the
// session after the turn check.
func (c PerformActionCommand) Validate() error {
	return core.Validation(
		validateSessionID(c.SessionID),
		validateUsername(c.Username),
	)
}

type PerformActionResponse struct {
	// TurnState is null once the action finished the game.
	TurnState *domain.TurnState `json:"turnState"`
	GameState domain.SessionView `json:"gameState"`
}

func HandlePerformAction(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[PerformActionCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.SessionID = chi.URLParam(r, "gameId")

	response, err := mediator.Send[PerformActionCommand, PerformActionResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type PerformActionCommandHandler struct {
	repository gamesession.SessionRepository
	metrics    *gamesession.Metrics
}

func NewPerformActionCommandHandler(
	repository gamesession.SessionRepository,
	metrics *gamesession.Metrics,
) *PerformActionCommandHandler {
	return &PerformActionCommandHandler{repository: repository, metrics: metrics}
}

func (h *PerformActionCommandHandler) Handle(
	ctx context.Context,
	request PerformActionCommand,
) (PerformActionResponse, error) {
	target := domain.Target{Title: request.TargetMovie, Player: request.TargetPlayer}

	var turn *domain.TurnState
	session, err := h.repository.Update(ctx, request.SessionID, func(s *domain.Session) error {
		var err error
		turn, err = s.PerformAction(request.Username, domain.Action(request.Action), target)
		return err
	})
	if err != nil {
		return PerformActionResponse{}, gamesession.ToCommandError(err)
	}

	// The session already accepted the action, so it parses.
	action, _ := domain.ParseAction(request.Action)
	h.metrics.ActionPerformed(action, session)

	return PerformActionResponse{TurnState: turn, GameState: session.View()}, nil
}
