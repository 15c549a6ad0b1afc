package gamesession

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"
)

var ErrSessionExists = errors.New("session already exists")

// SessionRepository stores game sessions. Update must serialise calls for
// the same session id and only persist the mutation when it returns nil.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Update(ctx context.Context, id string, mutate func(*domain.Session) error) (domain.Session, error)
}

func errSessionNotFound(id string) error {
	return fmt.Errorf("%w: game '%s'", domain.ErrNotFound, id)
}

// ToCommandError maps state machine failures to 400 and everything else
// (storage, encoding) to 500.
func ToCommandError(err error) error {
	if err == nil {
		return nil
	}

	if domain.IsDomainError(err) {
		return core.NewCommandError(http.StatusBadRequest, err)
	}

	return core.NewCommandError(http.StatusInternalServerError, err)
}
