package gamesession

import (
	"context"
	"sync"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"
)

var _ SessionRepository = (*MemorySessionRepository)(nil)

type sessionEntry struct {
	mu      sync.RWMutex
	session domain.Session
}

// MemorySessionRepository keeps sessions in process memory. Each session
// has its own lock so mutations of different games never wait on each
// other.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.sessions[session.ID]; found {
		return ErrSessionExists
	}

	r.sessions[session.ID] = &sessionEntry{session: session.Clone()}
	return nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	entry, found := r.entry(id)
	if !found {
		return domain.Session{}, errSessionNotFound(id)
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	return entry.session.Clone(), nil
}

func (r *MemorySessionRepository) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.Session) error,
) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	entry, found := r.entry(id)
	if !found {
		return domain.Session{}, errSessionNotFound(id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.session.Clone()
	if err := mutate(&working); err != nil {
		return domain.Session{}, err
	}

	working.UpdatedAt = r.now().UTC()
	entry.session = working

	return working.Clone(), nil
}

func (r *MemorySessionRepository) entry(id string) (*sessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, found := r.sessions[id]
	return entry, found
}
