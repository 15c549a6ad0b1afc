package gamesession

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"

	"github.com/eskrenkovic/tql"
	"github.com/lib/pq"
)

var _ SessionRepository = (*PostgresSessionRepository)(nil)

const uniqueViolation = "23505"

type sessionRow struct {
	ID    string `db:"id"`
	State []byte `db:"state"`
}

// PostgresSessionRepository stores each session as a JSONB document in
// game_session.state. Updates lock the row for the duration of the
// mutation.
type PostgresSessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db, now: time.Now}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, session domain.Session) error {
	state, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session '%s': %w", session.ID, err)
	}

	const stmt = `
		INSERT INTO
			game_session (id, owner, status, state, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6);`

	_, err = tql.Exec(
		ctx,
		r.db,
		stmt,
		session.ID,
		session.Owner,
		string(session.Status),
		state,
		session.CreatedAt,
		session.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrSessionExists
	}

	return err
}

func (r *PostgresSessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	const query = `
		SELECT
			id, state
		FROM
			game_session
		WHERE
			id = $1;`

	row, err := tql.QueryFirst[sessionRow](ctx, r.db, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, errSessionNotFound(id)
		}
		return domain.Session{}, err
	}

	return decodeSession(row)
}

func (r *PostgresSessionRepository) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.Session) error,
) (domain.Session, error) {
	var updated domain.Session

	err := core.Tx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		const query = `
			SELECT
				id, state
			FROM
				game_session
			WHERE
				id = $1
			FOR UPDATE;`

		row, err := tql.QueryFirst[sessionRow](ctx, tx, query, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errSessionNotFound(id)
			}
			return err
		}

		session, err := decodeSession(row)
		if err != nil {
			return err
		}

		if err := mutate(&session); err != nil {
			return err
		}

		session.UpdatedAt = r.now().UTC()

		state, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to encode session '%s': %w", id, err)
		}

		const stmt = `
			UPDATE
				game_session
			SET
				status = $2,
				state = $3,
				updated_at = $4
			WHERE
				id = $1;`

		if _, err := tql.Exec(ctx, tx, stmt, id, string(session.Status), state, session.UpdatedAt); err != nil {
			return err
		}

		updated = session
		return nil
	})

	if err != nil {
		return domain.Session{}, err
	}

	return updated, nil
}

func decodeSession(row sessionRow) (domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(row.State, &session); err != nil {
		return domain.Session{}, fmt.Errorf("failed to decode session '%s': %w", row.ID, err)
	}

	if session.Nominations == nil {
		session.Nominations = make(map[string]domain.MovieNomination)
	}

	return session, nil
}
