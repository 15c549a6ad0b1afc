package auth

import (
	"context"
	"database/sql"
	"sync"

	"github.com/eskrenkovic/movie-duel/internal/modules/auth/domain"

	"github.com/eskrenkovic/tql"
)

// UserRepository stores players. Upsert inserts the user when the username
// is free and returns whichever user is stored afterwards.
type UserRepository interface {
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
}

var _ UserRepository = (*MemoryUserRepository)(nil)

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.users[user.Username]; found {
		return existing, nil
	}

	r.users[user.Username] = user
	return user, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db}
}

func (r *PostgresUserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	const stmt = `
		INSERT INTO
			player (username, password_hash, created_at)
		VALUES
			($1, $2, $3)
		ON CONFLICT (username) DO NOTHING;`

	if _, err := tql.Exec(ctx, r.db, stmt, user.Username, user.PasswordHash, user.CreatedAt); err != nil {
		return domain.User{}, err
	}

	const query = `
		SELECT
			username, password_hash, created_at
		FROM
			player
		WHERE
			username = $1;`

	return tql.QueryFirst[domain.User](ctx, r.db, query, user.Username)
}
