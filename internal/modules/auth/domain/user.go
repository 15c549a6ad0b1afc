package domain

import "time"

type User struct {
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewUser(username string, password string, passwordHasher *PasswordHasher, now time.Time) (User, error) {
	passwordHash, err := passwordHasher.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	return User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}
