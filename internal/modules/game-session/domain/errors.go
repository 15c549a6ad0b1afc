package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid game state")
	ErrTurnViolation   = errors.New("not your turn")
	ErrActionExhausted = errors.New("no moves of that kind left this turn")
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsDomainError reports whether err is one of the validation failures the
// state machine raises, as opposed to a storage or transport failure.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrTurnViolation) ||
		errors.Is(err, ErrActionExhausted) ||
		errors.Is(err, ErrInvalidArgument)
}
