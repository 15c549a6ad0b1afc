package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/auth"
	"github.com/eskrenkovic/movie-duel/internal/modules/auth/domain"
	"github.com/eskrenkovic/movie-duel/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"go.uber.org/zap/zapcore"
)

type AuthenticateCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c AuthenticateCommand) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("invalid Username - '%s'", c.Username)
	}

	return nil
}

// MarshalLogObject keeps the password out of request logs.
func (c AuthenticateCommand) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("username", c.Username)
	enc.AddBool("password_set", c.Password != "")
	return nil
}

type AuthenticateResponse struct {
	Username string `json:"username"`
}

func HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[AuthenticateCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[AuthenticateCommand, AuthenticateResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

// AuthenticateCommandHandler registers unknown usernames on first use.
// Known usernames are accepted without checking the password.
type AuthenticateCommandHandler struct {
	repository     auth.UserRepository
	passwordHasher *domain.PasswordHasher
	now            func() time.Time
}

func NewAuthenticateCommandHandler(
	repository auth.UserRepository,
	passwordHasher *domain.PasswordHasher,
) *AuthenticateCommandHandler {
	return &AuthenticateCommandHandler{
		repository:     repository,
		passwordHasher: passwordHasher,
		now:            time.Now,
	}
}

func (h *AuthenticateCommandHandler) Handle(
	ctx context.Context,
	request AuthenticateCommand,
) (AuthenticateResponse, error) {
	user, err := domain.NewUser(request.Username, request.Password, h.passwordHasher, h.now().UTC())
	if err != nil {
		return AuthenticateResponse{}, core.NewCommandError(http.StatusInternalServerError, err, core.WithReason("failed to hash password"))
	}

	stored, err := h.repository.Upsert(ctx, user)
	if err != nil {
		return AuthenticateResponse{}, core.NewCommandError(http.StatusInternalServerError, err, core.WithReason("failed to store user"))
	}

	return AuthenticateResponse{Username: stored.Username}, nil
}
