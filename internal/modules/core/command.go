package core

import (
	"encoding/json"
	"fmt"
)

type Unit struct{}

type CommandError struct {
	Payload    interface{}
	StatusCode int
	Reason     *string
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (r CommandError) Error() string {
	return r.Message()
}

// Message is the text sent to clients as the "error" field.
func (r CommandError) Message() string {
	var message string
	switch p := r.Payload.(type) {
	case nil:
	case error:
		message = p.Error()
	case string:
		message = p
	default:
		message = fmt.Sprintf("%+v", p)
	}

	switch {
	case r.Reason == nil:
		return message
	case message == "":
		return *r.Reason
	default:
		return fmt.Sprintf("%s: %s", *r.Reason, message)
	}
}

func (r CommandError) Unwrap() error {
	if err, ok := r.Payload.(error); ok {
		return err
	}

	return nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (r CommandError) MarshalJSON() ([]byte, error) {
	return json.Marshal(ErrorResponse{Error: r.Message()})
}
