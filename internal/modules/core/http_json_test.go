package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_WriteCommandError_Writes_Status_And_Error_Message(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/games", nil)

	err := NewCommandError(http.StatusBadRequest, errors.New("not your turn"))

	// Act
	WriteCommandError(w, r, err)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not your turn", body.Error)
}

func Test_WriteCommandError_Finds_Wrapped_CommandError(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/movies/1", nil)

	err := fmt.Errorf("send failed: %w", NewCommandError(http.StatusInternalServerError, errors.New("tmdb down")))

	// Act
	WriteCommandError(w, r, err)

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "tmdb down", body.Error)
}

func Test_WriteCommandError_Defaults_To_500_For_Plain_Errors(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	WriteCommandError(w, r, errors.New("boom"))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func Test_WriteOK_Without_Body_Writes_Nothing(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	WriteOK(w, r, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
}

func Test_CommandError_Message_Includes_Reason(t *testing.T) {
	// Arrange
	err := NewCommandError(http.StatusBadRequest, errors.New("invalid Username - ''"), WithReason("request validation failed"))

	// Act
	message := err.Message()

	// Assert
	require.Equal(t, "request validation failed: invalid Username - ''", message)
}
