package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/auth"
	"github.com/mcoot/pokernotes/internal/services/players"
	"github.com/mcoot/pokernotes/internal/services/profiles"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeGameIDExists       = "GAME_ID_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeVersionConflict    = "VERSION_CONFLICT"
	CodeNotInitialized     = "NOT_INITIALIZED"
	CodeSaveFailed         = "SAVE_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var perr *players.Error
	if errors.As(err, &perr) {
		return fromPlayerError(perr)
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "An account with this email already exists"}}
	case errors.Is(err, model.ErrDuplicateGameID):
		return &httpError{http.StatusConflict, APIError{CodeGameIDExists, "A player with this game id already exists"}}
	case errors.Is(err, model.ErrVersionConflict):
		return &httpError{http.StatusConflict, APIError{CodeVersionConflict, "Player was changed by someone else"}}
	case errors.Is(err, model.ErrStoreNotInitialized):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNotInitialized, "Database is not initialized; contact an administrator"}}

	// Map auth and profile errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, profiles.ErrNicknameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		// Unclassified failures keep the underlying message for diagnosis
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Request failed: " + err.Error()}}
	}
}

func fromPlayerError(err *players.Error) *httpError {
	switch err.Kind {
	case players.KindValidation:
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case players.KindAlreadyExists:
		return &httpError{http.StatusConflict, APIError{CodeGameIDExists, "A player with this game id already exists"}}
	case players.KindNotInitialized:
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNotInitialized, "Database is not initialized; contact an administrator"}}
	case players.KindConflict:
		return &httpError{http.StatusConflict, APIError{CodeVersionConflict, "Player was changed by someone else; reload and try again"}}
	case players.KindNotFound:
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	}
	if err.Read {
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, err.Error()}}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeSaveFailed, err.Error()}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
