package players

import (
	"errors"
	"strings"

	"github.com/mcoot/pokernotes/internal/model"
)

// Kind classifies a failed player operation
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAlreadyExists  Kind = "already_exists"
	KindNotInitialized Kind = "not_initialized"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindUnknown        Kind = "unknown"
)

// Error is the classified failure returned by every Service operation
type Error struct {
	Kind Kind
	// Message overrides the default text for the kind
	Message string
	// Read marks a failure while loading players rather than saving one
	Read bool
	Err  error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindAlreadyExists:
		return "a player with this game id already exists"
	case KindNotInitialized:
		return "database is not initialized; contact an administrator"
	case KindConflict:
		return "player was changed by someone else; reload and try again"
	case KindNotFound:
		return "player not found"
	case KindValidation:
		return "invalid player"
	}
	prefix := "failed to save: "
	if e.Read {
		prefix = "failed to load players: "
	}
	if e.Err != nil {
		return prefix + e.Err.Error()
	}
	return prefix + "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a classified error, or KindUnknown
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindUnknown
}

func validationError(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// Classify maps a store error onto an *Error.
// Sentinel errors are matched first; untyped driver errors fall back to their message.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	switch {
	case errors.Is(err, model.ErrDuplicateGameID):
		return &Error{Kind: KindAlreadyExists, Err: err}
	case errors.Is(err, model.ErrStoreNotInitialized):
		return &Error{Kind: KindNotInitialized, Err: err}
	case errors.Is(err, model.ErrVersionConflict):
		return &Error{Kind: KindConflict, Err: err}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &Error{Kind: KindNotFound, Err: err}
	case errors.Is(err, model.ErrInvalidPlayStyle):
		return validationError(err.Error(), err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		return &Error{Kind: KindAlreadyExists, Err: err}
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "no such table"):
		return &Error{Kind: KindNotInitialized, Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}

// classifyRead is Classify for lookups, where an unknown failure is not a failed save
func classifyRead(err error) error {
	classified := Classify(err)
	var perr *Error
	if errors.As(classified, &perr) && perr.Kind == KindUnknown && !perr.Read {
		return &Error{Kind: KindUnknown, Read: true, Err: perr.Err}
	}
	return classified
}
