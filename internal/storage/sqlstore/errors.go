package sqlstore

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mcoot/pokernotes/internal/model"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// translate maps driver errors onto model errors.
// duplicate is returned for unique constraint violations.
func translate(err error, duplicate error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicate
		case pgUndefinedTable:
			return model.ErrStoreNotInitialized
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate
	}

	// Fall back to the driver message when the error was not typed
	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "UNIQUE constraint failed"):
		return duplicate
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return model.ErrStoreNotInitialized
	}
	return err
}
