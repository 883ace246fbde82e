package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is wrapped by every "no such row" sentinel below.
var ErrNotFound = errors.New("not found")

// Domain-level database error sentinels.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrAddressNotFound     = fmt.Errorf("address %w", ErrNotFound)
	ErrHikeNotFound        = fmt.Errorf("hike %w", ErrNotFound)
	ErrCampingSiteNotFound = fmt.Errorf("camping site %w", ErrNotFound)
	ErrQueueEntryNotFound  = fmt.Errorf("moderation entry %w", ErrNotFound)
	ErrAlterationNotFound  = fmt.Errorf("alteration %w", ErrNotFound)
	ErrNoteNotFound        = fmt.Errorf("note %w", ErrNotFound)
	ErrFileNotFound        = fmt.Errorf("file %w", ErrNotFound)
	ErrCatalogTypeNotFound = fmt.Errorf("catalog type %w", ErrNotFound)
	ErrRatingNotFound      = fmt.Errorf("rating %w", ErrNotFound)

	ErrDuplicateQueueEntry  = errors.New("entity is already in the moderation queue")
	ErrDuplicateCatalogType = errors.New("a catalog type with this name or key already exists")
	ErrConstraint           = errors.New("constraint violation")
	ErrUnknownKind          = errors.New("unknown entity kind")
)

// Postgres error codes.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of err, or "" if err is not a Postgres error.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps constraint failures onto ErrConstraint.
func translate(err error) error {
	switch pgCode(err) {
	case pgCheckViolation, pgForeignKeyViolation:
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
