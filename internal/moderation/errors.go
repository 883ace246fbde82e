package moderation

import (
	"errors"

	"trailhead/internal/db"
)

// Error taxonomy. Handlers map these onto HTTP status codes.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrNotFound        = db.ErrNotFound
	ErrValidation      = errors.New("validation failed")
)

// ValidationError describes a rejected input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Validation sentinels that callers may want to tell apart.
var (
	ErrInvalidDecision        = &ValidationError{Field: "status", Message: `must be "approved" or "rejected"`}
	ErrInvalidKind            = &ValidationError{Field: "entity_type", Message: `must be "hike" or "camping_site"`}
	ErrTargetRequired         = &ValidationError{Field: "target", Message: "either hike_id or camping_site_id is required"}
	ErrTargetAmbiguous        = &ValidationError{Field: "target", Message: "only one of hike_id or camping_site_id may be set"}
	ErrPendingAlterationLimit = &ValidationError{Field: "alterations", Message: "you have reached the maximum number of pending alterations"}
	ErrNotApproved            = &ValidationError{Field: "featured", Message: "only approved entries can be featured"}
)
