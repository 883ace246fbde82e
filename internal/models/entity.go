package models

import "github.com/google/uuid"

// Entity is the moderated-record view shared by hikes and camping sites.
type Entity interface {
	Kind() string
	EntityID() uuid.UUID
	Owner() uuid.UUID
	CurrentStatus() string
	AddressRef() *uuid.UUID
	DisplayName() string
	// FieldValues maps every patchable field name to its current typed value.
	FieldValues() map[string]any
}

// CurrentValue returns the string snapshot of a patchable field.
func CurrentValue(e Entity, field string) string {
	return FormatValue(e.FieldValues()[field])
}
