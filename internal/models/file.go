package models

import (
	"time"

	"github.com/google/uuid"
)

// File types.
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
)

// File is the metadata row for an uploaded blob.
type File struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	FileType   string    `json:"file_type"`
	FileURL    string    `json:"file_url"`
	FileName   string    `json:"file_name"`
	FileSize   *int64    `json:"file_size"`
	MimeType   *string   `json:"mime_type"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsValidFileType reports whether t is a known file type.
func IsValidFileType(t string) bool {
	return t == FileTypeImage || t == FileTypeDocument
}
