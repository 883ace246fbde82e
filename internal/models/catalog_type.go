package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Catalog categories. Each is served under /api/{category}-types.
const (
	CatalogTrail    = "trail"
	CatalogFeature  = "feature"
	CatalogAmenity  = "amenity"
	CatalogFacility = "facility"
)

// CatalogCategories lists every catalog category.
var CatalogCategories = []string{CatalogTrail, CatalogFeature, CatalogAmenity, CatalogFacility}

// IsValidCatalogCategory reports whether category is known.
func IsValidCatalogCategory(category string) bool {
	return slices.Contains(CatalogCategories, category)
}

// CatalogType is an admin-managed suggestion shown when describing hikes and
// camping sites (trail types, features, amenities, facilities).
type CatalogType struct {
	ID           uuid.UUID `json:"id"`
	Category     string    `json:"category"`
	Name         string    `json:"name"`
	Key          *string   `json:"key"`
	Description  *string   `json:"description"`
	Icon         *string   `json:"icon"`
	DisplayOrder int       `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
