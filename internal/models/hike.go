package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit defaults applied when a submission leaves them empty.
const (
	DefaultDistanceUnit  = "miles"
	DefaultDurationUnit  = "hours"
	DefaultElevationUnit = "feet"
)

// Hike is a user-submitted trail.
type Hike struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	AddressID       *uuid.UUID `json:"address_id"`
	Difficulty      *string    `json:"difficulty"`
	Distance        *float64   `json:"distance"`
	DistanceUnit    string     `json:"distance_unit"`
	Duration        *float64   `json:"duration"`
	DurationUnit    string     `json:"duration_unit"`
	Elevation       *float64   `json:"elevation"`
	ElevationUnit   string     `json:"elevation_unit"`
	TrailType       *string    `json:"trail_type"`
	Features        []string   `json:"features"`
	DogFriendly     bool       `json:"dog_friendly"`
	PermitsRequired *string    `json:"permits_required"`
	BestSeason      []string   `json:"best_season"`
	WaterSources    bool       `json:"water_sources"`
	ParkingInfo     *string    `json:"parking_info"`
	Status          string     `json:"status"`
	Featured        bool       `json:"featured"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Non-DB field, populated via JOIN for display
	Address *Address `json:"address,omitempty"`
}

func (h *Hike) Kind() string { return KindHike }
func (h *Hike) EntityID() uuid.UUID { return h.ID }
func (h *Hike) Owner() uuid.UUID { return h.CreatedBy }
func (h *Hike) CurrentStatus() string { return h.Status }
func (h *Hike) AddressRef() *uuid.UUID { return h.AddressID }
func (h *Hike) DisplayName() string { return h.Name }

// FieldValues returns the patchable fields keyed by column name.
func (h *Hike) FieldValues() map[string]any {
	return map[string]any{
		"name":             h.Name,
		"description":      h.Description,
		"difficulty":       h.Difficulty,
		"distance":         h.Distance,
		"distance_unit":    h.DistanceUnit,
		"duration":         h.Duration,
		"duration_unit":    h.DurationUnit,
		"elevation":        h.Elevation,
		"elevation_unit":   h.ElevationUnit,
		"trail_type":       h.TrailType,
		"features":         h.Features,
		"dog_friendly":     h.DogFriendly,
		"permits_required": h.PermitsRequired,
		"best_season":      h.BestSeason,
		"water_sources":    h.WaterSources,
		"parking_info":     h.ParkingInfo,
	}
}
