package models

import (
	"time"

	"github.com/google/uuid"
)

// CampingSite is a user-submitted campsite.
type CampingSite struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Description          *string    `json:"description"`
	AddressID            *uuid.UUID `json:"address_id"`
	Capacity             *string    `json:"capacity"`
	Amenities            []string   `json:"amenities"`
	Facilities           []string   `json:"facilities"`
	ReservationInfo      *string    `json:"reservation_info"`
	CostPerNight         *float64   `json:"cost_per_night"`
	BaseFee              *float64   `json:"base_fee"`
	OperatingSeasonStart *string    `json:"operating_season_start"`
	OperatingSeasonEnd   *string    `json:"operating_season_end"`
	PetPolicy            *string    `json:"pet_policy"`
	ReservationRequired  bool       `json:"reservation_required"`
	SiteType             *string    `json:"site_type"`
	FirePolicy           *string    `json:"fire_policy"`
	Status               string     `json:"status"`
	Featured             bool       `json:"featured"`
	CreatedBy            uuid.UUID  `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Non-DB field, populated via JOIN for display
	Address *Address `json:"address,omitempty"`
}

func (s *CampingSite) Kind() string { return KindCampingSite }
func (s *CampingSite) EntityID() uuid.UUID { return s.ID }
func (s *CampingSite) Owner() uuid.UUID { return s.CreatedBy }
func (s *CampingSite) CurrentStatus() string { return s.Status }
func (s *CampingSite) AddressRef() *uuid.UUID { return s.AddressID }
func (s *CampingSite) DisplayName() string { return s.Name }

// FieldValues returns the patchable fields keyed by column name.
func (s *CampingSite) FieldValues() map[string]any {
	return map[string]any{
		"name":                   s.Name,
		"description":            s.Description,
		"capacity":               s.Capacity,
		"amenities":              s.Amenities,
		"facilities":             s.Facilities,
		"reservation_info":       s.ReservationInfo,
		"cost_per_night":         s.CostPerNight,
		"base_fee":               s.BaseFee,
		"operating_season_start": s.OperatingSeasonStart,
		"operating_season_end":   s.OperatingSeasonEnd,
		"pet_policy":             s.PetPolicy,
		"reservation_required":   s.ReservationRequired,
		"site_type":              s.SiteType,
		"fire_policy":            s.FirePolicy,
	}
}
