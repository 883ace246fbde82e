package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is the shared location record referenced by hikes and camping sites.
type Address struct {
	ID         uuid.UUID `json:"id"`
	Address    *string   `json:"address"`
	City       *string   `json:"city"`
	State      *string   `json:"state"`
	Country    *string   `json:"country"`
	PostalCode *string   `json:"postal_code"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Location is the address aggregate carried by "location" alterations.
// The JSON shape is what gets stored in old_value/new_value.
type Location struct {
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Country    *string  `json:"country"`
	PostalCode *string  `json:"postalCode"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// HasAddressFields reports whether any textual address part is set.
// Coordinates alone do not count.
func (l Location) HasAddressFields() bool {
	for _, s := range []*string{l.Address, l.City, l.State, l.Country, l.PostalCode} {
		if s != nil && strings.TrimSpace(*s) != "" {
			return true
		}
	}
	return false
}

// Encode returns the JSON form of the location.
func (l Location) Encode() string {
	b, _ := json.Marshal(l)
	return string(b)
}

// ParseLocation decodes a JSON-encoded location.
func ParseLocation(raw string) (Location, error) {
	var l Location
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return Location{}, err
	}
	return l, nil
}

// Location returns the aggregate view of the address.
func (a *Address) Location() Location {
	return Location{
		Address:    a.Address,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
	}
}

// ApplyLocation overwrites every address part with the location's values.
func (a *Address) ApplyLocation(l Location) {
	a.Address = l.Address
	a.City = l.City
	a.State = l.State
	a.Country = l.Country
	a.PostalCode = l.PostalCode
	a.Latitude = l.Latitude
	a.Longitude = l.Longitude
}
