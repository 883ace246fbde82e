package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"trailhead/internal/validation"
)

// FieldLocation is the compound field that edits the referenced address.
const FieldLocation = "location"

// FieldType describes how a patchable field is parsed and stored.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldNumber
	FieldBool
	FieldList
)

// Enum values.
var (
	Difficulties   = []string{"easy", "moderate", "hard", "very_hard"}
	DistanceUnits  = []string{"miles", "kilometers"}
	DurationUnits  = []string{"minutes", "hours"}
	ElevationUnits = []string{"feet", "meters"}
	PetPolicies    = []string{"allowed", "not_allowed", "restricted"}
	FirePolicies   = []string{"allowed", "not_allowed", "fire_pits_only", "seasonal"}
	SiteTypes      = []string{"public", "private", "public_private_partnership"}
)

// ErrUnknownField is returned when a field is not patchable for an entity kind.
var ErrUnknownField = errors.New("field cannot be edited")

// FieldSpec is one entry of a per-kind allow-list. Name is also the column name.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Values   []string // allowed values for FieldEnum
	Required bool     // cannot be cleared
}

var hikeFields = []FieldSpec{
	{Name: "name", Type: FieldText, Required: true},
	{Name: "description", Type: FieldText},
	{Name: "difficulty", Type: FieldEnum, Values: Difficulties},
	{Name: "distance", Type: FieldNumber},
	{Name: "distance_unit", Type: FieldEnum, Values: DistanceUnits, Required: true},
	{Name: "duration", Type: FieldNumber},
	{Name: "duration_unit", Type: FieldEnum, Values: DurationUnits, Required: true},
	{Name: "elevation", Type: FieldNumber},
	{Name: "elevation_unit", Type: FieldEnum, Values: ElevationUnits, Required: true},
	{Name: "trail_type", Type: FieldText},
	{Name: "features", Type: FieldList},
	{Name: "dog_friendly", Type: FieldBool},
	{Name: "permits_required", Type: FieldText},
	{Name: "best_season", Type: FieldList},
	{Name: "water_sources", Type: FieldBool},
	{Name: "parking_info", Type: FieldText},
}

var campingSiteFields = []FieldSpec{
	{Name: "name", Type: FieldText, Required: true},
	{Name: "description", Type: FieldText},
	{Name: "capacity", Type: FieldText},
	{Name: "amenities", Type: FieldList},
	{Name: "facilities", Type: FieldList},
	{Name: "reservation_info", Type: FieldText},
	{Name: "cost_per_night", Type: FieldNumber},
	{Name: "base_fee", Type: FieldNumber},
	{Name: "operating_season_start", Type: FieldText},
	{Name: "operating_season_end", Type: FieldText},
	{Name: "pet_policy", Type: FieldEnum, Values: PetPolicies},
	{Name: "reservation_required", Type: FieldBool},
	{Name: "site_type", Type: FieldEnum, Values: SiteTypes},
	{Name: "fire_policy", Type: FieldEnum, Values: FirePolicies},
}

// PatchableFields returns the allow-list for an entity kind.
func PatchableFields(kind string) []FieldSpec {
	switch kind {
	case KindHike:
		return hikeFields
	case KindCampingSite:
		return campingSiteFields
	default:
		return nil
	}
}

// LookupField finds a patchable field by name. The location aggregate is not
// part of the allow-list and must be handled by the caller.
func LookupField(kind, name string) (FieldSpec, error) {
	for _, f := range PatchableFields(kind) {
		if f.Name == name {
			return f, nil
		}
	}
	return FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Patch is a validated single-field update. Value holds nil, string,
// float64, bool or []string depending on the field type.
type Patch struct {
	Field FieldSpec
	Value any
}

// String returns the canonical string form stored in alterations.
func (p Patch) String() string {
	return FormatValue(p.Value)
}

// Parse validates a raw string value for the field and returns a typed patch.
func (f FieldSpec) Parse(raw string) (Patch, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if f.Required {
			return Patch{}, fmt.Errorf("%s is required", f.Name)
		}
		switch f.Type {
		case FieldBool:
			return Patch{Field: f, Value: false}, nil
		case FieldList:
			return Patch{Field: f, Value: []string{}}, nil
		}
		return Patch{Field: f, Value: nil}, nil
	}

	switch f.Type {
	case FieldText:
		return Patch{Field: f, Value: *validation.SanitizeText(raw)}, nil
	case FieldEnum:
		if !slices.Contains(f.Values, raw) {
			return Patch{}, fmt.Errorf("%s must be one of %s", f.Name, strings.Join(f.Values, ", "))
		}
		return Patch{Field: f, Value: raw}, nil
	case FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Patch{}, fmt.Errorf("%s must be a number", f.Name)
		}
		if n < 0 {
			return Patch{}, fmt.Errorf("%s cannot be negative", f.Name)
		}
		return Patch{Field: f, Value: n}, nil
	case FieldBool:
		switch strings.ToLower(raw) {
		case "on", "yes":
			return Patch{Field: f, Value: true}, nil
		case "off", "no":
			return Patch{Field: f, Value: false}, nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Patch{}, fmt.Errorf("%s must be true or false", f.Name)
		}
		return Patch{Field: f, Value: b}, nil
	case FieldList:
		return Patch{Field: f, Value: parseList(raw)}, nil
	}
	return Patch{}, fmt.Errorf("%w: %q", ErrUnknownField, f.Name)
}

// parseList accepts a JSON array of strings or a comma-separated list.
func parseList(raw string) []string {
	var items []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &items) == nil {
		return validation.SanitizeList(items)
	}
	return validation.SanitizeList(strings.Split(raw, ","))
}

// FormatValue serializes a typed field value for old_value/new_value snapshots.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case *float64:
		if val == nil {
			return ""
		}
		return strconv.FormatFloat(*val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []string:
		if len(val) == 0 {
			return ""
		}
		b, _ := json.Marshal(val)
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
