package moderation

import (
	"context"
	"strings"

	"trailhead/internal/models"
	"trailhead/internal/validation"
)

// LocationInput holds the address parts of a submission. Keys follow the
// API's snake_case; models.Location keeps the stored alteration shape.
type LocationInput struct {
	Address    *string  `json:"address"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Country    *string  `json:"country"`
	PostalCode *string  `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// Location converts the input to the address aggregate.
func (l LocationInput) Location() models.Location {
	return models.Location{
		Address:    l.Address,
		City:       l.City,
		State:      l.State,
		Country:    l.Country,
		PostalCode: l.PostalCode,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
	}
}

// HikeInput is a hike submission. Address parts are flattened into the body.
type HikeInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LocationInput
	Difficulty      string   `json:"difficulty"`
	Distance        *float64 `json:"distance"`
	DistanceUnit    string   `json:"distance_unit"`
	Duration        *float64 `json:"duration"`
	DurationUnit    string   `json:"duration_unit"`
	Elevation       *float64 `json:"elevation"`
	ElevationUnit   string   `json:"elevation_unit"`
	TrailType       string   `json:"trail_type"`
	Features        []string `json:"features"`
	DogFriendly     bool     `json:"dog_friendly"`
	PermitsRequired string   `json:"permits_required"`
	BestSeason      []string `json:"best_season"`
	WaterSources    bool     `json:"water_sources"`
	ParkingInfo     string   `json:"parking_info"`
}

// CampingSiteInput is a camping site submission.
type CampingSiteInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LocationInput
	Capacity             string   `json:"capacity"`
	Amenities            []string `json:"amenities"`
	Facilities           []string `json:"facilities"`
	ReservationInfo      string   `json:"reservation_info"`
	CostPerNight         *float64 `json:"cost_per_night"`
	BaseFee              *float64 `json:"base_fee"`
	OperatingSeasonStart string   `json:"operating_season_start"`
	OperatingSeasonEnd   string   `json:"operating_season_end"`
	PetPolicy            string   `json:"pet_policy"`
	ReservationRequired  bool     `json:"reservation_required"`
	SiteType             string   `json:"site_type"`
	FirePolicy           string   `json:"fire_policy"`
}

// SubmitHike stores a new hike as pending and queues it for review.
func (s *Service) SubmitHike(ctx context.Context, actor *models.User, in HikeInput) (*models.Hike, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}

	hike, err := buildHike(in)
	if err != nil {
		return nil, err
	}
	addr, err := buildAddress(in.Location())
	if err != nil {
		return nil, err
	}
	hike.CreatedBy = actor.ID

	err = s.store.WithTx(ctx, func(tx Store) error {
		if addr != nil {
			if err := tx.CreateAddress(ctx, addr); err != nil {
				return err
			}
			hike.AddressID = &addr.ID
		}
		if err := tx.CreateHike(ctx, hike); err != nil {
			return err
		}
		return tx.CreateQueueEntry(ctx, &models.ModerationEntry{
			EntityType: models.KindHike,
			EntityID:   hike.ID,
			Status:     models.StatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	hike.Address = addr
	s.log.Info("hike submitted", "hike_id", hike.ID, "user_id", actor.ID)
	s.notify.EntitySubmitted(ctx, hike)
	return hike, nil
}

// SubmitCampingSite stores a new camping site as pending and queues it for review.
func (s *Service) SubmitCampingSite(ctx context.Context, actor *models.User, in CampingSiteInput) (*models.CampingSite, error) {
	actor, err := Require(actor, models.RoleUser)
	if err != nil {
		return nil, err
	}

	site, err := buildCampingSite(in)
	if err != nil {
		return nil, err
	}
	addr, err := buildAddress(in.Location())
	if err != nil {
		return nil, err
	}
	site.CreatedBy = actor.ID

	err = s.store.WithTx(ctx, func(tx Store) error {
		if addr != nil {
			if err := tx.CreateAddress(ctx, addr); err != nil {
				return err
			}
			site.AddressID = &addr.ID
		}
		if err := tx.CreateCampingSite(ctx, site); err != nil {
			return err
		}
		return tx.CreateQueueEntry(ctx, &models.ModerationEntry{
			EntityType: models.KindCampingSite,
			EntityID:   site.ID,
			Status:     models.StatusPending,
		})
	})
	if err != nil {
		return nil, err
	}

	site.Address = addr
	s.log.Info("camping site submitted", "camping_site_id", site.ID, "user_id", actor.ID)
	s.notify.EntitySubmitted(ctx, site)
	return site, nil
}

func buildHike(in HikeInput) (*models.Hike, error) {
	name := validation.SanitizeText(in.Name)
	if name == nil {
		return nil, invalid("name", "name is required")
	}

	h := &models.Hike{
		Name:            *name,
		Description:     validation.SanitizeText(in.Description),
		Distance:        in.Distance,
		Duration:        in.Duration,
		Elevation:       in.Elevation,
		TrailType:       validation.SanitizeText(in.TrailType),
		Features:        validation.SanitizeList(in.Features),
		DogFriendly:     in.DogFriendly,
		PermitsRequired: validation.SanitizeText(in.PermitsRequired),
		BestSeason:      validation.SanitizeList(in.BestSeason),
		WaterSources:    in.WaterSources,
		ParkingInfo:     validation.SanitizeText(in.ParkingInfo),
	}

	var err error
	if h.Difficulty, err = optionalEnum("difficulty", in.Difficulty, models.Difficulties); err != nil {
		return nil, err
	}
	if h.DistanceUnit, err = unit("distance_unit", in.DistanceUnit, models.DistanceUnits, models.DefaultDistanceUnit); err != nil {
		return nil, err
	}
	if h.DurationUnit, err = unit("duration_unit", in.DurationUnit, models.DurationUnits, models.DefaultDurationUnit); err != nil {
		return nil, err
	}
	if h.ElevationUnit, err = unit("elevation_unit", in.ElevationUnit, models.ElevationUnits, models.DefaultElevationUnit); err != nil {
		return nil, err
	}
	for field, n := range map[string]*float64{"distance": h.Distance, "duration": h.Duration, "elevation": h.Elevation} {
		if ok, msg := validation.ValidateNonNegative(n); !ok {
			return nil, invalid(field, msg)
		}
	}
	return h, nil
}

func buildCampingSite(in CampingSiteInput) (*models.CampingSite, error) {
	name := validation.SanitizeText(in.Name)
	if name == nil {
		return nil, invalid("name", "name is required")
	}

	cs := &models.CampingSite{
		Name:                 *name,
		Description:          validation.SanitizeText(in.Description),
		Capacity:             validation.SanitizeText(in.Capacity),
		Amenities:            validation.SanitizeList(in.Amenities),
		Facilities:           validation.SanitizeList(in.Facilities),
		ReservationInfo:      validation.SanitizeText(in.ReservationInfo),
		CostPerNight:         in.CostPerNight,
		BaseFee:              in.BaseFee,
		OperatingSeasonStart: validation.SanitizeText(in.OperatingSeasonStart),
		OperatingSeasonEnd:   validation.SanitizeText(in.OperatingSeasonEnd),
		ReservationRequired:  in.ReservationRequired,
	}

	var err error
	if cs.PetPolicy, err = optionalEnum("pet_policy", in.PetPolicy, models.PetPolicies); err != nil {
		return nil, err
	}
	if cs.SiteType, err = optionalEnum("site_type", in.SiteType, models.SiteTypes); err != nil {
		return nil, err
	}
	if cs.FirePolicy, err = optionalEnum("fire_policy", in.FirePolicy, models.FirePolicies); err != nil {
		return nil, err
	}
	for field, n := range map[string]*float64{"cost_per_night": cs.CostPerNight, "base_fee": cs.BaseFee} {
		if ok, msg := validation.ValidateNonNegative(n); !ok {
			return nil, invalid(field, msg)
		}
	}
	return cs, nil
}

// buildAddress returns nil when no textual address part is present;
// coordinates alone never create an address.
func buildAddress(loc models.Location) (*models.Address, error) {
	if ok, msg := validation.ValidateCoordinates(loc.Latitude, loc.Longitude); !ok {
		return nil, invalid("location", msg)
	}
	if !loc.HasAddressFields() {
		return nil, nil
	}
	addr := &models.Address{}
	addr.ApplyLocation(sanitizeLocation(loc))
	return addr, nil
}

func sanitizeLocation(loc models.Location) models.Location {
	clean := func(p *string) *string {
		if p == nil {
			return nil
		}
		return validation.SanitizeText(*p)
	}
	loc.Address = clean(loc.Address)
	loc.City = clean(loc.City)
	loc.State = clean(loc.State)
	loc.Country = clean(loc.Country)
	loc.PostalCode = clean(loc.PostalCode)
	return loc
}

func optionalEnum(field, value string, allowed []string) (*string, error) {
	value = strings.TrimSpace(value)
	if ok, msg := validation.ValidateEnum(value, allowed); !ok {
		return nil, invalid(field, msg)
	}
	if value == "" {
		return nil, nil
	}
	return &value, nil
}

func unit(field, value string, allowed []string, fallback string) (string, error) {
	v, err := optionalEnum(field, value, allowed)
	if err != nil {
		return "", err
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}
