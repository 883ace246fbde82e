package moderation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
)

type queueKey struct {
	kind string
	id   uuid.UUID
}

// memStore is an in-memory Store. WithTx snapshots the maps and restores
// them when the callback fails.
type memStore struct {
	addresses    map[uuid.UUID]models.Address
	hikes        map[uuid.UUID]models.Hike
	campingSites map[uuid.UUID]models.CampingSite
	queue        map[queueKey]models.ModerationEntry
	alterations  map[uuid.UUID]models.Alteration
	files        map[uuid.UUID]models.File

	// failOn makes the named method return the error.
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		addresses:    map[uuid.UUID]models.Address{},
		hikes:        map[uuid.UUID]models.Hike{},
		campingSites: map[uuid.UUID]models.CampingSite{},
		queue:        map[queueKey]models.ModerationEntry{},
		alterations:  map[uuid.UUID]models.Alteration{},
		files:        map[uuid.UUID]models.File{},
		failOn:       map[string]error{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	addresses, hikes, sites := cloneMap(m.addresses), cloneMap(m.hikes), cloneMap(m.campingSites)
	queue, alterations, files := cloneMap(m.queue), cloneMap(m.alterations), cloneMap(m.files)
	if err := fn(m); err != nil {
		m.addresses, m.hikes, m.campingSites = addresses, hikes, sites
		m.queue, m.alterations, m.files = queue, alterations, files
		return err
	}
	return nil
}

func (m *memStore) fail(method string) error {
	return m.failOn[method]
}

func (m *memStore) CreateAddress(ctx context.Context, a *models.Address) error {
	if err := m.fail("CreateAddress"); err != nil {
		return err
	}
	a.ID = uuid.New()
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	m.addresses[a.ID] = *a
	return nil
}

func (m *memStore) GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, db.ErrAddressNotFound
	}
	return &a, nil
}

func (m *memStore) UpdateAddress(ctx context.Context, a *models.Address) error {
	if _, ok := m.addresses[a.ID]; !ok {
		return db.ErrAddressNotFound
	}
	a.UpdatedAt = time.Now()
	m.addresses[a.ID] = *a
	return nil
}

func (m *memStore) CreateHike(ctx context.Context, h *models.Hike) error {
	if err := m.fail("CreateHike"); err != nil {
		return err
	}
	h.ID = uuid.New()
	h.Status = models.StatusPending
	h.CreatedAt, h.UpdatedAt = time.Now(), time.Now()
	stored := *h
	stored.Address = nil
	m.hikes[h.ID] = stored
	return nil
}

func (m *memStore) CreateCampingSite(ctx context.Context, s *models.CampingSite) error {
	if err := m.fail("CreateCampingSite"); err != nil {
		return err
	}
	s.ID = uuid.New()
	s.Status = models.StatusPending
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	stored := *s
	stored.Address = nil
	m.campingSites[s.ID] = stored
	return nil
}

func (m *memStore) GetEntity(ctx context.Context, kind string, id uuid.UUID) (models.Entity, error) {
	switch kind {
	case models.KindHike:
		h, ok := m.hikes[id]
		if !ok {
			return nil, db.ErrHikeNotFound
		}
		return &h, nil
	case models.KindCampingSite:
		s, ok := m.campingSites[id]
		if !ok {
			return nil, db.ErrCampingSiteNotFound
		}
		return &s, nil
	}
	return nil, db.ErrUnknownKind
}

// update mutates a stored entity through its pointer form.
func (m *memStore) update(kind string, id uuid.UUID, fn func(h *models.Hike, s *models.CampingSite)) error {
	switch kind {
	case models.KindHike:
		h, ok := m.hikes[id]
		if !ok {
			return db.ErrHikeNotFound
		}
		fn(&h, nil)
		m.hikes[id] = h
	case models.KindCampingSite:
		s, ok := m.campingSites[id]
		if !ok {
			return db.ErrCampingSiteNotFound
		}
		fn(nil, &s)
		m.campingSites[id] = s
	default:
		return db.ErrUnknownKind
	}
	return nil
}

func (m *memStore) SetEntityStatus(ctx context.Context, kind string, id uuid.UUID, status string) error {
	if err := m.fail("SetEntityStatus"); err != nil {
		return err
	}
	return m.update(kind, id, func(h *models.Hike, s *models.CampingSite) {
		if h != nil {
			h.Status = status
		} else {
			s.Status = status
		}
	})
}

func (m *memStore) SetEntityFeatured(ctx context.Context, kind string, id uuid.UUID, featured bool) error {
	return m.update(kind, id, func(h *models.Hike, s *models.CampingSite) {
		if h != nil {
			h.Featured = featured
		} else {
			s.Featured = featured
		}
	})
}

func (m *memStore) SetEntityAddress(ctx context.Context, kind string, id uuid.UUID, addressID uuid.UUID) error {
	return m.update(kind, id, func(h *models.Hike, s *models.CampingSite) {
		if h != nil {
			h.AddressID, h.UpdatedAt = &addressID, time.Now()
		} else {
			s.AddressID, s.UpdatedAt = &addressID, time.Now()
		}
	})
}

func (m *memStore) TouchEntity(ctx context.Context, kind string, id uuid.UUID) error {
	return m.update(kind, id, func(h *models.Hike, s *models.CampingSite) {
		if h != nil {
			h.UpdatedAt = time.Now()
		} else {
			s.UpdatedAt = time.Now()
		}
	})
}

func (m *memStore) PatchEntity(ctx context.Context, kind string, id uuid.UUID, patches []models.Patch) error {
	if err := m.fail("PatchEntity"); err != nil {
		return err
	}
	return m.update(kind, id, func(h *models.Hike, s *models.CampingSite) {
		for _, p := range patches {
			if h != nil {
				applyHikePatch(h, p)
				h.UpdatedAt = time.Now()
			} else {
				applyCampingSitePatch(s, p)
				s.UpdatedAt = time.Now()
			}
		}
	})
}

func strVal(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func numVal(v any) *float64 {
	if n, ok := v.(float64); ok {
		return &n
	}
	return nil
}

func listVal(v any) []string {
	l, _ := v.([]string)
	return l
}

func applyHikePatch(h *models.Hike, p models.Patch) {
	v := p.Value
	switch p.Field.Name {
	case "name":
		h.Name = v.(string)
	case "description":
		h.Description = strVal(v)
	case "difficulty":
		h.Difficulty = strVal(v)
	case "distance":
		h.Distance = numVal(v)
	case "distance_unit":
		h.DistanceUnit = v.(string)
	case "duration":
		h.Duration = numVal(v)
	case "duration_unit":
		h.DurationUnit = v.(string)
	case "elevation":
		h.Elevation = numVal(v)
	case "elevation_unit":
		h.ElevationUnit = v.(string)
	case "trail_type":
		h.TrailType = strVal(v)
	case "features":
		h.Features = listVal(v)
	case "dog_friendly":
		h.DogFriendly = v.(bool)
	case "permits_required":
		h.PermitsRequired = strVal(v)
	case "best_season":
		h.BestSeason = listVal(v)
	case "water_sources":
		h.WaterSources = v.(bool)
	case "parking_info":
		h.ParkingInfo = strVal(v)
	}
}

func applyCampingSitePatch(s *models.CampingSite, p models.Patch) {
	v := p.Value
	switch p.Field.Name {
	case "name":
		s.Name = v.(string)
	case "description":
		s.Description = strVal(v)
	case "capacity":
		s.Capacity = strVal(v)
	case "amenities":
		s.Amenities = listVal(v)
	case "facilities":
		s.Facilities = listVal(v)
	case "reservation_info":
		s.ReservationInfo = strVal(v)
	case "cost_per_night":
		s.CostPerNight = numVal(v)
	case "base_fee":
		s.BaseFee = numVal(v)
	case "operating_season_start":
		s.OperatingSeasonStart = strVal(v)
	case "operating_season_end":
		s.OperatingSeasonEnd = strVal(v)
	case "pet_policy":
		s.PetPolicy = strVal(v)
	case "reservation_required":
		s.ReservationRequired = v.(bool)
	case "site_type":
		s.SiteType = strVal(v)
	case "fire_policy":
		s.FirePolicy = strVal(v)
	}
}

func (m *memStore) DeleteEntity(ctx context.Context, kind string, id uuid.UUID) ([]models.File, error) {
	if _, err := m.GetEntity(ctx, kind, id); err != nil {
		return nil, err
	}
	if kind == models.KindHike {
		delete(m.hikes, id)
	} else {
		delete(m.campingSites, id)
	}
	delete(m.queue, queueKey{kind, id})
	for altID, a := range m.alterations {
		if k, target := a.Target(); k == kind && target == id {
			delete(m.alterations, altID)
		}
	}
	var files []models.File
	for fileID, f := range m.files {
		if f.EntityType == kind && f.EntityID == id {
			files = append(files, f)
			delete(m.files, fileID)
		}
	}
	return files, nil
}

func (m *memStore) CreateQueueEntry(ctx context.Context, e *models.ModerationEntry) error {
	if err := m.fail("CreateQueueEntry"); err != nil {
		return err
	}
	key := queueKey{e.EntityType, e.EntityID}
	if _, ok := m.queue[key]; ok {
		return db.ErrDuplicateQueueEntry
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.queue[key] = *e
	return nil
}

func (m *memStore) DecideQueueEntry(ctx context.Context, kind string, entityID uuid.UUID, status string, reviewerID uuid.UUID) (*models.ModerationEntry, error) {
	key := queueKey{kind, entityID}
	e, ok := m.queue[key]
	if !ok {
		return nil, db.ErrQueueEntryNotFound
	}
	now := time.Now()
	e.Status, e.ReviewedBy, e.ReviewedAt = status, &reviewerID, &now
	m.queue[key] = e
	return &e, nil
}

func (m *memStore) ListQueue(ctx context.Context, status string) ([]models.ModerationEntry, error) {
	entries := []models.ModerationEntry{}
	for _, e := range m.queue {
		if status == "" || e.Status == status {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries, nil
}

func (m *memStore) CreateAlteration(ctx context.Context, a *models.Alteration) error {
	a.ID = uuid.New()
	a.Status = models.StatusPending
	a.CreatedAt = time.Now()
	m.alterations[a.ID] = *a
	return nil
}

func (m *memStore) GetAlteration(ctx context.Context, id uuid.UUID) (*models.Alteration, error) {
	a, ok := m.alterations[id]
	if !ok {
		return nil, db.ErrAlterationNotFound
	}
	return &a, nil
}

func (m *memStore) ListAlterations(ctx context.Context, f models.AlterationFilter) ([]models.Alteration, error) {
	out := []models.Alteration{}
	for _, a := range m.alterations {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.HikeID != nil && (a.HikeID == nil || *a.HikeID != *f.HikeID) {
			continue
		}
		if f.CampingSiteID != nil && (a.CampingSiteID == nil || *a.CampingSiteID != *f.CampingSiteID) {
			continue
		}
		if f.SubmittedBy != nil && a.SubmittedBy != *f.SubmittedBy {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) DecideAlteration(ctx context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error {
	a, ok := m.alterations[id]
	if !ok {
		return db.ErrAlterationNotFound
	}
	now := time.Now()
	a.Status, a.ReviewedBy, a.ReviewedAt = status, &reviewerID, &now
	m.alterations[id] = a
	return nil
}

func (m *memStore) DeleteAlteration(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.alterations[id]; !ok {
		return db.ErrAlterationNotFound
	}
	delete(m.alterations, id)
	return nil
}

func (m *memStore) CountPendingAlterationsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.alterations {
		if a.SubmittedBy == userID && a.Status == models.StatusPending {
			n++
		}
	}
	return n, nil
}

var _ Store = (*memStore)(nil)

// recorder captures notifications.
type recorder struct {
	submitted          []models.Entity
	decided            []*models.ModerationEntry
	proposed           []*models.Alteration
	alterationsDecided []*models.Alteration
	applied            []bool
}

func (r *recorder) EntitySubmitted(ctx context.Context, e models.Entity) {
	r.submitted = append(r.submitted, e)
}

func (r *recorder) EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry) {
	r.decided = append(r.decided, entry)
}

func (r *recorder) AlterationProposed(ctx context.Context, a *models.Alteration) {
	r.proposed = append(r.proposed, a)
}

func (r *recorder) AlterationDecided(ctx context.Context, a *models.Alteration, applied bool) {
	r.alterationsDecided = append(r.alterationsDecided, a)
	r.applied = append(r.applied, applied)
}

// blobRecorder captures blob deletions.
type blobRecorder struct {
	deleted []string
}

func (b *blobRecorder) Delete(ctx context.Context, fileURL string) error {
	b.deleted = append(b.deleted, fileURL)
	return nil
}
