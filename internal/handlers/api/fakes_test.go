package api

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// fakeStore backs both the handlers' Store and the workflow's Store in
// memory. Workflow methods the tests never reach are left to the embedded
// nil interface.
type fakeStore struct {
	moderation.Store

	mu          sync.Mutex
	hikes       map[uuid.UUID]*models.Hike
	sites       map[uuid.UUID]*models.CampingSite
	queue       map[uuid.UUID]*models.ModerationEntry
	alterations map[uuid.UUID]*models.Alteration
	notes       map[uuid.UUID]*models.Note
	files       map[uuid.UUID]*models.File
	types       map[uuid.UUID]*models.CatalogType
	ratings     map[uuid.UUID]*models.Rating
	lastFilter  models.EntityFilter
	pending     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hikes:       map[uuid.UUID]*models.Hike{},
		sites:       map[uuid.UUID]*models.CampingSite{},
		queue:       map[uuid.UUID]*models.ModerationEntry{},
		alterations: map[uuid.UUID]*models.Alteration{},
		notes:       map[uuid.UUID]*models.Note{},
		files:       map[uuid.UUID]*models.File{},
		types:       map[uuid.UUID]*models.CatalogType{},
		ratings:     map[uuid.UUID]*models.Rating{},
	}
}

func (f *fakeStore) addHike(owner uuid.UUID, name, status string) *models.Hike {
	h := &models.Hike{ID: uuid.New(), Name: name, Status: status, CreatedBy: owner,
		DistanceUnit: models.DefaultDistanceUnit, DurationUnit: models.DefaultDurationUnit, ElevationUnit: models.DefaultElevationUnit}
	f.hikes[h.ID] = h
	f.queue[h.ID] = &models.ModerationEntry{ID: uuid.New(), EntityType: models.KindHike, EntityID: h.ID, Status: status}
	return h
}

func (f *fakeStore) addSite(owner uuid.UUID, name, status string) *models.CampingSite {
	s := &models.CampingSite{ID: uuid.New(), Name: name, Status: status, CreatedBy: owner}
	f.sites[s.ID] = s
	f.queue[s.ID] = &models.ModerationEntry{ID: uuid.New(), EntityType: models.KindCampingSite, EntityID: s.ID, Status: status}
	return s
}

// Handler store.

func (f *fakeStore) GetHike(_ context.Context, id uuid.UUID) (*models.Hike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hikes[id]
	if !ok {
		return nil, db.ErrHikeNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeStore) ListHikes(_ context.Context, filter models.EntityFilter) ([]models.Hike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := []models.Hike{}
	for _, h := range f.hikes {
		if filter.Status != "" && h.Status != filter.Status {
			continue
		}
		if filter.Featured != nil && h.Featured != *filter.Featured {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeStore) GetCampingSite(_ context.Context, id uuid.UUID) (*models.CampingSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sites[id]
	if !ok {
		return nil, db.ErrCampingSiteNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) ListCampingSites(_ context.Context, filter models.EntityFilter) ([]models.CampingSite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := []models.CampingSite{}
	for _, s := range f.sites {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) GetAddress(context.Context, uuid.UUID) (*models.Address, error) {
	return nil, db.ErrAddressNotFound
}

func (f *fakeStore) GetEntity(ctx context.Context, kind string, id uuid.UUID) (models.Entity, error) {
	switch kind {
	case models.KindHike:
		return f.GetHike(ctx, id)
	case models.KindCampingSite:
		return f.GetCampingSite(ctx, id)
	}
	return nil, db.ErrUnknownKind
}

func (f *fakeStore) CreateNote(_ context.Context, n *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	cp := *n
	f.notes[n.ID] = &cp
	return nil
}

func (f *fakeStore) GetNote(_ context.Context, id uuid.UUID) (*models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return nil, db.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeStore) ListNotes(_ context.Context, userID uuid.UUID, hikeID, siteID *uuid.UUID) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Note{}
	for _, n := range f.notes {
		if n.UserID != userID {
			continue
		}
		if hikeID != nil && (n.HikeID == nil || *n.HikeID != *hikeID) {
			continue
		}
		if siteID != nil && (n.CampingSiteID == nil || *n.CampingSiteID != *siteID) {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeStore) UpdateNote(_ context.Context, n *models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[n.ID]; !ok {
		return db.ErrNoteNotFound
	}
	cp := *n
	f.notes[n.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteNote(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id]; !ok {
		return db.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) CreateFile(_ context.Context, file *models.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file.ID = uuid.New()
	cp := *file
	f.files[file.ID] = &cp
	return nil
}

func (f *fakeStore) GetFile(_ context.Context, id uuid.UUID) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, db.ErrFileNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeStore) ListFiles(_ context.Context, kind string, entityID uuid.UUID) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.File{}
	for _, file := range f.files {
		if file.EntityType == kind && file.EntityID == entityID {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteFile(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return db.ErrFileNotFound
	}
	delete(f.files, id)
	return nil
}

func (f *fakeStore) ListCatalogTypes(_ context.Context, category string, activeOnly bool) ([]models.CatalogType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CatalogType{}
	for _, t := range f.types {
		if t.Category != category || (activeOnly && !t.Active) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeStore) GetCatalogType(_ context.Context, category string, id uuid.UUID) (*models.CatalogType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok || t.Category != category {
		return nil, db.ErrCatalogTypeNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) CreateCatalogType(_ context.Context, t *models.CatalogType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.types {
		if existing.Category == t.Category && existing.Name == t.Name {
			return db.ErrDuplicateCatalogType
		}
	}
	t.ID = uuid.New()
	cp := *t
	f.types[t.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateCatalogType(_ context.Context, t *models.CatalogType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.types[t.ID]; !ok {
		return db.ErrCatalogTypeNotFound
	}
	cp := *t
	f.types[t.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCatalogType(_ context.Context, category string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok || t.Category != category {
		return db.ErrCatalogTypeNotFound
	}
	delete(f.types, id)
	return nil
}

func sameTarget(a, b *uuid.UUID) bool {
	return (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
}

func (f *fakeStore) UpsertRating(_ context.Context, r *models.Rating) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.ratings {
		if existing.UserID == r.UserID && sameTarget(existing.HikeID, r.HikeID) && sameTarget(existing.CampingSiteID, r.CampingSiteID) {
			existing.Rating = r.Rating
			existing.ReviewText = r.ReviewText
			r.ID = existing.ID
			return false, nil
		}
	}
	r.ID = uuid.New()
	cp := *r
	f.ratings[r.ID] = &cp
	return true, nil
}

func (f *fakeStore) ListRatings(_ context.Context, filter models.RatingFilter) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Rating{}
	for _, r := range f.ratings {
		if filter.HikeID != nil && !sameTarget(r.HikeID, filter.HikeID) {
			continue
		}
		if filter.CampingSiteID != nil && !sameTarget(r.CampingSiteID, filter.CampingSiteID) {
			continue
		}
		if filter.ReviewsOnly && r.ReviewText == nil {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) DeleteRating(_ context.Context, userID uuid.UUID, kind string, entityID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.ratings {
		k, target := r.Target()
		if r.UserID == userID && k == kind && target == entityID {
			delete(f.ratings, id)
			return nil
		}
	}
	return db.ErrRatingNotFound
}

func (f *fakeStore) GetPublicStats(context.Context) (*models.PublicStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s models.PublicStats
	for _, h := range f.hikes {
		if h.Status == models.StatusApproved {
			s.Trails++
		}
	}
	for _, site := range f.sites {
		if site.Status == models.StatusApproved {
			s.Campsites++
		}
	}
	return &s, nil
}

func (f *fakeStore) GetAdminStats(context.Context) (*models.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.AdminStats{Hikes: int64(len(f.hikes)), CampingSites: int64(len(f.sites)), PendingAlterations: int64(len(f.alterations))}, nil
}

// Workflow store.

func (f *fakeStore) WithTx(_ context.Context, fn func(tx moderation.Store) error) error {
	return fn(f)
}

func (f *fakeStore) CreateHike(_ context.Context, h *models.Hike) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = uuid.New()
	h.Status = models.StatusPending
	cp := *h
	f.hikes[h.ID] = &cp
	return nil
}

func (f *fakeStore) CreateCampingSite(_ context.Context, s *models.CampingSite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	s.Status = models.StatusPending
	cp := *s
	f.sites[s.ID] = &cp
	return nil
}

func (f *fakeStore) CreateQueueEntry(_ context.Context, e *models.ModerationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queue[e.EntityID]; ok {
		return db.ErrDuplicateQueueEntry
	}
	e.ID = uuid.New()
	cp := *e
	f.queue[e.EntityID] = &cp
	return nil
}

func (f *fakeStore) DecideQueueEntry(_ context.Context, kind string, entityID uuid.UUID, status string, reviewerID uuid.UUID) (*models.ModerationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.queue[entityID]
	if !ok || e.EntityType != kind {
		return nil, db.ErrQueueEntryNotFound
	}
	e.Status = status
	e.ReviewedBy = &reviewerID
	cp := *e
	return &cp, nil
}

func (f *fakeStore) ListQueue(_ context.Context, status string) ([]models.ModerationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ModerationEntry
	for _, e := range f.queue {
		if status == "" || e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) SetEntityStatus(_ context.Context, kind string, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == models.KindHike {
		f.hikes[id].Status = status
	} else {
		f.sites[id].Status = status
	}
	return nil
}

func (f *fakeStore) SetEntityFeatured(_ context.Context, kind string, id uuid.UUID, featured bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if kind == models.KindHike {
		f.hikes[id].Featured = featured
	} else {
		f.sites[id].Featured = featured
	}
	return nil
}

func (f *fakeStore) DeleteEntity(_ context.Context, kind string, id uuid.UUID) ([]models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hikes, id)
	delete(f.sites, id)
	delete(f.queue, id)
	var removed []models.File
	for fid, file := range f.files {
		if file.EntityType == kind && file.EntityID == id {
			removed = append(removed, *file)
			delete(f.files, fid)
		}
	}
	return removed, nil
}

func (f *fakeStore) CreateAlteration(_ context.Context, a *models.Alteration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	a.Status = models.StatusPending
	cp := *a
	f.alterations[a.ID] = &cp
	return nil
}

func (f *fakeStore) GetAlteration(_ context.Context, id uuid.UUID) (*models.Alteration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alterations[id]
	if !ok {
		return nil, db.ErrAlterationNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListAlterations(_ context.Context, filter models.AlterationFilter) ([]models.Alteration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alteration
	for _, a := range f.alterations {
		if filter.SubmittedBy != nil && a.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) DecideAlteration(_ context.Context, id uuid.UUID, status string, reviewerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alterations[id]
	if !ok {
		return db.ErrAlterationNotFound
	}
	a.Status = status
	a.ReviewedBy = &reviewerID
	return nil
}

func (f *fakeStore) DeleteAlteration(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alterations[id]; !ok {
		return db.ErrAlterationNotFound
	}
	delete(f.alterations, id)
	return nil
}

func (f *fakeStore) CountPendingAlterationsByUser(context.Context, uuid.UUID) (int, error) {
	return f.pending, nil
}

type fakeBlobs struct {
	deleted []string
	err     error
}

func (b *fakeBlobs) Delete(_ context.Context, fileURL string) error {
	if b.err != nil {
		return b.err
	}
	b.deleted = append(b.deleted, fileURL)
	return nil
}
