package api

import (
	"context"

	"github.com/google/uuid"

	"trailhead/internal/db"
	"trailhead/internal/models"
)

// Store is the read and auxiliary persistence surface used by the handlers.
// Workflow writes go through moderation.Service.
type Store interface {
	GetHike(ctx context.Context, id uuid.UUID) (*models.Hike, error)
	ListHikes(ctx context.Context, f models.EntityFilter) ([]models.Hike, error)
	GetCampingSite(ctx context.Context, id uuid.UUID) (*models.CampingSite, error)
	ListCampingSites(ctx context.Context, f models.EntityFilter) ([]models.CampingSite, error)
	GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error)
	GetEntity(ctx context.Context, kind string, id uuid.UUID) (models.Entity, error)

	CreateNote(ctx context.Context, n *models.Note) error
	GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error)
	ListNotes(ctx context.Context, userID uuid.UUID, hikeID, campingSiteID *uuid.UUID) ([]models.Note, error)
	UpdateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error

	CreateFile(ctx context.Context, f *models.File) error
	GetFile(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListFiles(ctx context.Context, kind string, entityID uuid.UUID) ([]models.File, error)
	DeleteFile(ctx context.Context, id uuid.UUID) error

	ListCatalogTypes(ctx context.Context, category string, activeOnly bool) ([]models.CatalogType, error)
	GetCatalogType(ctx context.Context, category string, id uuid.UUID) (*models.CatalogType, error)
	CreateCatalogType(ctx context.Context, t *models.CatalogType) error
	UpdateCatalogType(ctx context.Context, t *models.CatalogType) error
	DeleteCatalogType(ctx context.Context, category string, id uuid.UUID) error

	UpsertRating(ctx context.Context, r *models.Rating) (bool, error)
	ListRatings(ctx context.Context, f models.RatingFilter) ([]models.Rating, error)
	DeleteRating(ctx context.Context, userID uuid.UUID, kind string, entityID uuid.UUID) error

	GetPublicStats(ctx context.Context) (*models.PublicStats, error)
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}

var _ Store = (*db.DB)(nil)
