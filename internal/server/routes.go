package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trailhead/internal/config"
	"trailhead/internal/handlers"
	"trailhead/internal/handlers/api"
	"trailhead/internal/middleware"
	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Auth    *middleware.AuthMiddleware
	Login   handlers.LoginProvider
	Service *moderation.Service
	Store   api.Store
	Health  handlers.Pinger
	Blobs   moderation.BlobDeleter
	YAML    *config.YAMLConfig
	Limiter *middleware.RateLimiter
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(d Deps) {
	healthHandler := handlers.NewHealthHandler(d.Health)
	authHandler := handlers.NewAuthHandler(d.Login)

	entityHandler := api.NewEntityHandler(d.Service, d.Store)
	moderationHandler := api.NewModerationHandler(d.Service)
	alterationHandler := api.NewAlterationHandler(d.Service)
	noteHandler := api.NewNoteHandler(d.Store)
	fileHandler := api.NewFileHandler(d.Store, d.Blobs)
	userHandler := api.NewUserHandler(d.Store, d.YAML)
	typeHandler := api.NewCatalogTypeHandler(d.Store)
	ratingHandler := api.NewRatingHandler(d.Store)

	requireAuth := d.Auth.RequireAuth
	submitLimit := d.Limiter.Handler

	// Health checks and metrics
	s.App.Get("/healthz", healthHandler.Liveness)
	s.App.Get("/readyz", healthHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	apiGroup := s.App.Group("/api", d.Auth.OptionalAuth)

	// Hikes
	hikes := apiGroup.Group("/hikes")
	hikes.Get("/", entityHandler.ListHikes)
	hikes.Get("/:id", entityHandler.GetHike)
	hikes.Get("/:id/files", fileHandler.ListFor(models.KindHike))
	hikes.Post("/", requireAuth, submitLimit, entityHandler.SubmitHike)
	hikes.Put("/:id", requireAuth, entityHandler.UpdateHike)
	hikes.Patch("/:id/field", requireAuth, submitLimit, entityHandler.EditField(models.KindHike))
	hikes.Delete("/:id", requireAuth, entityHandler.Delete(models.KindHike))
	hikes.Put("/:id/featured", requireAuth, middleware.RequireRole(models.RoleAdmin), entityHandler.SetFeatured(models.KindHike))

	// Camping sites
	sites := apiGroup.Group("/camping-sites")
	sites.Get("/", entityHandler.ListCampingSites)
	sites.Get("/:id", entityHandler.GetCampingSite)
	sites.Get("/:id/files", fileHandler.ListFor(models.KindCampingSite))
	sites.Post("/", requireAuth, submitLimit, entityHandler.SubmitCampingSite)
	sites.Put("/:id", requireAuth, entityHandler.UpdateCampingSite)
	sites.Patch("/:id/field", requireAuth, submitLimit, entityHandler.EditField(models.KindCampingSite))
	sites.Delete("/:id", requireAuth, entityHandler.Delete(models.KindCampingSite))
	sites.Put("/:id/featured", requireAuth, middleware.RequireRole(models.RoleAdmin), entityHandler.SetFeatured(models.KindCampingSite))

	// Moderation queue (moderators only)
	queue := apiGroup.Group("/moderation", requireAuth, middleware.RequireRole(models.RoleModerator))
	queue.Get("/", moderationHandler.List)
	queue.Post("/:type/:id", moderationHandler.Decide)

	// Alterations
	alterations := apiGroup.Group("/alterations", requireAuth)
	alterations.Post("/", submitLimit, alterationHandler.Create)
	alterations.Get("/", alterationHandler.List)
	alterations.Get("/:id", alterationHandler.Get)
	alterations.Put("/:id", middleware.RequireRole(models.RoleModerator), alterationHandler.Decide)
	alterations.Delete("/:id", alterationHandler.Delete)

	// Personal notes
	notes := apiGroup.Group("/notes", requireAuth)
	notes.Get("/", noteHandler.List)
	notes.Post("/", noteHandler.Create)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)

	// File metadata
	apiGroup.Post("/files", requireAuth, fileHandler.Create)
	apiGroup.Get("/files/:id", fileHandler.Get)
	apiGroup.Delete("/files/:id", requireAuth, fileHandler.Delete)

	// Users, stats and catalogs
	apiGroup.Get("/me", requireAuth, userHandler.Me)
	apiGroup.Get("/stats", userHandler.PublicStats)
	apiGroup.Get("/admin/stats", requireAuth, middleware.RequireRole(models.RoleAdmin), userHandler.AdminStats)
	apiGroup.Get("/catalog", userHandler.Catalog)

	// Catalog types, e.g. /api/trail-types
	for _, category := range models.CatalogCategories {
		types := apiGroup.Group("/" + category + "-types")
		types.Get("/", typeHandler.List(category))
		types.Get("/:id", typeHandler.Get(category))
		types.Post("/", requireAuth, middleware.RequireRole(models.RoleAdmin), typeHandler.Create(category))
		types.Put("/:id", requireAuth, middleware.RequireRole(models.RoleAdmin), typeHandler.Update(category))
		types.Delete("/:id", requireAuth, middleware.RequireRole(models.RoleAdmin), typeHandler.Delete(category))
	}

	// Ratings and reviews
	apiGroup.Get("/ratings", ratingHandler.List)
	apiGroup.Post("/ratings", requireAuth, submitLimit, ratingHandler.Upsert)
	apiGroup.Delete("/ratings", requireAuth, ratingHandler.Delete)
}
