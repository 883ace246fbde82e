package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"trailhead/internal/blob"
	"trailhead/internal/config"
	"trailhead/internal/db"
	"trailhead/internal/email"
	"trailhead/internal/events"
	"trailhead/internal/identity"
	"trailhead/internal/metrics"
	"trailhead/internal/middleware"
	"trailhead/internal/models"
	"trailhead/internal/moderation"
	"trailhead/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		fatal("failed to load config file", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		fatal("failed to run migrations", err)
	}
	slog.Info("migrations completed")

	// Seed empty catalog type tables from the config file
	for category, names := range catalogSeeds(yamlCfg) {
		n, err := database.SeedCatalogTypes(ctx, category, names)
		if err != nil {
			slog.Warn("failed to seed catalog types", "category", category, "error", err)
			continue
		}
		if n > 0 {
			slog.Info("seeded catalog types", "category", category, "count", n)
		}
	}

	// Identity - OIDC is required to sign in
	if cfg.OIDCIssuer == "" {
		fatal("OIDC_ISSUER is required", nil)
	}
	roleClaim := cfg.OIDCRoleClaim
	if yamlCfg.Roles.Claim != "" {
		roleClaim = yamlCfg.Roles.Claim
	}
	provider, err := identity.NewOIDCProvider(ctx, identity.OIDCConfig{
		Issuer:       cfg.OIDCIssuer,
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
	}, identity.NewRoleMapper(roleClaim, roleMappings(yamlCfg)))
	if err != nil {
		fatal("failed to initialize OIDC provider", err)
	}

	// Notifiers
	notifiers := moderation.Notifiers{metrics.Init(database)}
	var publisher *events.Publisher
	if cfg.IsKafkaEnabled() {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		notifiers = append(notifiers, publisher)
		slog.Info("publishing moderation events", "topic", cfg.KafkaTopic)
	}
	if cfg.IsEmailEnabled() {
		notifiers = append(notifiers, email.NewNotifier(cfg, database))
		slog.Info("email notifications enabled", "host", cfg.SMTPHost)
	}

	// Blob storage
	var blobs moderation.BlobDeleter
	if cfg.S3Bucket != "" {
		store, err := blob.NewS3(ctx, blob.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			fatal("failed to initialize blob storage", err)
		}
		blobs = store
	} else {
		slog.Warn("S3_BUCKET not set, stored files will not be deleted with their records")
	}

	policy, err := moderation.ParseEditPolicy(cfg.EditPolicy)
	if err != nil {
		fatal("invalid EDIT_POLICY", err)
	}
	svc := moderation.New(moderation.NewPGStore(database), moderation.Config{
		EditPolicy:            policy,
		MaxPendingAlterations: cfg.MaxPendingAlterations,
		Notifier:              notifiers,
		Blobs:                 blobs,
		Logger:                slog.Default(),
	})

	done := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.SubmitRateLimit)
	go limiter.Run(done)

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Auth:    middleware.NewAuthMiddleware(provider, database),
		Login:   provider,
		Service: svc,
		Store:   database,
		Health:  database,
		Blobs:   blobs,
		YAML:    yamlCfg,
		Limiter: limiter,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			fatal("server error", err)
		}
	}()
	slog.Info("server started", "addr", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	close(done)
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}
	slog.Info("server exited")
}

// catalogSeeds maps each catalog type category to its configured defaults.
func catalogSeeds(yamlCfg *config.YAMLConfig) map[string][]string {
	return map[string][]string{
		models.CatalogTrail:    yamlCfg.Catalogs.TrailTypes,
		models.CatalogFeature:  yamlCfg.Catalogs.Features,
		models.CatalogAmenity:  yamlCfg.Catalogs.Amenities,
		models.CatalogFacility: yamlCfg.Catalogs.Facilities,
	}
}

// roleMappings collects, per known role, the claim values granting it.
func roleMappings(yamlCfg *config.YAMLConfig) map[string][]string {
	mappings := map[string][]string{}
	for _, role := range []string{models.RoleUser, models.RoleModerator, models.RoleAdmin} {
		if values := yamlCfg.ClaimValuesForRole(role); len(values) > 0 {
			mappings[role] = values
		}
	}
	return mappings
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fatal(msg string, err error) {
	if err != nil {
		slog.Error(msg, "error", err)
	} else {
		slog.Error(msg)
	}
	os.Exit(1)
}
