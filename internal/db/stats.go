package db

import (
	"context"

	"trailhead/internal/models"
)

// GetPublicStats counts approved hikes, approved camping sites and users.
func (d *DB) GetPublicStats(ctx context.Context) (*models.PublicStats, error) {
	var s models.PublicStats
	err := d.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM hikes WHERE status = 'approved'),
			(SELECT COUNT(*) FROM camping_sites WHERE status = 'approved'),
			(SELECT COUNT(*) FROM users)
	`).Scan(&s.Trails, &s.Campsites, &s.Scouts)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAdminStats summarizes totals and the moderation backlog.
func (d *DB) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	var s models.AdminStats
	err := d.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM hikes),
			(SELECT COUNT(*) FROM camping_sites),
			(SELECT COUNT(*) FROM hikes WHERE status = 'pending'),
			(SELECT COUNT(*) FROM camping_sites WHERE status = 'pending'),
			(SELECT COUNT(*) FROM hikes WHERE featured),
			(SELECT COUNT(*) FROM camping_sites WHERE featured),
			(SELECT COUNT(*) FROM alterations WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users)
	`).Scan(
		&s.Hikes, &s.CampingSites,
		&s.PendingHikes, &s.PendingCampingSites,
		&s.FeaturedHikes, &s.FeaturedCampingSites,
		&s.PendingAlterations, &s.Users,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
