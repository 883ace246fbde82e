package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"trailhead/internal/models"
)

type fakeSource struct {
	pending  map[string]int64
	stats    *models.AdminStats
	statsErr error
}

func (f *fakeSource) CountQueueByStatus(ctx context.Context, status string) (map[string]int64, error) {
	return f.pending, nil
}

func (f *fakeSource) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	return f.stats, f.statsErr
}

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg, nil)
	ctx := context.Background()

	hike := &models.Hike{ID: uuid.New()}
	r.EntitySubmitted(ctx, hike)
	r.EntitySubmitted(ctx, hike)
	r.EntityDecided(ctx, hike, &models.ModerationEntry{EntityType: models.KindHike, Status: models.StatusApproved})

	siteID := uuid.New()
	alt := &models.Alteration{CampingSiteID: &siteID, Status: models.StatusRejected}
	r.AlterationProposed(ctx, alt)
	r.AlterationDecided(ctx, alt, false)

	if got := testutil.ToFloat64(r.submissions.WithLabelValues(models.KindHike)); got != 2 {
		t.Errorf("submissions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.decisions.WithLabelValues(models.KindHike, models.StatusApproved)); got != 1 {
		t.Errorf("decisions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.proposals.WithLabelValues(models.KindCampingSite)); got != 1 {
		t.Errorf("proposals = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.altDecided.WithLabelValues(models.StatusRejected, "false")); got != 1 {
		t.Errorf("alteration decisions = %v, want 1", got)
	}
}

func TestQueueCollector(t *testing.T) {
	source := &fakeSource{
		pending: map[string]int64{models.KindHike: 3, models.KindCampingSite: 1},
		stats:   &models.AdminStats{Hikes: 10, CampingSites: 4, PendingAlterations: 2},
	}
	c := &QueueCollector{source: source, timeout: time.Second}

	expected := `
# HELP trailhead_alterations_pending Alterations awaiting a decision
# TYPE trailhead_alterations_pending gauge
trailhead_alterations_pending 2
# HELP trailhead_moderation_queue_pending Entities awaiting a moderation decision
# TYPE trailhead_moderation_queue_pending gauge
trailhead_moderation_queue_pending{entity_type="camping_site"} 1
trailhead_moderation_queue_pending{entity_type="hike"} 3
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"trailhead_alterations_pending", "trailhead_moderation_queue_pending")
	if err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(c, "trailhead_entities"); n != 2 {
		t.Errorf("trailhead_entities series = %d, want 2", n)
	}
}

func TestQueueCollector_StatsError(t *testing.T) {
	source := &fakeSource{
		pending:  map[string]int64{models.KindHike: 1},
		statsErr: errors.New("connection refused"),
	}
	c := &QueueCollector{source: source, timeout: time.Second}

	if n := testutil.CollectAndCount(c); n != 1 {
		t.Errorf("collected %d series, want only the queue gauge", n)
	}
}
