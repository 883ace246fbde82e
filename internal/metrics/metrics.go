// Package metrics exports moderation workload and decision metrics to Prometheus.
package metrics

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"trailhead/internal/models"
	"trailhead/internal/moderation"
)

var (
	queuePendingDesc = prometheus.NewDesc(
		"trailhead_moderation_queue_pending",
		"Entities awaiting a moderation decision",
		[]string{"entity_type"},
		nil,
	)
	alterationsPendingDesc = prometheus.NewDesc(
		"trailhead_alterations_pending",
		"Alterations awaiting a decision",
		nil,
		nil,
	)
	entitiesDesc = prometheus.NewDesc(
		"trailhead_entities",
		"Stored entities by type",
		[]string{"entity_type"},
		nil,
	)
)

// Source reads the workload figures exported on each scrape.
type Source interface {
	CountQueueByStatus(ctx context.Context, status string) (map[string]int64, error)
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}

// QueueCollector is a custom Prometheus collector that reads the moderation
// workload from the database on each scrape.
type QueueCollector struct {
	source  Source
	timeout time.Duration
}

// Describe sends the metric descriptors to the channel.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queuePendingDesc
	ch <- alterationsPendingDesc
	ch <- entitiesDesc
}

// Collect queries the database and emits the workload gauges.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	pending, err := c.source.CountQueueByStatus(ctx, models.StatusPending)
	if err != nil {
		slog.Error("failed to collect moderation queue metrics", "error", err)
	} else {
		for kind, n := range pending {
			ch <- prometheus.MustNewConstMetric(queuePendingDesc, prometheus.GaugeValue, float64(n), kind)
		}
	}

	stats, err := c.source.GetAdminStats(ctx)
	if err != nil {
		slog.Error("failed to collect entity metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(alterationsPendingDesc, prometheus.GaugeValue, float64(stats.PendingAlterations))
	ch <- prometheus.MustNewConstMetric(entitiesDesc, prometheus.GaugeValue, float64(stats.Hikes), models.KindHike)
	ch <- prometheus.MustNewConstMetric(entitiesDesc, prometheus.GaugeValue, float64(stats.CampingSites), models.KindCampingSite)
}

// Recorder counts workflow events. It is a moderation.Notifier.
type Recorder struct {
	submissions *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	proposals   *prometheus.CounterVec
	altDecided  *prometheus.CounterVec
}

// NewRecorder registers the counters and the queue collector with reg.
func NewRecorder(reg prometheus.Registerer, source Source) *Recorder {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailhead_submissions_total",
			Help: "Submitted entities by type",
		}, []string{"entity_type"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailhead_moderation_decisions_total",
			Help: "Moderation decisions by entity type and outcome",
		}, []string{"entity_type", "status"}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailhead_alterations_proposed_total",
			Help: "Proposed alterations by entity type",
		}, []string{"entity_type"}),
		altDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailhead_alterations_decided_total",
			Help: "Alteration decisions by outcome and whether the change was applied",
		}, []string{"status", "applied"}),
	}
	reg.MustRegister(r.submissions, r.decisions, r.proposals, r.altDecided)
	if source != nil {
		reg.MustRegister(&QueueCollector{source: source, timeout: 5 * time.Second})
	}
	return r
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the metrics with the default registry and returns the
// recorder. Must be called once at startup; later calls return the same recorder.
func Init(source Source) *Recorder {
	recorderOnce.Do(func() {
		recorder = NewRecorder(prometheus.DefaultRegisterer, source)
	})
	return recorder
}

func (r *Recorder) EntitySubmitted(ctx context.Context, e models.Entity) {
	r.submissions.WithLabelValues(e.Kind()).Inc()
}

func (r *Recorder) EntityDecided(ctx context.Context, e models.Entity, entry *models.ModerationEntry) {
	r.decisions.WithLabelValues(entry.EntityType, entry.Status).Inc()
}

func (r *Recorder) AlterationProposed(ctx context.Context, a *models.Alteration) {
	kind, _ := a.Target()
	r.proposals.WithLabelValues(kind).Inc()
}

func (r *Recorder) AlterationDecided(ctx context.Context, a *models.Alteration, applied bool) {
	r.altDecided.WithLabelValues(a.Status, strconv.FormatBool(applied)).Inc()
}

var _ moderation.Notifier = (*Recorder)(nil)
