package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/observability"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/risk"
)

// PointStore is the persistence contract the coordinator depends on.
// Both the durable Postgres backend and the in-memory fixture store
// satisfy it.
type PointStore interface {
	// ReadAll returns every stored point; the store defines the order.
	ReadAll(ctx context.Context) ([]domain.EnvironmentalPoint, error)

	// Write upserts the point by ID and returns the stored point.
	Write(ctx context.Context, p domain.EnvironmentalPoint) (domain.EnvironmentalPoint, error)
}

// Broadcaster is a push sink for ingested events. Implementations must not
// return errors to the coordinator: delivery is best-effort and failures
// are the sink's own business (the WebSocket hub prunes dead subscribers,
// the Kafka sink logs and drops).
type Broadcaster interface {
	Broadcast(ctx context.Context, ev domain.BroadcastEvent)
}

// Filter carries the pull-path query parameters. They are accepted for API
// compatibility but do not currently influence scoring.
type Filter struct {
	AgeGroup string
	Severity string
}

// Coordinator orchestrates the ingest path (persist, score, broadcast) and
// the pull path (read all, score each).
type Coordinator struct {
	store   PointStore
	sinks   []Broadcaster
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Coordinator. Events for every successfully ingested point
// are handed to each sink in order.
func New(store PointStore, logger *slog.Logger, metrics *observability.Metrics, sinks ...Broadcaster) *Coordinator {
	return &Coordinator{
		store:   store,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
	}
}

// Ingest persists p, scores it, and broadcasts a new_point event.
//
// Persistence failure is the only visible failure: it propagates to the
// caller and no broadcast fires. A successful ingest always returns the
// stored point, whether or not any subscriber received the event.
// An empty ID is replaced with a generated one before the write.
func (c *Coordinator) Ingest(ctx context.Context, p domain.EnvironmentalPoint) (domain.EnvironmentalPoint, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	stored, err := c.store.Write(ctx, p)
	if err != nil {
		c.metrics.IngestFailures.Inc()
		return domain.EnvironmentalPoint{}, fmt.Errorf("ingest point %q: %w", p.ID, err)
	}
	c.metrics.PointsIngested.Inc()

	zone := risk.Zone(stored)
	ev := domain.BroadcastEvent{Type: domain.EventNewPoint, Payload: zone}
	for _, sink := range c.sinks {
		sink.Broadcast(ctx, ev)
	}
	c.metrics.BroadcastEvents.Inc()

	c.logger.Info("point ingested",
		"id", stored.ID,
		"name", stored.Name,
		"risk_level", zone.RiskLevel,
		"risk_score", zone.RiskScore,
	)
	return stored, nil
}

// ListPoints returns all stored points, unannotated, in store order.
func (c *Coordinator) ListPoints(ctx context.Context) ([]domain.EnvironmentalPoint, error) {
	points, err := c.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	return points, nil
}

// ListRiskZones reads all points and scores each one, preserving store
// order. The filter is a pass-through: it does not alter scoring.
func (c *Coordinator) ListRiskZones(ctx context.Context, _ Filter) ([]domain.RiskZone, error) {
	points, err := c.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list risk zones: %w", err)
	}
	zones := make([]domain.RiskZone, 0, len(points))
	for _, p := range points {
		zones = append(zones, risk.Zone(p))
	}
	return zones, nil
}

// CheckReadiness reports whether the backing store answers reads.
func (c *Coordinator) CheckReadiness(ctx context.Context) error {
	if _, err := c.store.ReadAll(ctx); err != nil {
		return err
	}
	return nil
}
