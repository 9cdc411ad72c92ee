package simulation

import (
	"context"

	"github.com/santiagobarrazas/CheeseShop/logging"
)

const (
	// EventCustomerSpawned is emitted when a customer joins the queue.
	EventCustomerSpawned logging.EventType = "simulation.customer_spawned"
	// EventCustomerExpired is emitted when a customer runs out of patience.
	EventCustomerExpired logging.EventType = "simulation.customer_expired"
	// EventSpawnSkipped is emitted when the queue cap blocks an arrival.
	EventSpawnSkipped logging.EventType = "simulation.spawn_skipped"
	// EventCutOrphaned is emitted when the cutting target leaves mid-cut.
	EventCutOrphaned logging.EventType = "simulation.cut_orphaned"
)

// CustomerSpawnedPayload describes an arrival.
type CustomerSpawnedPayload struct {
	CheeseType string  `json:"cheeseType"`
	Weight     float64 `json:"weight"`
	QueueLen   int     `json:"queueLen"`
}

// CustomerExpiredPayload describes a patience expiry.
type CustomerExpiredPayload struct {
	WaitedSeconds     float64 `json:"waitedSeconds"`
	ReputationPenalty float64 `json:"reputationPenalty"`
}

// SpawnSkippedPayload describes a blocked arrival.
type SpawnSkippedPayload struct {
	QueueLen int `json:"queueLen"`
}

// CustomerSpawned publishes an arrival event.
func CustomerSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CustomerSpawnedPayload) {
	publish(ctx, pub, EventCustomerSpawned, tick, actor, logging.SeverityInfo, payload)
}

// CustomerExpired publishes an expiry event.
func CustomerExpired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload CustomerExpiredPayload) {
	publish(ctx, pub, EventCustomerExpired, tick, actor, logging.SeverityInfo, payload)
}

// SpawnSkipped publishes a queue-full event.
func SpawnSkipped(ctx context.Context, pub logging.Publisher, tick uint64, payload SpawnSkippedPayload) {
	publish(ctx, pub, EventSpawnSkipped, tick, logging.EntityRef{Kind: logging.EntityKindSession}, logging.SeverityDebug, payload)
}

// CutOrphaned publishes a forced reconciliation event.
func CutOrphaned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	publish(ctx, pub, EventCutOrphaned, tick, actor, logging.SeverityWarn, nil)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
