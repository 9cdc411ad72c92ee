package lifecycle

import (
	"context"

	"github.com/santiagobarrazas/CheeseShop/logging"
)

const (
	// EventSessionStarted is emitted when a play session begins.
	EventSessionStarted logging.EventType = "lifecycle.session_started"
	// EventGameOver is emitted on the transition into the warning screen.
	EventGameOver logging.EventType = "lifecycle.game_over"
	// EventScoreSaved is emitted after a high score is persisted.
	EventScoreSaved logging.EventType = "lifecycle.score_saved"
	// EventStoreDegraded is emitted when the persisted store cannot be read.
	EventStoreDegraded logging.EventType = "lifecycle.store_degraded"
)

// SessionStartedPayload captures the starting economy.
type SessionStartedPayload struct {
	Money      int     `json:"money"`
	Reputation float64 `json:"reputation"`
	Provisions float64 `json:"provisions"`
}

// GameOverPayload captures the terminal condition.
type GameOverPayload struct {
	Reason        string `json:"reason"`
	TotalEarnings int    `json:"totalEarnings"`
}

// ScoreSavedPayload captures the persisted entry.
type ScoreSavedPayload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// StoreDegradedPayload explains why persistence fell back to defaults.
type StoreDegradedPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// SessionStarted publishes a session start event.
func SessionStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload SessionStartedPayload) {
	publish(ctx, pub, EventSessionStarted, tick, logging.SeverityInfo, payload)
}

// GameOver publishes a terminal-condition event.
func GameOver(ctx context.Context, pub logging.Publisher, tick uint64, payload GameOverPayload) {
	publish(ctx, pub, EventGameOver, tick, logging.SeverityInfo, payload)
}

// ScoreSaved publishes a score persistence event.
func ScoreSaved(ctx context.Context, pub logging.Publisher, tick uint64, payload ScoreSavedPayload) {
	publish(ctx, pub, EventScoreSaved, tick, logging.SeverityInfo, payload)
}

// StoreDegraded publishes a persistence degradation event.
func StoreDegraded(ctx context.Context, pub logging.Publisher, payload StoreDegradedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStoreDegraded,
		Actor:    logging.EntityRef{Kind: logging.EntityKindStore},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, severity logging.Severity, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindSession},
		Severity: severity,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
