// Package server wires the shop simulation to its render subscribers. The
// hub owns the session, stages every client intent through the tick loop,
// and broadcasts read-only snapshots after each step.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/santiagobarrazas/CheeseShop/internal/game"
	"github.com/santiagobarrazas/CheeseShop/internal/scores"
	"github.com/santiagobarrazas/CheeseShop/internal/sim"
	"github.com/santiagobarrazas/CheeseShop/internal/telemetry"
	"github.com/santiagobarrazas/CheeseShop/logging"
	"github.com/santiagobarrazas/CheeseShop/logging/lifecycle"
)

// HubConfig collects the hub's tunables.
type HubConfig struct {
	Game   game.Config
	Loop   sim.LoopConfig
	Logger *log.Logger
	Clock  logging.Clock
}

// DefaultHubConfig returns the production tuning.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Game: game.DefaultConfig(),
		Loop: sim.LoopConfig{
			TickRate:        tickRate,
			CatchupMaxTicks: 4,
			CommandCapacity: 256,
			PerActorLimit:   32,
		},
	}
}

type subscriber struct {
	conn          *websocket.Conn
	mu            sync.Mutex
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

// Hub owns the live session, its subscribers, and the tick loop.
type Hub struct {
	mu          sync.Mutex
	session     *game.Session
	store       *scores.Store
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	pendingCues []game.Cue

	loop      *sim.Loop
	logger    *log.Logger
	pub       logging.Publisher
	telemetry *telemetry.Counters
}

// NewHub constructs the hub and its loop. RunSimulation must be started by
// the caller.
func NewHub(cfg HubConfig, store *scores.Store, pub logging.Publisher) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	counters := telemetry.NewCounters()
	hub := &Hub{
		session:     game.NewSession(cfg.Game, pub),
		store:       store,
		subscribers: make(map[string]*subscriber),
		logger:      cfg.Logger,
		pub:         pub,
		telemetry:   counters,
	}
	hub.loop = sim.NewLoop(hub, cfg.Loop, cfg.Clock, cfg.Logger, counters, sim.Hooks{
		AfterStep: hub.afterStep,
		OnCommandDrop: func(string, sim.Command) {
			counters.IncrementDropped()
		},
	})
	return hub
}

// RunSimulation drives the fixed-rate tick loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	h.loop.Run(stop)
}

// Enqueue stages a client command for the next tick.
func (h *Hub) Enqueue(cmd sim.Command) (bool, string) {
	return h.loop.Enqueue(cmd)
}

// Join registers a render client and returns the current state.
func (h *Hub) Join() joinResponse {
	id := fmt.Sprintf("client-%d", h.nextID.Add(1))
	h.mu.Lock()
	snapshot := h.session.Snapshot()
	cfg := h.session.Config()
	h.mu.Unlock()
	return joinResponse{
		Ver:         ProtocolVersion,
		ID:          id,
		Snapshot:    snapshot,
		HighScores:  h.store.List(),
		Preferences: h.store.Preferences(),
		Config:      cfg,
	}
}

// Subscribe associates a websocket connection with a joined client. A
// second subscription for the same client replaces the first.
func (h *Hub) Subscribe(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.subscribers[clientID]; ok {
		existing.conn.Close()
	}
	h.subscribers[clientID] = &subscriber{conn: conn, lastHeartbeat: time.Now()}
}

// SendToClient writes a JSON payload to one subscriber. All writes funnel
// through the subscriber's write lock, matching the broadcast path.
func (h *Hub) SendToClient(clientID string, payload any) error {
	h.mu.Lock()
	sub, ok := h.subscribers[clientID]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown subscriber %q", clientID)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

// Disconnect drops a subscriber and closes its connection.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	sub, ok := h.subscribers[clientID]
	if ok {
		delete(h.subscribers, clientID)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

// UpdateHeartbeat records a heartbeat and returns the last measured RTT.
func (h *Hub) UpdateHeartbeat(clientID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub, ok := h.subscribers[clientID]
	if !ok {
		return 0, false
	}
	sub.lastHeartbeat = receivedAt
	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			sub.lastRTT = rtt
		}
	}
	return sub.lastRTT, true
}

// SetPreferences persists sound settings. Preferences are presentation
// state: they bypass the command queue.
func (h *Hub) SetPreferences(prefs scores.Preferences) {
	if err := h.store.SetPreferences(prefs); err != nil {
		h.logger.Printf("failed to persist preferences: %v", err)
	}
}

// Apply dispatches staged commands into the session. It runs on the loop
// goroutine, so every command lands at a tick boundary.
func (h *Hub) Apply(commands []sim.Command) {
	if len(commands) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cmd := range commands {
		h.applyLocked(cmd)
	}
	h.telemetry.RecordCommands(len(commands))
}

func (h *Hub) applyLocked(cmd sim.Command) {
	switch cmd.Type {
	case sim.CommandMove:
		if cmd.Move != nil {
			h.session.SetIntent(cmd.Move.DX, cmd.Move.DY)
		}
	case sim.CommandServe:
		if err := h.session.Serve(); err != nil {
			h.logger.Printf("serve rejected for %s: %v", cmd.ActorID, err)
		}
	case sim.CommandCutStroke:
		if cmd.Stroke != nil {
			if err := h.session.ExtendGesture(cmd.Stroke.Points); err != nil {
				h.logger.Printf("stroke rejected for %s: %v", cmd.ActorID, err)
			}
		}
	case sim.CommandCutComplete:
		if _, err := h.session.CompleteCut(); err != nil {
			h.logger.Printf("cut completion rejected for %s: %v", cmd.ActorID, err)
		}
	case sim.CommandCancelCut:
		h.session.CancelCut()
	case sim.CommandAckWarning:
		lowest, full := h.store.Lowest()
		if err := h.session.AcknowledgeWarning(lowest, full); err != nil {
			h.logger.Printf("acknowledge rejected for %s: %v", cmd.ActorID, err)
		}
	case sim.CommandRestart:
		if err := h.session.Start(); err != nil {
			h.logger.Printf("restart rejected for %s: %v", cmd.ActorID, err)
		}
	case sim.CommandBuy:
		if cmd.Buy != nil {
			if err := h.session.BuyProvisions(cmd.Buy.Grams); err != nil {
				h.logger.Printf("purchase rejected for %s: %v", cmd.ActorID, err)
			}
		}
	case sim.CommandSaveScore:
		if cmd.Score != nil {
			h.saveScoreLocked(cmd.Score.Name)
		}
	default:
		h.logger.Printf("unknown command type %q from %s", cmd.Type, cmd.ActorID)
	}
}

func (h *Hub) saveScoreLocked(name string) {
	if h.session.State() != game.StateGameOver {
		h.logger.Printf("score save rejected: session not over")
		return
	}
	score := h.session.TotalEarnings()
	if !h.store.Qualifies(score) {
		h.logger.Printf("score save rejected: %d does not qualify", score)
		return
	}
	if _, err := h.store.Record(name, score); err != nil {
		h.logger.Printf("failed to record score: %v", err)
		return
	}
	h.session.MarkScoreSaved()
	lifecycle.ScoreSaved(context.Background(), h.pub, 0, lifecycle.ScoreSavedPayload{
		Name:  name,
		Score: score,
	})
}

// Step advances the session by one tick and sweeps stale subscribers.
func (h *Hub) Step(ctx sim.TickContext) {
	h.mu.Lock()
	h.session.Advance(ctx.Delta)
	h.pendingCues = append(h.pendingCues, h.session.DrainCues()...)

	var toClose []*subscriber
	for id, sub := range h.subscribers {
		if ctx.Now.Sub(sub.lastHeartbeat) > disconnectAfter {
			toClose = append(toClose, sub)
			delete(h.subscribers, id)
			h.logger.Printf("disconnecting %s due to heartbeat timeout", id)
		}
	}
	h.mu.Unlock()

	for _, sub := range toClose {
		sub.conn.Close()
	}
}

// Snapshot returns the session's current read-only view.
func (h *Hub) Snapshot() game.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Snapshot()
}

func (h *Hub) afterStep(result sim.StepResult) {
	h.telemetry.RecordTick(result.Duration)
	h.broadcastState(result)
}

// broadcastState sends the latest snapshot to every subscriber.
func (h *Hub) broadcastState(result sim.StepResult) {
	h.mu.Lock()
	cues := h.pendingCues
	h.pendingCues = nil
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Snapshot:   result.Snapshot,
		Cues:       cues,
		HighScores: h.store.List(),
		Tick:       result.Tick,
		ServerTime: result.Now.UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}
	h.telemetry.RecordBroadcast(len(data)*len(subs), len(result.Snapshot.Customers))

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		writeErr := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if writeErr != nil {
			h.logger.Printf("failed to send update to %s: %v", id, writeErr)
			h.Disconnect(id)
		}
	}
}

// DiagnosticsSnapshot exposes heartbeat data for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsSubscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := make([]diagnosticsSubscriber, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs = append(subs, diagnosticsSubscriber{
			Ver:           ProtocolVersion,
			ID:            id,
			LastHeartbeat: sub.lastHeartbeat.UnixMilli(),
			RTTMillis:     sub.lastRTT.Milliseconds(),
		})
	}
	return subs
}

// TelemetrySnapshot exposes loop counters for the diagnostics endpoint.
func (h *Hub) TelemetrySnapshot() telemetry.Snapshot {
	return h.telemetry.Snapshot()
}

// Ensure the hub satisfies the loop's engine surface.
var _ sim.Engine = (*Hub)(nil)
