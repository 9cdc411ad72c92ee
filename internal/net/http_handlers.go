// Package net exposes the hub over HTTP: a join handshake, a websocket
// stream for live state, and a pair of read-only diagnostics endpoints.
package net

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	server "github.com/santiagobarrazas/CheeseShop"
	"github.com/santiagobarrazas/CheeseShop/internal/game"
	"github.com/santiagobarrazas/CheeseShop/internal/scores"
	"github.com/santiagobarrazas/CheeseShop/internal/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// clientMessage is the envelope every websocket client sends.
type clientMessage struct {
	Type   string              `json:"type"`
	DX     float64             `json:"dx"`
	DY     float64             `json:"dy"`
	Points []game.Point        `json:"points,omitempty"`
	Grams  int                 `json:"grams,omitempty"`
	Name   string              `json:"name,omitempty"`
	SentAt int64               `json:"sentAt,omitempty"`
	Prefs  *scores.Preferences `json:"prefs,omitempty"`
}

type heartbeatAck struct {
	Type       string `json:"type"`
	SentAt     int64  `json:"sentAt"`
	ServerTime int64  `json:"serverTime"`
	RTTMillis  int64  `json:"rttMillis"`
}

type rejectMessage struct {
	Type   string `json:"type"`
	Cmd    string `json:"cmd"`
	Reason string `json:"reason"`
}

// Config tunes the HTTP surface.
type Config struct {
	ClientDir string
	Logger    *log.Logger
}

// NewHandler builds the route table around a hub.
func NewHandler(hub *server.Hub, cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	h := &handler{hub: hub, logger: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/diagnostics", h.handleDiagnostics)
	mux.HandleFunc("/join", h.handleJoin)
	mux.HandleFunc("/ws", h.handleWebsocket)
	if cfg.ClientDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.ClientDir)))
	}
	return mux
}

type handler struct {
	hub    *server.Hub
	logger *log.Logger
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *handler) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	payload := struct {
		TickRate         int   `json:"tickRate"`
		HeartbeatMillis  int64 `json:"heartbeatMillis"`
		Subscribers      any   `json:"subscribers"`
		Telemetry        any   `json:"telemetry"`
		ServerTimeMillis int64 `json:"serverTime"`
	}{
		TickRate:         server.TickRate(),
		HeartbeatMillis:  server.HeartbeatInterval().Milliseconds(),
		Subscribers:      h.hub.DiagnosticsSnapshot(),
		Telemetry:        h.hub.TelemetrySnapshot(),
		ServerTimeMillis: time.Now().UnixMilli(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Printf("failed to encode diagnostics: %v", err)
	}
}

func (h *handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := h.hub.Join()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Printf("failed to encode join response: %v", err)
	}
}

func (h *handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("id")
	if clientID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed for %s: %v", clientID, err)
		return
	}
	h.hub.Subscribe(clientID, conn)
	go h.readLoop(clientID, conn)
}

// readLoop parses client messages until the connection drops. State-changing
// messages are staged through the hub's command queue; heartbeats and
// preference updates are handled inline.
func (h *handler) readLoop(clientID string, conn *websocket.Conn) {
	defer h.hub.Disconnect(clientID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("read error for %s: %v", clientID, err)
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Printf("malformed message from %s: %v", clientID, err)
			continue
		}
		h.dispatch(clientID, msg)
	}
}

func (h *handler) dispatch(clientID string, msg clientMessage) {
	cmd := sim.Command{
		ActorID:  clientID,
		IssuedAt: time.Now(),
	}

	switch msg.Type {
	case "input":
		cmd.Type = sim.CommandMove
		cmd.Move = &sim.MoveCommand{DX: msg.DX, DY: msg.DY}
	case "serve":
		cmd.Type = sim.CommandServe
	case "cut":
		cmd.Type = sim.CommandCutStroke
		cmd.Stroke = &sim.StrokeCommand{Points: msg.Points}
	case "confirm", "cut_complete":
		cmd.Type = sim.CommandCutComplete
	case "cancel":
		cmd.Type = sim.CommandCancelCut
	case "ack_warning":
		cmd.Type = sim.CommandAckWarning
	case "restart":
		cmd.Type = sim.CommandRestart
	case "buy":
		cmd.Type = sim.CommandBuy
		cmd.Buy = &sim.BuyCommand{Grams: msg.Grams}
	case "save_score":
		cmd.Type = sim.CommandSaveScore
		cmd.Score = &sim.SaveScoreCommand{Name: msg.Name}
	case "heartbeat":
		h.handleHeartbeat(clientID, msg)
		return
	case "prefs":
		if msg.Prefs != nil {
			h.hub.SetPreferences(*msg.Prefs)
		}
		return
	default:
		h.logger.Printf("unknown message type %q from %s", msg.Type, clientID)
		return
	}

	if ok, reason := h.hub.Enqueue(cmd); !ok {
		h.writeJSON(clientID, rejectMessage{Type: "reject", Cmd: msg.Type, Reason: reason})
	}
}

func (h *handler) handleHeartbeat(clientID string, msg clientMessage) {
	now := time.Now()
	rtt, ok := h.hub.UpdateHeartbeat(clientID, now, msg.SentAt)
	if !ok {
		return
	}
	h.writeJSON(clientID, heartbeatAck{
		Type:       "heartbeat_ack",
		SentAt:     msg.SentAt,
		ServerTime: now.UnixMilli(),
		RTTMillis:  rtt.Milliseconds(),
	})
}

// writeJSON routes replies through the hub so the broadcast goroutine and
// the read loop never write the same connection concurrently.
func (h *handler) writeJSON(clientID string, payload any) {
	if err := h.hub.SendToClient(clientID, payload); err != nil {
		h.logger.Printf("failed to reply to %s: %v", clientID, err)
	}
}
