package sim

import (
	"time"

	"github.com/santiagobarrazas/CheeseShop/internal/game"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandMove        CommandType = "Move"
	CommandServe       CommandType = "Serve"
	CommandCutStroke   CommandType = "CutStroke"
	CommandCutComplete CommandType = "CutComplete"
	CommandCancelCut   CommandType = "CancelCut"
	CommandAckWarning  CommandType = "AckWarning"
	CommandRestart     CommandType = "Restart"
	CommandBuy         CommandType = "Buy"
	CommandSaveScore   CommandType = "SaveScore"
)

// MoveCommand carries the sampled movement vector.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// StrokeCommand carries pointer samples from the cutting surface.
type StrokeCommand struct {
	Points []game.Point `json:"points"`
}

// BuyCommand restocks provisions.
type BuyCommand struct {
	Grams int `json:"grams"`
}

// SaveScoreCommand records a name for a qualifying run.
type SaveScoreCommand struct {
	Name string `json:"name"`
}

// Command represents an intent captured for processing on the next tick.
// Staging everything through commands keeps UI-driven transitions atomic
// relative to the simulation step. Heartbeats are deliberately absent: they
// are answered at the connection layer, never staged.
type Command struct {
	OriginTick uint64            `json:"originTick"`
	ActorID    string            `json:"actorId"`
	Type       CommandType       `json:"type"`
	IssuedAt   time.Time         `json:"issuedAt"`
	Move       *MoveCommand      `json:"move,omitempty"`
	Stroke     *StrokeCommand    `json:"stroke,omitempty"`
	Buy        *BuyCommand       `json:"buy,omitempty"`
	Score      *SaveScoreCommand `json:"score,omitempty"`
}
