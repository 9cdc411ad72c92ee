package server

import (
	"github.com/santiagobarrazas/CheeseShop/internal/game"
	"github.com/santiagobarrazas/CheeseShop/internal/scores"
)

type joinResponse struct {
	Ver         int                `json:"ver"`
	ID          string             `json:"id"`
	Snapshot    game.Snapshot      `json:"snapshot"`
	HighScores  []scores.Entry     `json:"highScores"`
	Preferences scores.Preferences `json:"preferences"`
	Config      game.Config        `json:"config"`
}

type stateMessage struct {
	Ver        int            `json:"ver"`
	Type       string         `json:"type"`
	Snapshot   game.Snapshot  `json:"snapshot"`
	Cues       []game.Cue     `json:"cues,omitempty"`
	HighScores []scores.Entry `json:"highScores,omitempty"`
	Tick       uint64         `json:"t"`
	ServerTime int64          `json:"serverTime"`
}

type diagnosticsSubscriber struct {
	Ver           int    `json:"ver"`
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
