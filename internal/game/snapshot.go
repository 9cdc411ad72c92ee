package game

// Snapshot is the read-only view handed to the presentation layer. It is a
// copy: holding one across ticks never observes later mutation.
type Snapshot struct {
	State          State      `json:"state"`
	Tick           uint64     `json:"tick"`
	ElapsedSeconds float64    `json:"elapsedSeconds"`
	Money          int        `json:"money"`
	TotalEarnings  int        `json:"totalEarnings"`
	Reputation     float64    `json:"reputation"`
	Provisions     float64    `json:"provisions"`
	LowStock       bool       `json:"lowStock"`
	Player         PlayerView `json:"player"`
	Customers      []Customer `json:"customers"`
	ActiveCut      *CutView   `json:"activeCut,omitempty"`
	UnlockedShapes []Shape    `json:"unlockedShapes"`
	GameOverReason string     `json:"gameOverReason,omitempty"`
	NewHighScore   bool       `json:"newHighScore,omitempty"`
}

// PlayerView is the player's render state.
type PlayerView struct {
	Position Point `json:"position"`
	CanServe bool  `json:"canServe"`
}

// CutView describes the active minigame, including the guide path to trace
// and the gesture drawn so far.
type CutView struct {
	CustomerID       uint64     `json:"customerId"`
	Cheese           CheeseType `json:"cheese"`
	DesiredWeight    float64    `json:"desiredWeight"`
	BasePricePer100g int        `json:"basePricePer100g"`
	Shape            Shape      `json:"shape"`
	Difficulty       int        `json:"difficulty"`
	GuidePath        []Point    `json:"guidePath"`
	Gesture          []Point    `json:"gesture,omitempty"`
}

// Snapshot assembles the current read-only view.
func (s *Session) Snapshot() Snapshot {
	snapshot := Snapshot{
		State:          s.state,
		Tick:           s.tick,
		ElapsedSeconds: s.elapsed.Seconds(),
		Money:          s.money,
		TotalEarnings:  s.totalEarnings,
		Reputation:     s.reputation,
		Provisions:     s.provisions,
		LowStock:       s.provisions <= s.cfg.LowStockThreshold,
		Player: PlayerView{
			Position: s.playerPos,
			CanServe: s.CanServe(),
		},
		Customers:      s.queue.Snapshot(),
		GameOverReason: s.gameOverReason,
		NewHighScore:   s.newHighScore,
	}

	for _, spec := range s.cfg.UnlockedShapes(s.elapsed) {
		snapshot.UnlockedShapes = append(snapshot.UnlockedShapes, spec.Shape)
	}

	if s.active != nil {
		guide := make([]Point, len(s.active.GuidePath))
		copy(guide, s.active.GuidePath)
		gesture := make([]Point, len(s.active.gesture))
		copy(gesture, s.active.gesture)
		snapshot.ActiveCut = &CutView{
			CustomerID:       s.active.CustomerID,
			Cheese:           s.active.Cheese,
			DesiredWeight:    s.active.DesiredWeight,
			BasePricePer100g: s.active.BasePricePer100g,
			Shape:            s.active.Shape,
			Difficulty:       s.active.Difficulty,
			GuidePath:        guide,
			Gesture:          gesture,
		}
	}

	return snapshot
}
