package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/santiagobarrazas/CheeseShop/logging"
	"github.com/santiagobarrazas/CheeseShop/logging/economy"
	"github.com/santiagobarrazas/CheeseShop/logging/lifecycle"
	"github.com/santiagobarrazas/CheeseShop/logging/simulation"
)

// State enumerates the session phases.
type State string

const (
	StateStart           State = "START"
	StatePlaying         State = "PLAYING"
	StateCutting         State = "CUTTING"
	StateGameOverWarning State = "GAME_OVER_WARNING"
	StateGameOver        State = "GAME_OVER"
)

// Game-over reasons surfaced to the presentation layer.
const (
	ReasonNoReputation = "no reputation"
	ReasonNoStock      = "no stock"
	ReasonOrderFailed  = "order failed"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrCannotServe       = errors.New("cannot serve")
	ErrNoActiveCut       = errors.New("no active cut")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// ActiveCut is the minigame state. Exactly one exists while the session is in
// StateCutting; it never outlives a single attempt.
type ActiveCut struct {
	CustomerID       uint64     `json:"customerId"`
	Cheese           CheeseType `json:"cheese"`
	DesiredWeight    float64    `json:"desiredWeight"`
	BasePricePer100g int        `json:"basePricePer100g"`
	Shape            Shape      `json:"shape"`
	Difficulty       int        `json:"difficulty"`
	GuidePath        []Point    `json:"guidePath"`

	gesture []Point
}

// Session owns the whole game state and is the single place transitions are
// validated. All mutation happens through its methods; callers drive it from
// one goroutine so a transition is always atomic relative to a tick.
type Session struct {
	cfg Config
	rng *rand.Rand
	pub logging.Publisher

	state   State
	tick    uint64
	elapsed time.Duration

	money         int
	totalEarnings int
	reputation    float64
	provisions    float64

	playerPos Point
	intentX   float64
	intentY   float64

	queue  *Queue
	active *ActiveCut

	gameOverReason string
	newHighScore   bool

	cues []Cue
}

func NewSession(cfg Config, pub logging.Publisher) *Session {
	cfg = cfg.Normalized()
	if pub == nil {
		pub = logging.NopPublisher()
	}
	rng := NewRNG(cfg.Seed)
	return &Session{
		cfg:   cfg,
		rng:   rng,
		pub:   pub,
		state: StateStart,
		queue: NewQueue(cfg, rng),
	}
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) TotalEarnings() int {
	return s.totalEarnings
}

// Start resets every counter and clock and begins play. Legal from the start
// screen and from a finished game.
func (s *Session) Start() error {
	if s.state != StateStart && s.state != StateGameOver {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.state)
	}
	s.money = s.cfg.InitialMoney
	s.totalEarnings = 0
	s.reputation = s.cfg.InitialReputation
	s.provisions = s.cfg.InitialProvisions
	s.playerPos = s.cfg.PlayerStart
	s.intentX, s.intentY = 0, 0
	s.queue.Reset()
	s.active = nil
	s.gameOverReason = ""
	s.newHighScore = false
	s.elapsed = 0
	s.state = StatePlaying
	s.emit(CueClick)
	lifecycle.SessionStarted(context.Background(), s.pub, s.tick, lifecycle.SessionStartedPayload{
		Money:      s.money,
		Reputation: s.reputation,
		Provisions: s.provisions,
	})
	return nil
}

// Advance runs one simulation tick. Outside Playing and Cutting the
// simulation is frozen: no spawns, no decay, no expiries.
func (s *Session) Advance(dt float64) {
	if s.state != StatePlaying && s.state != StateCutting {
		return
	}
	s.tick++
	s.elapsed += time.Duration(dt * float64(time.Second))

	if s.state == StatePlaying {
		s.movePlayer(dt)
	}

	report := s.queue.Advance(s.elapsed, dt)
	if report.Spawned != nil {
		simulation.CustomerSpawned(context.Background(), s.pub, s.tick,
			customerRef(report.Spawned.ID),
			simulation.CustomerSpawnedPayload{
				CheeseType: string(report.Spawned.Order.Cheese),
				Weight:     report.Spawned.Order.Weight,
				QueueLen:   s.queue.Len(),
			})
	}
	if report.SpawnSkipped {
		simulation.SpawnSkipped(context.Background(), s.pub, s.tick,
			simulation.SpawnSkippedPayload{QueueLen: s.queue.Len()})
	}
	for _, expired := range report.Expired {
		s.updateReputation(-s.cfg.ExpiryReputationPenalty)
		simulation.CustomerExpired(context.Background(), s.pub, s.tick,
			customerRef(expired.ID),
			simulation.CustomerExpiredPayload{
				WaitedSeconds:     (s.elapsed - expired.SpawnedAt).Seconds(),
				ReputationPenalty: s.cfg.ExpiryReputationPenalty,
			})
	}

	// The cutting target can expire mid-cut. Reconcile by discarding the
	// orphaned order and returning to play.
	if s.state == StateCutting && s.active != nil && !s.queue.Contains(s.active.CustomerID) {
		simulation.CutOrphaned(context.Background(), s.pub, s.tick, customerRef(s.active.CustomerID))
		s.active = nil
		s.state = StatePlaying
	}

	if s.state == StatePlaying {
		s.checkGameOver()
	}
}

func (s *Session) movePlayer(dt float64) {
	if s.intentX == 0 && s.intentY == 0 {
		return
	}
	dx, dy := s.intentX, s.intentY
	length := math.Hypot(dx, dy)
	if length > 1 {
		dx /= length
		dy /= length
	}
	s.playerPos.X += dx * s.cfg.PlayerSpeed * dt
	s.playerPos.Y += dy * s.cfg.PlayerSpeed * dt
	bounds := s.cfg.ShopBounds
	s.playerPos.X = math.Max(bounds.Left, math.Min(bounds.Right, s.playerPos.X))
	s.playerPos.Y = math.Max(bounds.Top, math.Min(bounds.Bottom, s.playerPos.Y))
}

// SetIntent stores the movement vector sampled from input.
func (s *Session) SetIntent(dx, dy float64) {
	s.intentX = dx
	s.intentY = dy
}

// CanServe reports whether the serve interaction is currently legal: in
// play, within range of the counter, and the front customer has settled.
func (s *Session) CanServe() bool {
	if s.state != StatePlaying {
		return false
	}
	front := s.queue.Front()
	if front == nil || !front.Waiting {
		return false
	}
	return s.playerPos.DistanceTo(s.cfg.InteractionPos) < s.cfg.InteractionRange
}

// Serve snapshots the front customer's order, picks a shape from the
// difficulty-gated pool, and enters the cutting minigame.
func (s *Session) Serve() error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: serve from %s", ErrInvalidTransition, s.state)
	}
	if !s.CanServe() {
		return ErrCannotServe
	}
	front := s.queue.Front()
	pool := s.cfg.UnlockedShapes(s.elapsed)
	spec := pool[s.rng.Intn(len(pool))]

	s.active = &ActiveCut{
		CustomerID:       front.ID,
		Cheese:           front.Order.Cheese,
		DesiredWeight:    front.Order.Weight,
		BasePricePer100g: front.Order.BasePricePer100g,
		Shape:            spec.Shape,
		Difficulty:       spec.Difficulty,
		GuidePath:        GeneratePath(spec.Shape, s.cfg.CanvasSize),
	}
	s.state = StateCutting
	s.emit(CueServeStart)
	return nil
}

// ExtendGesture appends sampled pointer positions to the current cut stroke.
func (s *Session) ExtendGesture(points []Point) error {
	if s.state != StateCutting || s.active == nil {
		return ErrNoActiveCut
	}
	if len(s.active.gesture) == 0 && len(points) > 0 {
		s.emit(CueSlice)
	}
	s.active.gesture = append(s.active.gesture, points...)
	return nil
}

// CompleteCut scores the accumulated gesture, resolves the sale, and applies
// it. A provisions shortfall is not a partial sale: it ends the session.
func (s *Session) CompleteCut() (CutResult, error) {
	if s.state != StateCutting || s.active == nil {
		return CutResult{}, ErrNoActiveCut
	}
	cut := s.active

	accuracy := ScoreCut(cut.gesture, cut.GuidePath, cut.Shape)
	order := Order{Cheese: cut.Cheese, Weight: cut.DesiredWeight, BasePricePer100g: cut.BasePricePer100g}
	result := ResolveCut(order, accuracy, s.reputation, cut.Difficulty)

	if result.WeightSold > s.provisions {
		economy.SaleFailed(context.Background(), s.pub, s.tick, customerRef(cut.CustomerID),
			economy.SaleFailedPayload{WeightSold: result.WeightSold, Provisions: s.provisions})
		s.active = nil
		s.failSession(ReasonOrderFailed)
		return result, nil
	}

	s.money += result.FinalPrice
	s.totalEarnings += result.FinalPrice
	s.provisions -= result.WeightSold
	s.updateReputation(result.ReputationChange)
	s.queue.PopFront()
	s.active = nil
	s.state = StatePlaying

	if result.ReputationChange >= 0 {
		s.emit(CueSuccess)
	} else {
		s.emit(CueFail)
	}
	s.emit(CueCash)
	economy.SaleCompleted(context.Background(), s.pub, s.tick, customerRef(cut.CustomerID),
		economy.SaleCompletedPayload{
			CheeseType:       string(cut.Cheese),
			Accuracy:         result.Accuracy,
			WeightSold:       result.WeightSold,
			FinalPrice:       result.FinalPrice,
			ReputationChange: result.ReputationChange,
		})
	return result, nil
}

// CancelCut abandons the active cut with no economic effect. Cancelling when
// nothing is active, twice in a row, or after completion is a no-op.
func (s *Session) CancelCut() {
	if s.state != StateCutting || s.active == nil {
		return
	}
	s.active = nil
	s.state = StatePlaying
	s.emit(CueClick)
}

// BuyProvisions restocks the counter at the configured price per 100 g.
func (s *Session) BuyProvisions(grams int) error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: buy from %s", ErrInvalidTransition, s.state)
	}
	if grams <= 0 || grams%100 != 0 {
		return fmt.Errorf("%w: %dg", ErrInvalidAmount, grams)
	}
	cost := grams / 100 * s.cfg.ProvisionCostPer100g
	if s.money < cost {
		economy.PurchaseRejected(context.Background(), s.pub, s.tick, playerRef(),
			economy.PurchaseRejectedPayload{Grams: grams, Cost: cost, Reason: "insufficient funds"})
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, s.money)
	}
	s.money -= cost
	s.provisions += float64(grams)
	s.emit(CueCash)
	economy.ProvisionsPurchased(context.Background(), s.pub, s.tick, playerRef(),
		economy.ProvisionsPurchasedPayload{Grams: grams, Cost: cost})
	return nil
}

// AcknowledgeWarning advances past the warning screen. The caller supplies
// the lowest stored high score and whether the list is full, so the session
// can decide if a new-entry flow should be offered.
func (s *Session) AcknowledgeWarning(lowestScore int, listFull bool) error {
	if s.state != StateGameOverWarning {
		return fmt.Errorf("%w: acknowledge from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateGameOver
	s.newHighScore = s.totalEarnings > lowestScore || !listFull
	s.emit(CueGameOver)
	return nil
}

// MarkScoreSaved closes the new-high-score entry flow after persistence.
func (s *Session) MarkScoreSaved() {
	s.newHighScore = false
}

func (s *Session) checkGameOver() {
	if s.reputation <= 0 {
		s.failSession(ReasonNoReputation)
		return
	}
	if s.provisions <= 0 && s.queue.Len() == 0 && s.active == nil {
		s.failSession(ReasonNoStock)
	}
}

func (s *Session) failSession(reason string) {
	s.gameOverReason = reason
	s.state = StateGameOverWarning
	s.emit(CueWarning)
	lifecycle.GameOver(context.Background(), s.pub, s.tick, lifecycle.GameOverPayload{
		Reason:        reason,
		TotalEarnings: s.totalEarnings,
	})
}

// updateReputation applies a delta under the 0-100 clamp. Every reputation
// mutation goes through here.
func (s *Session) updateReputation(change float64) {
	s.reputation = math.Max(0, math.Min(100, s.reputation+change))
}

func (s *Session) emit(cue Cue) {
	s.cues = append(s.cues, cue)
}

// DrainCues returns the cues fired since the last drain.
func (s *Session) DrainCues() []Cue {
	if len(s.cues) == 0 {
		return nil
	}
	drained := make([]Cue, len(s.cues))
	copy(drained, s.cues)
	s.cues = s.cues[:0]
	return drained
}

func customerRef(id uint64) logging.EntityRef {
	return logging.EntityRef{ID: fmt.Sprintf("customer-%d", id), Kind: logging.EntityKindCustomer}
}

func playerRef() logging.EntityRef {
	return logging.EntityRef{ID: "player", Kind: logging.EntityKindPlayer}
}
