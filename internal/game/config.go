package game

import (
	"strings"
	"time"
)

const defaultSeed = "cheese-shop"

// Bounds limits player movement inside the shop.
type Bounds struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Config carries every tuning knob of the simulation. The difficulty curve
// was tuned iteratively in playtesting, so these are configuration, not
// invariants; DefaultConfig holds the canonical per-minute-scaling values.
type Config struct {
	Seed string `json:"seed"`

	InitialMoney      int     `json:"initialMoney"`
	InitialReputation float64 `json:"initialReputation"`
	InitialProvisions float64 `json:"initialProvisions"` // grams

	MaxQueueLength         int           `json:"maxQueueLength"`
	InitialSpawnInterval   time.Duration `json:"initialSpawnInterval"`
	MinSpawnInterval       time.Duration `json:"minSpawnInterval"`
	SpawnDecreasePerMinute time.Duration `json:"spawnDecreasePerMinute"`

	// PatienceDecay is expressed per 60 Hz frame like the rest of the motion
	// constants; the simulator rescales it by the actual tick delta.
	PatienceDecay           float64 `json:"patienceDecay"`
	PatienceDecayPerMinute  float64 `json:"patienceDecayPerMinute"`
	ExpiryReputationPenalty float64 `json:"expiryReputationPenalty"`

	QueueOriginX     float64 `json:"queueOriginX"`
	QueueOriginY     float64 `json:"queueOriginY"`
	QueueEntryX      float64 `json:"queueEntryX"` // off-screen spawn column
	QueueSpacing     float64 `json:"queueSpacing"`
	QueueSettleSpeed float64 `json:"queueSettleSpeed"` // px per 60 Hz frame

	PlayerStart      Point   `json:"playerStart"`
	PlayerSpeed      float64 `json:"playerSpeed"` // px per second
	ShopBounds       Bounds  `json:"shopBounds"`
	InteractionPos   Point   `json:"interactionPos"`
	InteractionRange float64 `json:"interactionRange"`

	ProvisionCostPer100g int     `json:"provisionCostPer100g"`
	LowStockThreshold    float64 `json:"lowStockThreshold"`

	CanvasSize float64 `json:"canvasSize"`

	Cheeses []CheeseSpec `json:"cheeses"`
	Shapes  []ShapeSpec  `json:"shapes"`

	MinOrderWeight   float64 `json:"minOrderWeight"`
	OrderWeightStep  float64 `json:"orderWeightStep"`
	OrderWeightSlots int     `json:"orderWeightSlots"`
}

// DefaultConfig returns the canonical tuning.
func DefaultConfig() Config {
	return Config{
		Seed: defaultSeed,

		InitialMoney:      50,
		InitialReputation: 50,
		InitialProvisions: 1000,

		MaxQueueLength:         5,
		InitialSpawnInterval:   4500 * time.Millisecond,
		MinSpawnInterval:       1200 * time.Millisecond,
		SpawnDecreasePerMinute: 600 * time.Millisecond,

		PatienceDecay:           0.12,
		PatienceDecayPerMinute:  0.02,
		ExpiryReputationPenalty: 5,

		QueueOriginX:     400,
		QueueOriginY:     190,
		QueueEntryX:      850,
		QueueSpacing:     60,
		QueueSettleSpeed: 2,

		PlayerStart:      Point{X: 380, Y: 250},
		PlayerSpeed:      180,
		ShopBounds:       Bounds{Top: 180, Bottom: 350, Left: 200, Right: 600},
		InteractionPos:   Point{X: 384, Y: 270},
		InteractionRange: 40,

		ProvisionCostPer100g: 5,
		LowStockThreshold:    200,

		CanvasSize: 300,

		Cheeses: DefaultCheeseCatalog(),
		Shapes:  DefaultShapeCatalog(),

		MinOrderWeight:   50,
		OrderWeightStep:  10,
		OrderWeightSlots: 10,
	}
}

// Normalized returns a config with defaults applied to unset fields.
func (c Config) Normalized() Config {
	normalized := c
	defaults := DefaultConfig()
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaults.Seed
	}
	if normalized.MaxQueueLength <= 0 {
		normalized.MaxQueueLength = defaults.MaxQueueLength
	}
	if normalized.InitialSpawnInterval <= 0 {
		normalized.InitialSpawnInterval = defaults.InitialSpawnInterval
	}
	if normalized.MinSpawnInterval <= 0 {
		normalized.MinSpawnInterval = defaults.MinSpawnInterval
	}
	if normalized.PatienceDecay <= 0 {
		normalized.PatienceDecay = defaults.PatienceDecay
	}
	if normalized.ExpiryReputationPenalty <= 0 {
		normalized.ExpiryReputationPenalty = defaults.ExpiryReputationPenalty
	}
	if normalized.QueueSettleSpeed <= 0 {
		normalized.QueueSettleSpeed = defaults.QueueSettleSpeed
	}
	if normalized.InteractionRange <= 0 {
		normalized.InteractionRange = defaults.InteractionRange
	}
	if normalized.CanvasSize <= 0 {
		normalized.CanvasSize = defaults.CanvasSize
	}
	if len(normalized.Cheeses) == 0 {
		normalized.Cheeses = DefaultCheeseCatalog()
	}
	if len(normalized.Shapes) == 0 {
		normalized.Shapes = DefaultShapeCatalog()
	}
	if normalized.MinOrderWeight <= 0 {
		normalized.MinOrderWeight = defaults.MinOrderWeight
	}
	if normalized.OrderWeightStep <= 0 {
		normalized.OrderWeightStep = defaults.OrderWeightStep
	}
	if normalized.OrderWeightSlots <= 0 {
		normalized.OrderWeightSlots = defaults.OrderWeightSlots
	}
	return normalized
}

// SpawnInterval derives the time-scaled spawn gate: it tightens by a fixed
// amount per whole elapsed minute and saturates at the configured floor.
func (c Config) SpawnInterval(elapsed time.Duration) time.Duration {
	minutes := int(elapsed.Minutes())
	interval := c.InitialSpawnInterval - time.Duration(minutes)*c.SpawnDecreasePerMinute
	if interval < c.MinSpawnInterval {
		interval = c.MinSpawnInterval
	}
	return interval
}

// PatienceDecayRate derives the per-frame patience loss at the given session
// time. It grows monotonically with elapsed minutes.
func (c Config) PatienceDecayRate(elapsed time.Duration) float64 {
	return c.PatienceDecay + elapsed.Minutes()*c.PatienceDecayPerMinute
}

// UnlockedShapes returns the subset of the catalog available at the given
// session time. The pool only ever grows.
func (c Config) UnlockedShapes(elapsed time.Duration) []ShapeSpec {
	unlocked := make([]ShapeSpec, 0, len(c.Shapes))
	for _, spec := range c.Shapes {
		if spec.UnlockAfter <= elapsed {
			unlocked = append(unlocked, spec)
		}
	}
	return unlocked
}
