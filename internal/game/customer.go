package game

import "time"

// CheeseType names a cheese on the menu.
type CheeseType string

const (
	CheeseCheddar CheeseType = "Cheddar"
	CheeseGouda   CheeseType = "Gouda"
	CheeseBrie    CheeseType = "Brie"
)

// CheeseSpec is a menu entry.
type CheeseSpec struct {
	Type             CheeseType `json:"type"`
	BasePricePer100g int        `json:"basePricePer100g"`
}

// DefaultCheeseCatalog is the stock menu.
func DefaultCheeseCatalog() []CheeseSpec {
	return []CheeseSpec{
		{Type: CheeseCheddar, BasePricePer100g: 8},
		{Type: CheeseGouda, BasePricePer100g: 10},
		{Type: CheeseBrie, BasePricePer100g: 12},
	}
}

// Order is what a customer asks for. Immutable once created.
type Order struct {
	Cheese           CheeseType `json:"cheese"`
	Weight           float64    `json:"weight"` // grams
	BasePricePer100g int        `json:"basePricePer100g"`
}

// Customer is a queued NPC. The queue simulator owns every live customer;
// it is removed either by being served or by running out of patience.
type Customer struct {
	ID        uint64        `json:"id"`
	Position  Point         `json:"position"`
	Patience  float64       `json:"patience"` // 0-100
	Waiting   bool          `json:"waiting"`  // true once settled at the front
	Sprite    int           `json:"sprite"`
	Order     Order         `json:"order"`
	SpawnedAt time.Duration `json:"-"`
}
