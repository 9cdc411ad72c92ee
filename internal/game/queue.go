package game

import (
	"math"
	"math/rand"
	"time"
)

// Queue simulates the customer line. It is the only owner of live customers:
// nothing else may mutate its contents, and every read elsewhere is a
// snapshot valid for one tick.
type Queue struct {
	cfg       Config
	rng       *rand.Rand
	customers []*Customer
	nextID    uint64
	lastSpawn time.Duration
}

// TickReport summarizes one queue step.
type TickReport struct {
	Spawned      *Customer
	SpawnSkipped bool
	Expired      []*Customer
}

func NewQueue(cfg Config, rng *rand.Rand) *Queue {
	return &Queue{cfg: cfg, rng: rng}
}

// Reset drops every customer and restarts the spawn clock.
func (q *Queue) Reset() {
	q.customers = q.customers[:0]
	q.lastSpawn = 0
}

// Advance runs one simulation step: spawn gate, settle toward slots, uniform
// patience decay, then a single expiry sweep. All customers age by exactly
// one tick's decay before any removal happens, which keeps expiry ordering
// deterministic.
func (q *Queue) Advance(elapsed time.Duration, dt float64) TickReport {
	report := TickReport{}

	if elapsed-q.lastSpawn > q.cfg.SpawnInterval(elapsed) {
		if len(q.customers) < q.cfg.MaxQueueLength {
			customer := q.spawn(elapsed)
			q.customers = append(q.customers, customer)
			report.Spawned = customer
			q.lastSpawn = elapsed
		} else {
			// A full queue blocks arrivals; nothing is queued or deferred.
			report.SpawnSkipped = true
		}
	}

	step := q.cfg.QueueSettleSpeed * dt * 60
	for index, customer := range q.customers {
		targetX := q.cfg.QueueOriginX + float64(index)*q.cfg.QueueSpacing
		if math.Abs(customer.Position.X-targetX) > step {
			customer.Position.X -= step
		} else {
			customer.Position.X = targetX
			if index == 0 {
				customer.Waiting = true
			}
		}
	}

	decay := q.cfg.PatienceDecayRate(elapsed) * dt * 60
	for _, customer := range q.customers {
		customer.Patience -= decay
	}

	// Expiry sweep. The filter is stable: surviving customers keep their
	// relative order.
	remaining := q.customers[:0]
	for _, customer := range q.customers {
		if customer.Patience <= 0 {
			report.Expired = append(report.Expired, customer)
			continue
		}
		remaining = append(remaining, customer)
	}
	q.customers = remaining

	return report
}

func (q *Queue) spawn(elapsed time.Duration) *Customer {
	q.nextID++
	cheese := q.cfg.Cheeses[q.rng.Intn(len(q.cfg.Cheeses))]
	weight := q.cfg.MinOrderWeight + float64(q.rng.Intn(q.cfg.OrderWeightSlots))*q.cfg.OrderWeightStep
	return &Customer{
		ID:       q.nextID,
		Position: Point{X: q.cfg.QueueEntryX, Y: q.cfg.QueueOriginY},
		Patience: 100,
		Sprite:   q.rng.Intn(4),
		Order: Order{
			Cheese:           cheese.Type,
			Weight:           weight,
			BasePricePer100g: cheese.BasePricePer100g,
		},
		SpawnedAt: elapsed,
	}
}

// Front returns the customer next to serve, or nil.
func (q *Queue) Front() *Customer {
	if len(q.customers) == 0 {
		return nil
	}
	return q.customers[0]
}

// PopFront removes and returns the front customer.
func (q *Queue) PopFront() *Customer {
	if len(q.customers) == 0 {
		return nil
	}
	front := q.customers[0]
	q.customers = append(q.customers[:0], q.customers[1:]...)
	return front
}

// Contains reports whether a customer is still queued.
func (q *Queue) Contains(id uint64) bool {
	for _, customer := range q.customers {
		if customer.ID == id {
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	return len(q.customers)
}

// Snapshot copies the queue contents for read-only consumers.
func (q *Queue) Snapshot() []Customer {
	customers := make([]Customer, 0, len(q.customers))
	for _, customer := range q.customers {
		copied := *customer
		if copied.Patience < 0 {
			copied.Patience = 0
		}
		customers = append(customers, copied)
	}
	return customers
}
