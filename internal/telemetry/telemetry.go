package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters aggregates per-tick measurements with atomics so the simulation
// loop never contends with diagnostics readers.
type Counters struct {
	ticks              atomic.Uint64
	bytesSent          atomic.Uint64
	customersSent      atomic.Uint64
	tickDurationMillis atomic.Int64
	commandsApplied    atomic.Uint64
	commandsDropped    atomic.Uint64

	mu    sync.Mutex
	keyed map[string]uint64
}

// Snapshot is the JSON shape served from the diagnostics endpoint.
type Snapshot struct {
	Ticks              uint64            `json:"ticks"`
	BytesSent          uint64            `json:"bytesSent"`
	CustomersSent      uint64            `json:"customersSent"`
	TickDurationMillis int64             `json:"tickDurationMillis"`
	CommandsApplied    uint64            `json:"commandsApplied"`
	CommandsDropped    uint64            `json:"commandsDropped"`
	Keyed              map[string]uint64 `json:"keyed,omitempty"`
}

func NewCounters() *Counters {
	return &Counters{keyed: make(map[string]uint64)}
}

// RecordBroadcast accumulates bytes and queue entities sent to subscribers.
func (c *Counters) RecordBroadcast(bytes, customers int) {
	if bytes < 0 {
		bytes = 0
	}
	if customers < 0 {
		customers = 0
	}
	c.bytesSent.Add(uint64(bytes))
	c.customersSent.Add(uint64(customers))
}

// RecordTick stores the latest tick duration and bumps the tick count.
func (c *Counters) RecordTick(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	c.ticks.Add(1)
	c.tickDurationMillis.Store(millis)
}

// RecordCommands accumulates applied command counts.
func (c *Counters) RecordCommands(applied int) {
	if applied <= 0 {
		return
	}
	c.commandsApplied.Add(uint64(applied))
}

// IncrementDropped counts a rejected command.
func (c *Counters) IncrementDropped() {
	c.commandsDropped.Add(1)
}

// Add implements the generic keyed-counter surface used by the command
// buffer.
func (c *Counters) Add(key string, delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyed[key] += delta
}

// Store implements the generic keyed-gauge surface used by the command
// buffer.
func (c *Counters) Store(key string, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyed[key] = value
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	keyed := make(map[string]uint64, len(c.keyed))
	for k, v := range c.keyed {
		keyed[k] = v
	}
	c.mu.Unlock()
	return Snapshot{
		Ticks:              c.ticks.Load(),
		BytesSent:          c.bytesSent.Load(),
		CustomersSent:      c.customersSent.Load(),
		TickDurationMillis: c.tickDurationMillis.Load(),
		CommandsApplied:    c.commandsApplied.Load(),
		CommandsDropped:    c.commandsDropped.Load(),
		Keyed:              keyed,
	}
}
