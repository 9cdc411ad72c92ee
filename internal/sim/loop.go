package sim

import (
	"log"
	"sync"
	"time"

	"github.com/santiagobarrazas/CheeseShop/internal/game"
	"github.com/santiagobarrazas/CheeseShop/logging"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"
)

// Engine is the surface the loop drives once per tick.
type Engine interface {
	Apply([]Command)
	Step(TickContext)
	Snapshot() game.Snapshot
}

// TickContext describes one loop iteration.
type TickContext struct {
	Tick  uint64
	Now   time.Time
	Delta float64
}

// StepResult is handed to the AfterStep hook.
type StepResult struct {
	Tick     uint64
	Now      time.Time
	Delta    float64
	Snapshot game.Snapshot
	Commands []Command
	Duration time.Duration
	Budget   time.Duration
}

// Hooks let the owner observe loop progress without subclassing it.
type Hooks struct {
	AfterStep     func(StepResult)
	OnCommandDrop func(reason string, cmd Command)
}

// LoopConfig tunes the command buffer and tick orchestration.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

// Loop coordinates command ingestion and the fixed-timestep runner. Commands
// arrive from any goroutine; the engine is only touched from the loop
// goroutine, so every staged command applies atomically at a tick boundary.
type Loop struct {
	engine Engine
	buffer *CommandBuffer
	hooks  Hooks
	config LoopConfig
	clock  logging.Clock
	logger *log.Logger
	tick   uint64

	queueMu       sync.Mutex
	perActorCount map[string]int
	dropCounts    map[string]uint64
}

func NewLoop(engine Engine, cfg LoopConfig, clock logging.Clock, logger *log.Logger, metrics Metrics, hooks Hooks) *Loop {
	if engine == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 15
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = 256
	}
	if clock == nil {
		clock = logging.SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		engine:        engine,
		buffer:        NewCommandBuffer(cfg.CommandCapacity, metrics),
		hooks:         hooks,
		config:        cfg,
		clock:         clock,
		logger:        logger,
		perActorCount: make(map[string]int),
		dropCounts:    make(map[string]uint64),
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity
// limits. It returns false with a reject reason when the command is dropped.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	reason := ""
	var dropCount uint64
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" {
		count := l.perActorCount[cmd.ActorID]
		if count >= l.config.PerActorLimit {
			reason = CommandRejectQueueLimit
			dropCount = l.incrementDropLocked(cmd.ActorID)
		} else {
			l.perActorCount[cmd.ActorID] = count + 1
		}
	}
	if reason == "" && !l.buffer.Push(cmd) {
		reason = CommandRejectQueueFull
		dropCount = l.incrementDropLocked(cmd.ActorID)
	}
	l.queueMu.Unlock()
	if reason != "" {
		l.reportDrop(reason, cmd, dropCount)
		return false, reason
	}
	return true, ""
}

// Advance executes a single simulation step using the staged commands.
func (l *Loop) Advance(ctx TickContext) StepResult {
	if l == nil {
		return StepResult{}
	}
	commands := l.drainCommands()
	l.engine.Apply(commands)
	l.engine.Step(ctx)
	return StepResult{
		Tick:     ctx.Tick,
		Now:      ctx.Now,
		Delta:    ctx.Delta,
		Snapshot: l.engine.Snapshot(),
		Commands: commands,
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	last := l.clock.Now()
	budgetSeconds := 1.0 / float64(tickRate)
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}
	budgetDuration := time.Second / time.Duration(tickRate)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
			}
			last = now

			l.tick++
			start := l.clock.Now()
			result := l.Advance(TickContext{Tick: l.tick, Now: now, Delta: dt})
			result.Duration = l.clock.Now().Sub(start)
			result.Budget = budgetDuration

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}

func (l *Loop) drainCommands() []Command {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	commands := l.buffer.Drain()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	return commands
}

func (l *Loop) incrementDropLocked(actorID string) uint64 {
	if actorID == "" {
		return 0
	}
	count := l.dropCounts[actorID] + 1
	l.dropCounts[actorID] = count
	return count
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	// Log on powers of two so a stuck client cannot flood the logs.
	if count > 0 && count&(count-1) == 0 {
		l.logger.Printf("[backpressure] dropping command actor=%s type=%s count=%d reason=%s",
			cmd.ActorID, cmd.Type, count, reason)
	}
}
