package sim

import (
	"testing"
	"time"

	"github.com/santiagobarrazas/CheeseShop/internal/game"
)

type stubEngine struct {
	applied [][]Command
	steps   []TickContext
}

func (e *stubEngine) Apply(commands []Command) {
	e.applied = append(e.applied, commands)
}

func (e *stubEngine) Step(ctx TickContext) {
	e.steps = append(e.steps, ctx)
}

func (e *stubEngine) Snapshot() game.Snapshot {
	return game.Snapshot{Tick: uint64(len(e.steps))}
}

func TestLoopAdvanceAppliesStagedCommands(t *testing.T) {
	engine := &stubEngine{}
	loop := NewLoop(engine, LoopConfig{TickRate: 15}, nil, nil, nil, Hooks{})

	for i := 0; i < 3; i++ {
		if ok, reason := loop.Enqueue(Command{ActorID: "a", Type: CommandServe}); !ok {
			t.Fatalf("enqueue rejected: %s", reason)
		}
	}
	if loop.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", loop.Pending())
	}

	result := loop.Advance(TickContext{Tick: 1, Now: time.Now(), Delta: 1.0 / 15})
	if len(result.Commands) != 3 {
		t.Fatalf("expected 3 commands in result, got %d", len(result.Commands))
	}
	if len(engine.applied) != 1 || len(engine.applied[0]) != 3 {
		t.Fatalf("commands not applied as one batch: %v", engine.applied)
	}
	if len(engine.steps) != 1 || engine.steps[0].Tick != 1 {
		t.Fatalf("step not invoked: %v", engine.steps)
	}
	if result.Snapshot.Tick != 1 {
		t.Fatalf("snapshot not captured after step")
	}
	if loop.Pending() != 0 {
		t.Fatalf("commands left staged after advance")
	}
}

func TestLoopEnqueueThrottlesPerActor(t *testing.T) {
	engine := &stubEngine{}
	var dropped []string
	loop := NewLoop(engine, LoopConfig{TickRate: 15, PerActorLimit: 2}, nil, nil, nil, Hooks{
		OnCommandDrop: func(reason string, cmd Command) {
			dropped = append(dropped, reason)
		},
	})

	for i := 0; i < 2; i++ {
		if ok, _ := loop.Enqueue(Command{ActorID: "spammer", Type: CommandMove}); !ok {
			t.Fatalf("enqueue %d rejected under limit", i)
		}
	}
	ok, reason := loop.Enqueue(Command{ActorID: "spammer", Type: CommandMove})
	if ok || reason != CommandRejectQueueLimit {
		t.Fatalf("expected queue_limit rejection, got ok=%v reason=%q", ok, reason)
	}
	if len(dropped) != 1 || dropped[0] != CommandRejectQueueLimit {
		t.Fatalf("drop hook not invoked: %v", dropped)
	}

	// Another actor is unaffected by the spammer's throttle.
	if ok, _ := loop.Enqueue(Command{ActorID: "other", Type: CommandMove}); !ok {
		t.Fatalf("independent actor throttled")
	}

	// Draining a tick resets the per-actor window.
	loop.Advance(TickContext{Tick: 1, Now: time.Now(), Delta: 1.0 / 15})
	if ok, _ := loop.Enqueue(Command{ActorID: "spammer", Type: CommandMove}); !ok {
		t.Fatalf("throttle not reset after drain")
	}
}

func TestLoopEnqueueRejectsWhenBufferFull(t *testing.T) {
	engine := &stubEngine{}
	loop := NewLoop(engine, LoopConfig{TickRate: 15, CommandCapacity: 2}, nil, nil, nil, Hooks{})

	loop.Enqueue(Command{ActorID: "a", Type: CommandMove})
	loop.Enqueue(Command{ActorID: "b", Type: CommandMove})
	ok, reason := loop.Enqueue(Command{ActorID: "c", Type: CommandMove})
	if ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full rejection, got ok=%v reason=%q", ok, reason)
	}
}

func TestLoopRunStopsOnSignal(t *testing.T) {
	engine := &stubEngine{}
	ticked := make(chan struct{}, 1)
	loop := NewLoop(engine, LoopConfig{TickRate: 200}, nil, nil, nil, Hooks{
		AfterStep: func(StepResult) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		},
	})

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		loop.Run(stop)
		close(done)
	}()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop never ticked")
	}
	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}
}
