package sim

import (
	"fmt"
	"sync"
	"testing"
)

type recordingMetrics struct {
	mu     sync.Mutex
	adds   map[string]uint64
	stores map[string]uint64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		adds:   make(map[string]uint64),
		stores: make(map[string]uint64),
	}
}

func (m *recordingMetrics) Add(key string, delta uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds[key] += delta
}

func (m *recordingMetrics) Store(key string, value uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[key] = value
}

func makeCommand(i int) Command {
	return Command{ActorID: fmt.Sprintf("actor-%d", i), Type: CommandServe}
}

func TestCommandBufferDrainPreservesFIFO(t *testing.T) {
	buffer := NewCommandBuffer(8, nil)
	for i := 0; i < 5; i++ {
		if !buffer.Push(makeCommand(i)) {
			t.Fatalf("push %d failed", i)
		}
	}
	if buffer.Len() != 5 {
		t.Fatalf("expected 5 staged, got %d", buffer.Len())
	}
	drained := buffer.Drain()
	for i, cmd := range drained {
		if cmd.ActorID != fmt.Sprintf("actor-%d", i) {
			t.Fatalf("order broken at %d: %s", i, cmd.ActorID)
		}
	}
	if buffer.Len() != 0 {
		t.Fatalf("drain left %d commands", buffer.Len())
	}
	if buffer.Drain() != nil {
		t.Fatalf("empty drain should return nil")
	}
}

func TestCommandBufferWrapsAround(t *testing.T) {
	buffer := NewCommandBuffer(4, nil)
	for cycle := 0; cycle < 3; cycle++ {
		for i := 0; i < 3; i++ {
			if !buffer.Push(makeCommand(cycle*3 + i)) {
				t.Fatalf("push failed on cycle %d", cycle)
			}
		}
		drained := buffer.Drain()
		if len(drained) != 3 {
			t.Fatalf("cycle %d: expected 3, got %d", cycle, len(drained))
		}
		if drained[0].ActorID != fmt.Sprintf("actor-%d", cycle*3) {
			t.Fatalf("cycle %d: wrong head %s", cycle, drained[0].ActorID)
		}
	}
}

func TestCommandBufferRejectsWhenFull(t *testing.T) {
	metrics := newRecordingMetrics()
	buffer := NewCommandBuffer(2, metrics)
	if !buffer.Push(makeCommand(0)) || !buffer.Push(makeCommand(1)) {
		t.Fatalf("initial pushes failed")
	}
	if buffer.Push(makeCommand(2)) {
		t.Fatalf("push beyond capacity succeeded")
	}
	if got := metrics.adds[commandBufferOverflowMetricKey]; got != 1 {
		t.Fatalf("expected 1 overflow recorded, got %d", got)
	}
	if got := metrics.stores[commandBufferOccupancyMetricKey]; got != 2 {
		t.Fatalf("expected occupancy 2, got %d", got)
	}
}

func TestCommandBufferMinimumCapacity(t *testing.T) {
	buffer := NewCommandBuffer(0, nil)
	if buffer.Capacity() != 1 {
		t.Fatalf("expected capacity floor of 1, got %d", buffer.Capacity())
	}
}
