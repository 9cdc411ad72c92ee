package game

import (
	"math"
	"testing"
)

func TestScoreCutDegenerateGestureScoresFloor(t *testing.T) {
	guide := GeneratePath(ShapeVertical, 300)
	if got := ScoreCut(nil, guide, ShapeVertical); got != AccuracyFloor {
		t.Fatalf("empty gesture: expected floor %v, got %v", AccuracyFloor, got)
	}
	if got := ScoreCut([]Point{{X: 150, Y: 30}}, guide, ShapeVertical); got != AccuracyFloor {
		t.Fatalf("one-point gesture: expected floor %v, got %v", AccuracyFloor, got)
	}
}

func TestScoreCutPerfectLineTrace(t *testing.T) {
	guide := GeneratePath(ShapeVertical, 300)
	gesture := []Point{{X: 150, Y: 40}, {X: 150, Y: 150}, {X: 150, Y: 260}}
	if got := ScoreCut(gesture, guide, ShapeVertical); got != 1.0 {
		t.Fatalf("perfect trace: expected 1.0, got %v", got)
	}
}

// Straight cuts are scored against the infinite line through the endpoints,
// so overshooting past the guide ends costs nothing.
func TestScoreCutLineForgivesOvershoot(t *testing.T) {
	guide := GeneratePath(ShapeVertical, 300)
	gesture := []Point{{X: 150, Y: -100}, {X: 150, Y: 150}, {X: 150, Y: 400}}
	if got := ScoreCut(gesture, guide, ShapeVertical); got != 1.0 {
		t.Fatalf("on-line overshoot: expected 1.0, got %v", got)
	}
}

func TestScoreCutPolylinePenalizesOvershoot(t *testing.T) {
	guide := GeneratePath(ShapeCircle, 300)
	onCurve := ScoreCut(guide, guide, ShapeCircle)
	if onCurve != 1.0 {
		t.Fatalf("tracing the guide samples: expected 1.0, got %v", onCurve)
	}

	// A gesture drifting outward from the circle must score worse than the
	// trace, unlike the line case where collinear drift is free.
	offset := make([]Point, len(guide))
	for i, p := range guide {
		offset[i] = Point{X: p.X + 20, Y: p.Y}
	}
	drifted := ScoreCut(offset, guide, ShapeCircle)
	if drifted >= onCurve {
		t.Fatalf("offset trace should score below %v, got %v", onCurve, drifted)
	}
}

func TestScoreCutDistanceDegradesAccuracy(t *testing.T) {
	guide := GeneratePath(ShapeVertical, 300)
	near := ScoreCut([]Point{{X: 160, Y: 50}, {X: 160, Y: 250}}, guide, ShapeVertical)
	far := ScoreCut([]Point{{X: 200, Y: 50}, {X: 200, Y: 250}}, guide, ShapeVertical)
	if near <= far {
		t.Fatalf("closer gesture should score higher: near=%v far=%v", near, far)
	}
	// 10 px of constant error against the 40 px scale: 1 - 10/40.
	if math.Abs(near-0.75) > 1e-9 {
		t.Fatalf("expected 0.75 for 10px error, got %v", near)
	}
}

func TestScoreCutStaysInRange(t *testing.T) {
	guide := GeneratePath(ShapeHeart, 300)
	gestures := [][]Point{
		{{X: -5000, Y: -5000}, {X: 5000, Y: 5000}},
		{{X: 150, Y: 150}, {X: 151, Y: 151}},
		GeneratePath(ShapeZigzag, 300),
	}
	for _, gesture := range gestures {
		got := ScoreCut(gesture, guide, ShapeHeart)
		if got < AccuracyFloor || got > 1.0 {
			t.Fatalf("accuracy %v outside [%v, 1.0]", got, AccuracyFloor)
		}
	}
}
