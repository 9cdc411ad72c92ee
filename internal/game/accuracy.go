package game

import "math"

const (
	// AccuracyFloor is charged even for failed gestures: a bad attempt is
	// still an attempt, never a zero.
	AccuracyFloor = 0.1

	lineErrorScale     = 40.0
	polylineErrorScale = 30.0
)

// ScoreCut grades a drawn gesture against the guide path and returns an
// accuracy in [AccuracyFloor, 1.0].
//
// Line shapes are measured against the infinite line through the guide
// endpoints, which forgives overshoot along the cut direction. Curved and
// closed shapes use nearest-sample distance instead, so overshoot costs
// accuracy there. The asymmetry is deliberate.
func ScoreCut(userPath, guidePath []Point, shape Shape) float64 {
	if len(userPath) < 2 {
		return AccuracyFloor
	}

	if shape.IsLine() && len(guidePath) >= 2 {
		start, end := guidePath[0], guidePath[1]
		total := 0.0
		for _, p := range userPath {
			total += distanceToLine(p, start, end)
		}
		return normalize(total/float64(len(userPath)), lineErrorScale)
	}

	if len(guidePath) == 0 {
		return AccuracyFloor
	}
	total := 0.0
	for _, p := range userPath {
		total += minDistanceToPath(p, guidePath)
	}
	return normalize(total/float64(len(userPath)), polylineErrorScale)
}

func normalize(averageError, scale float64) float64 {
	normalized := math.Min(1, averageError/scale)
	return math.Max(AccuracyFloor, 1-normalized)
}
