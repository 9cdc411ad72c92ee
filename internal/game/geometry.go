package game

import "math"

// Point is a coordinate on the cutting canvas, relative to its top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// distanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. A degenerate segment contributes zero error.
func distanceToLine(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// minDistanceToPath returns the smallest Euclidean distance from p to any
// sample of the path.
func minDistanceToPath(p Point, path []Point) float64 {
	min := math.Inf(1)
	for _, sample := range path {
		if d := p.DistanceTo(sample); d < min {
			min = d
		}
	}
	return min
}
