package game

import (
	"math"
	"time"
)

// Shape identifies a target cut outline.
type Shape string

const (
	ShapeVertical   Shape = "vertical"
	ShapeHorizontal Shape = "horizontal"
	ShapeDiagonal   Shape = "diagonal"
	ShapeZigzag     Shape = "zigzag"
	ShapeCircle     Shape = "circle"
	ShapePentagon   Shape = "pentagon"
	ShapeHeart      Shape = "heart"
)

// ShapeSpec pairs a shape with its pricing weight and the session time at
// which it enters the spawn pool.
type ShapeSpec struct {
	Shape       Shape         `json:"shape"`
	Difficulty  int           `json:"difficulty"`
	UnlockAfter time.Duration `json:"unlockAfter"`
}

// DefaultShapeCatalog lists every shape in unlock order. Difficulty runs 1-6
// and feeds both the price bonus and the reputation swing.
func DefaultShapeCatalog() []ShapeSpec {
	return []ShapeSpec{
		{Shape: ShapeVertical, Difficulty: 1, UnlockAfter: 0},
		{Shape: ShapeHorizontal, Difficulty: 1, UnlockAfter: 10 * time.Second},
		{Shape: ShapeDiagonal, Difficulty: 2, UnlockAfter: 20 * time.Second},
		{Shape: ShapeZigzag, Difficulty: 3, UnlockAfter: 40 * time.Second},
		{Shape: ShapeCircle, Difficulty: 4, UnlockAfter: 60 * time.Second},
		{Shape: ShapePentagon, Difficulty: 5, UnlockAfter: 80 * time.Second},
		{Shape: ShapeHeart, Difficulty: 6, UnlockAfter: 100 * time.Second},
	}
}

// IsLine reports whether the shape is scored against an infinite line rather
// than discrete curve samples.
func (s Shape) IsLine() bool {
	switch s {
	case ShapeVertical, ShapeHorizontal, ShapeDiagonal:
		return true
	}
	return false
}

// GeneratePath produces the guide path for a shape on a square canvas of the
// given side. It is a pure function: identical inputs always yield the
// identical point sequence. An unknown shape falls back to the vertical line.
func GeneratePath(shape Shape, size float64) []Point {
	centerX := size / 2
	centerY := size / 2
	radius := size * 0.35

	switch shape {
	case ShapeVertical:
		return []Point{
			{X: centerX, Y: size * 0.1},
			{X: centerX, Y: size * 0.9},
		}

	case ShapeHorizontal:
		return []Point{
			{X: size * 0.1, Y: centerY},
			{X: size * 0.9, Y: centerY},
		}

	case ShapeDiagonal:
		return []Point{
			{X: size * 0.2, Y: size * 0.2},
			{X: size * 0.8, Y: size * 0.8},
		}

	case ShapeZigzag:
		const segments = 4
		amplitude := size * 0.15
		points := make([]Point, 0, segments+1)
		for i := 0; i <= segments; i++ {
			t := float64(i) / segments
			x := size*0.2 + t*size*0.6
			y := centerY + amplitude
			if i%2 == 0 {
				y = centerY - amplitude
			}
			points = append(points, Point{X: x, Y: y})
		}
		return points

	case ShapeCircle:
		const samples = 64
		points := make([]Point, 0, samples+1)
		for i := 0; i <= samples; i++ {
			angle := float64(i) / samples * 2 * math.Pi
			points = append(points, Point{
				X: centerX + math.Cos(angle)*radius,
				Y: centerY + math.Sin(angle)*radius,
			})
		}
		return points

	case ShapePentagon:
		const sides = 5
		points := make([]Point, 0, sides+1)
		for i := 0; i <= sides; i++ {
			angle := float64(i)/sides*2*math.Pi - math.Pi/2
			points = append(points, Point{
				X: centerX + math.Cos(angle)*radius,
				Y: centerY + math.Sin(angle)*radius,
			})
		}
		return points

	case ShapeHeart:
		const samples = 100
		points := make([]Point, 0, samples+1)
		scale := radius / 16
		for i := 0; i <= samples; i++ {
			t := float64(i) / samples * 2 * math.Pi
			x := 16 * math.Pow(math.Sin(t), 3)
			y := -(13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t))
			points = append(points, Point{
				X: centerX + x*scale,
				Y: centerY + y*scale,
			})
		}
		return points
	}

	// Unknown tag: an explicit fallback to the default vertical cut.
	return GeneratePath(ShapeVertical, size)
}
