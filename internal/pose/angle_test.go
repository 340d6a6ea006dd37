package pose

import (
	"math"
	"math/rand"
	"testing"
)

func TestAngle(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  Point2D
		expected float64
	}{
		{
			name:     "right angle",
			a:        Point2D{X: 1, Y: 0},
			b:        Point2D{X: 0, Y: 0},
			c:        Point2D{X: 0, Y: 1},
			expected: 90,
		},
		{
			name:     "straight line",
			a:        Point2D{X: 0, Y: 0.5},
			b:        Point2D{X: 0.5, Y: 0.5},
			c:        Point2D{X: 1, Y: 0.5},
			expected: 180,
		},
		{
			name:     "folded back",
			a:        Point2D{X: 1, Y: 0},
			b:        Point2D{X: 0, Y: 0},
			c:        Point2D{X: 2, Y: 0},
			expected: 0,
		},
		{
			name:     "45 degrees",
			a:        Point2D{X: 1, Y: 0},
			b:        Point2D{X: 0, Y: 0},
			c:        Point2D{X: 1, Y: 1},
			expected: 45,
		},
		{
			name:     "reflex angle is folded below 180",
			a:        Point2D{X: 1, Y: 0.1},
			b:        Point2D{X: 0, Y: 0},
			c:        Point2D{X: 1, Y: -0.1},
			expected: 2 * math.Atan(0.1) * 180 / math.Pi,
		},
		{
			name:     "a equals vertex",
			a:        Point2D{X: 0.3, Y: 0.3},
			b:        Point2D{X: 0.3, Y: 0.3},
			c:        Point2D{X: 0.3, Y: 0.8},
			expected: 90,
		},
		{
			name:     "all points equal",
			a:        Point2D{X: 0.5, Y: 0.5},
			b:        Point2D{X: 0.5, Y: 0.5},
			c:        Point2D{X: 0.5, Y: 0.5},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Angle(tt.a, tt.b, tt.c)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Angle(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.c, result, tt.expected)
			}
		})
	}
}

func randomPoint(r *rand.Rand) Point2D {
	return Point2D{X: r.Float64()*4 - 2, Y: r.Float64()*4 - 2}
}

func TestAngle_Range(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		a, b, c := randomPoint(r), randomPoint(r), randomPoint(r)
		result := Angle(a, b, c)
		if result < 0 || result > 180 {
			t.Fatalf("Angle(%v, %v, %v) = %v, outside [0,180]", a, b, c, result)
		}
	}
}

func TestAngle_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		a, b, c := randomPoint(r), randomPoint(r), randomPoint(r)
		forward := Angle(a, b, c)
		backward := Angle(c, b, a)
		if math.Abs(forward-backward) > 1e-9 {
			t.Fatalf("Angle not symmetric: %v vs %v for %v %v %v", forward, backward, a, b, c)
		}
	}
}

func TestAngle_TranslationInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a, b, c := randomPoint(r), randomPoint(r), randomPoint(r)
		dx, dy := r.Float64()-0.5, r.Float64()-0.5
		shift := func(p Point2D) Point2D { return Point2D{X: p.X + dx, Y: p.Y + dy} }

		original := Angle(a, b, c)
		moved := Angle(shift(a), shift(b), shift(c))
		if math.Abs(original-moved) > 1e-6 {
			t.Fatalf("Angle changed under translation: %v vs %v", original, moved)
		}
	}
}
