package geom

import (
	"math"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(3, -4)

	testutil.AssertEqual(t, "add", a.Add(b), Vec2{X: 4, Y: -2})
	testutil.AssertEqual(t, "sub", a.Sub(b), Vec2{X: -2, Y: 6})
	testutil.AssertEqual(t, "scale", b.Scale(2), Vec2{X: 6, Y: -8})
	testutil.AssertEqual(t, "div", b.Div(2), Vec2{X: 1.5, Y: -2})
	testutil.AssertEqual(t, "magnitude", b.Magnitude(), float32(5))
	testutil.AssertEqual(t, "zero magnitude", Zero.Magnitude(), float32(0))
}

func TestTruncate(t *testing.T) {
	tests := map[string]struct {
		v   Vec2
		max float32
		exp Vec2
	}{
		"shorter than max": {
			v:   New(3, 4),
			max: 10,
			exp: New(3, 4),
		},
		"exactly max": {
			v:   New(3, 4),
			max: 5,
			exp: New(3, 4),
		},
		"longer than max": {
			v:   New(0, -8),
			max: 5,
			exp: New(0, -5),
		},
		"zero vector": {
			v:   Zero,
			max: 0,
			exp: Zero,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "result", Truncate(tt.v, tt.max), tt.exp)
		})
	}
}

func TestTruncate_BoundAndDirection(t *testing.T) {
	vectors := []Vec2{
		New(1, 0), New(0, -7), New(123.5, -0.25), New(-3, -3), New(1e4, 2e4), New(0.001, 0.002),
	}
	limits := []float32{0.1, 1, 2.5, 50}

	for _, v := range vectors {
		for _, max := range limits {
			got := Truncate(v, max)
			if got.Magnitude() > max*(1+1e-5) {
				t.Errorf("|Truncate(%v, %v)| = %v, exceeds max", v, max, got.Magnitude())
			}

			// Same direction: the cross product vanishes and the dot product is positive.
			cross := float64(v.X)*float64(got.Y) - float64(v.Y)*float64(got.X)
			dot := float64(v.X)*float64(got.X) + float64(v.Y)*float64(got.Y)
			scale := float64(v.Magnitude()) * float64(got.Magnitude())
			if math.Abs(cross) > 1e-4*scale {
				t.Errorf("Truncate(%v, %v) = %v changed direction", v, max, got)
			}
			if dot <= 0 {
				t.Errorf("Truncate(%v, %v) = %v reversed direction", v, max, got)
			}
		}
	}
}
