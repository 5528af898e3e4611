package geom

import "math"

// Vec2 is a 2-D vector in simulation units.
//
// Every product is converted back to float32 explicitly. A conversion forces
// rounding, so the compiler may not fuse a multiply and an add on platforms
// that support FMA, and two servers on different hardware agree bit for bit.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Zero is the zero vector.
var Zero = Vec2{}

func New(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: float32(v.X * s), Y: float32(v.Y * s)}
}

func (v Vec2) Div(s float32) Vec2 {
	return Vec2{X: float32(v.X / s), Y: float32(v.Y / s)}
}

// Magnitude returns sqrt(x²+y²).
func (v Vec2) Magnitude() float32 {
	xx := float32(v.X * v.X)
	yy := float32(v.Y * v.Y)
	return float32(math.Sqrt(float64(xx + yy)))
}

// Truncate clamps the magnitude of v to max, keeping its direction.
func Truncate(v Vec2, max float32) Vec2 {
	m := v.Magnitude()
	if m <= max {
		return v
	}
	return v.Div(m).Scale(max)
}
