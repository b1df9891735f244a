package entity

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a rectangle or position cannot take part in collision math.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Vec2 is a 2D float vector. Y grows downward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector, or the zero vector for a zero-length input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAround builds a rectangle centered on c.
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// HalfExtents returns half the width and height.
func (r Rect) HalfExtents() Vec2 {
	return Vec2{r.W / 2, r.H / 2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Overlaps reports whether two rectangles share a non-zero area.
// Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && r.Right() > o.X && r.Y < o.Bottom() && r.Bottom() > o.Y
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// IntersectsCircle reports whether the rectangle intersects a circle.
func (r Rect) IntersectsCircle(c Vec2, radius float64) bool {
	if r.Empty() || radius <= 0 {
		return false
	}
	nx := math.Max(r.X, math.Min(c.X, r.Right()))
	ny := math.Max(r.Y, math.Min(c.Y, r.Bottom()))
	dx, dy := c.X-nx, c.Y-ny
	return dx*dx+dy*dy < radius*radius
}

// Validate rejects rectangles that would poison collision math.
func (r Rect) Validate() error {
	for _, f := range [...]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite rect %+v", ErrInvalidGeometry, r)
		}
	}
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: non-positive size %vx%v", ErrInvalidGeometry, r.W, r.H)
	}
	return nil
}

// Sign returns -1, 0 or 1.
func Sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// Approach moves current toward target by at most step.
func Approach(current, target, step float64) float64 {
	if current < target {
		return math.Min(current+step, target)
	}
	return math.Max(current-step, target)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// CountDown decrements a timer by dt without going negative.
func CountDown(timer, dt float64) float64 {
	if timer <= dt {
		return 0
	}
	return timer - dt
}
