package entity

import "fmt"

// Body is the kinematic state shared by every simulated entity.
// Position is the top-left corner of the bounding box in world units.
type Body struct {
	Pos  Vec2
	Vel  Vec2
	Size Vec2

	// Prev is captured before integration each frame and is only read to
	// classify how a contact happened.
	Prev Vec2

	OnGround    bool
	WasOnGround bool
	OnCeiling   bool
	OnWall      bool
	WallDir     int // -1 wall on the left, +1 on the right, 0 none
	Facing      int // -1 left, +1 right
}

// NewBody creates a body and rejects sizes or positions that would break collision math.
func NewBody(x, y, w, h float64) (Body, error) {
	r := Rect{X: x, Y: y, W: w, H: h}
	if err := r.Validate(); err != nil {
		return Body{}, fmt.Errorf("failed to create body: %w", err)
	}
	return Body{
		Pos:    Vec2{x, y},
		Prev:   Vec2{x, y},
		Size:   Vec2{w, h},
		Facing: 1,
	}, nil
}

// BeginFrame records the previous position and ground state.
func (b *Body) BeginFrame() {
	b.Prev = b.Pos
	b.WasOnGround = b.OnGround
}

// Integrate advances the position by velocity * dt.
func (b *Body) Integrate(dt float64) {
	b.Pos.X += b.Vel.X * dt
	b.Pos.Y += b.Vel.Y * dt
}

// Rect returns the current bounding box.
func (b *Body) Rect() Rect {
	return Rect{X: b.Pos.X, Y: b.Pos.Y, W: b.Size.X, H: b.Size.Y}
}

// PrevRect returns the bounding box at the previous position.
func (b *Body) PrevRect() Rect {
	return Rect{X: b.Prev.X, Y: b.Prev.Y, W: b.Size.X, H: b.Size.Y}
}

// Center returns the bounding box center.
func (b *Body) Center() Vec2 {
	return b.Rect().Center()
}

// Resize changes the size keeping the feet and horizontal center in place.
func (b *Body) Resize(w, h float64) {
	cx := b.Pos.X + b.Size.X/2
	bottom := b.Pos.Y + b.Size.Y
	b.Size = Vec2{w, h}
	b.Pos = Vec2{cx - w/2, bottom - h}
}

// ClearContacts resets the per-frame contact flags before resolution.
func (b *Body) ClearContacts() {
	b.OnGround = false
	b.OnCeiling = false
	b.OnWall = false
	b.WallDir = 0
}

// Contact is the collision classification reported for one frame.
type Contact struct {
	Ground  bool
	Ceiling bool
	WallDir int
	Stepped bool
}

// Any reports whether any contact occurred.
func (c Contact) Any() bool {
	return c.Ground || c.Ceiling || c.WallDir != 0
}
