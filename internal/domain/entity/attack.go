package entity

// AttackDir is the direction of a melee swing.
type AttackDir int

const (
	AttackSide AttackDir = iota
	AttackUp
	AttackDown
)

func (d AttackDir) String() string {
	switch d {
	case AttackUp:
		return "up"
	case AttackDown:
		return "down"
	}
	return "side"
}

// AttackArea is a damaging region an enemy exposes to the combat resolver.
// Circle areas use Center and Radius; Rect is then their bounding box.
type AttackArea struct {
	Rect   Rect
	Circle bool
	Center Vec2
	Radius float64
	Damage int

	// Projectile is set when the area belongs to a projectile that dies on hit.
	Projectile *Projectile
}

// Hits reports whether the area touches r.
func (a AttackArea) Hits(r Rect) bool {
	if a.Circle {
		return r.IntersectsCircle(a.Center, a.Radius)
	}
	return a.Rect.Overlaps(r)
}

// Origin is the point knockback is computed from.
func (a AttackArea) Origin() Vec2 {
	if a.Circle {
		return a.Center
	}
	return a.Rect.Center()
}

// Snapshot is the read-only view of an entity handed to rendering and persistence.
type Snapshot struct {
	ID        EntityID `json:"-"`
	Kind      Kind     `json:"kind"`
	Pos       Vec2     `json:"pos"`
	Size      Vec2     `json:"size"`
	Facing    int      `json:"facing"`
	State     string   `json:"state"`
	Timer     float64  `json:"timer"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Active    bool     `json:"active"`

	Projectiles []Rect       `json:"-"`
	Attacks     []AttackArea `json:"-"`
}
