package entity

// Projectile is a short-lived value-like entity owned by the enemy that spawned it.
type Projectile struct {
	Pos    Vec2
	Vel    Vec2
	Size   Vec2
	Start  Vec2
	Active bool

	Age      float64
	Lifetime float64
	MaxRange float64
	Damage   int
}

// NewProjectile creates a projectile centered on pos moving along dir at speed.
func NewProjectile(center, dir Vec2, speed, size, lifetime, maxRange float64, damage int) *Projectile {
	pos := Vec2{center.X - size/2, center.Y - size/2}
	return &Projectile{
		Pos:      pos,
		Vel:      dir.Normalize().Scale(speed),
		Size:     Vec2{size, size},
		Start:    pos,
		Active:   true,
		Lifetime: lifetime,
		MaxRange: maxRange,
		Damage:   damage,
	}
}

// Update moves the projectile and expires it past its lifetime or range.
func (p *Projectile) Update(dt float64) {
	if !p.Active {
		return
	}
	p.Age += dt
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	if p.Lifetime > 0 && p.Age >= p.Lifetime {
		p.Active = false
	}
	if p.MaxRange > 0 && p.Pos.Dist(p.Start) >= p.MaxRange {
		p.Active = false
	}
}

// Rect returns the hitbox in world coordinates
func (p *Projectile) Rect() Rect {
	return Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.Size.X, H: p.Size.Y}
}

// Deactivate marks the projectile as inactive
func (p *Projectile) Deactivate() {
	p.Active = false
}

// PruneProjectiles drops inactive projectiles in place.
func PruneProjectiles(ps []*Projectile) []*Projectile {
	out := ps[:0]
	for _, p := range ps {
		if p.Active {
			out = append(out, p)
		}
	}
	for i := len(out); i < len(ps); i++ {
		ps[i] = nil
	}
	return out
}
