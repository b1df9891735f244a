// Package enemy holds the enemy state machines. Every variant implements
// Enemy; the frame orchestrator integrates positions and resolves walls
// between Update and OnCollision.
package enemy

import (
	"math/rand"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// Target is the read-only view an enemy gets of the entity it hunts.
type Target interface {
	Rect() entity.Rect
	Velocity() entity.Vec2
	Alive() bool
}

// Env is the per-frame context handed to Update.
type Env struct {
	DT float64

	// Lookup resolves a target handle. It reports false for stale handles.
	Lookup func(id entity.EntityID) (Target, bool)

	// Blocked reports whether a rectangle overlaps collidable geometry.
	Blocked func(r entity.Rect) bool

	Rand *rand.Rand
}

// target resolves the handle and checks liveness.
func (e *Env) target(id entity.EntityID) (Target, bool) {
	if e == nil || e.Lookup == nil {
		return nil, false
	}
	t, ok := e.Lookup(id)
	if !ok || t == nil || !t.Alive() {
		return nil, false
	}
	return t, true
}

func (e *Env) blocked(r entity.Rect) bool {
	return e != nil && e.Blocked != nil && e.Blocked(r)
}

func (e *Env) float64() float64 {
	if e == nil || e.Rand == nil {
		return 0.5
	}
	return e.Rand.Float64()
}

// Enemy is the contract shared by all enemy variants.
type Enemy interface {
	ID() entity.EntityID
	SetID(id entity.EntityID)
	Kind() entity.Kind
	Body() *entity.Body

	// Update advances timers, the state machine and velocity.
	Update(env *Env)
	// OnCollision receives the contact classification after wall resolution.
	OnCollision(c entity.Contact)
	// TakeDamage reduces health. Returns true if the damage was applied.
	TakeDamage(amount int) bool

	// Hurtbox is the rectangle player attacks test against.
	Hurtbox() entity.Rect
	// Hurtable reports whether damage would currently be applied.
	Hurtable() bool
	// AttackAreas lists the regions that damage the player this frame.
	AttackAreas() []entity.AttackArea
	// Projectiles returns projectiles owned by this enemy.
	Projectiles() []*entity.Projectile

	// Active is false once the entity should be removed from the world.
	Active() bool
	Snapshot() entity.Snapshot
}

// base carries the fields every variant needs.
type base struct {
	id        entity.EntityID
	body      entity.Body
	health    int
	maxHealth int
	active    bool
	target    entity.EntityID
}

func newBase(pos, size entity.Vec2, health int, target entity.EntityID) (base, error) {
	body, err := entity.NewBody(pos.X, pos.Y, size.X, size.Y)
	if err != nil {
		return base{}, err
	}
	if health <= 0 {
		health = 1
	}
	return base{
		body:      body,
		health:    health,
		maxHealth: health,
		active:    true,
		target:    target,
	}, nil
}

func (b *base) ID() entity.EntityID      { return b.id }
func (b *base) SetID(id entity.EntityID) { b.id = id }
func (b *base) Body() *entity.Body       { return &b.body }
func (b *base) Hurtbox() entity.Rect     { return b.body.Rect() }
func (b *base) Active() bool             { return b.active }
func (b *base) Health() int              { return b.health }
func (b *base) MaxHealth() int           { return b.maxHealth }

// SetHealth overwrites health, for restoring checkpoints and tests.
func (b *base) SetHealth(h int) { b.health = h }

func (b *base) Target() entity.EntityID      { return b.target }
func (b *base) SetTarget(id entity.EntityID) { b.target = id }

// facingToward turns the body toward x.
func (b *base) facingToward(x float64) {
	if x > b.body.Center().X {
		b.body.Facing = 1
	} else if x < b.body.Center().X {
		b.body.Facing = -1
	}
}

func (b *base) snapshot(kind entity.Kind, state string, timer float64) entity.Snapshot {
	return entity.Snapshot{
		ID:        b.id,
		Kind:      kind,
		Pos:       b.body.Pos,
		Size:      b.body.Size,
		Facing:    b.body.Facing,
		State:     state,
		Timer:     timer,
		Health:    b.health,
		MaxHealth: b.maxHealth,
		Active:    b.active,
	}
}

func applyGravity(v *entity.Vec2, gravity, maxFall, dt float64) {
	v.Y += gravity * dt
	if maxFall > 0 && v.Y > maxFall {
		v.Y = maxFall
	}
}
