package enemy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// FlyerState is the flyer's AI state
type FlyerState int

const (
	FlyerPatrol FlyerState = iota
	FlyerTargeting
	FlyerCharging
	FlyerRecovering
	FlyerStunned
)

func (s FlyerState) String() string {
	switch s {
	case FlyerPatrol:
		return "patrol"
	case FlyerTargeting:
		return "targeting"
	case FlyerCharging:
		return "charging"
	case FlyerRecovering:
		return "recovering"
	case FlyerStunned:
		return "stunned"
	}
	return "unknown"
}

// FlyerConfig tunes the flyer.
type FlyerConfig struct {
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	Health            int     `json:"health"`
	ContactDamage     int     `json:"contactDamage"`
	PatrolRadius      float64 `json:"patrolRadius"`
	PatrolSpeed       float64 `json:"patrolSpeed"`  // radians per second around home
	PatrolFollow      float64 `json:"patrolFollow"` // 1/s gain toward the orbit point
	DetectionRange    float64 `json:"detectionRange"`
	TelegraphTime     float64 `json:"telegraphTime"`
	ChargeSpeed       float64 `json:"chargeSpeed"`
	MaxChargeDistance float64 `json:"maxChargeDistance"`
	RecoverRise       float64 `json:"recoverRise"`
	RecoverTime       float64 `json:"recoverTime"`
	StunTime          float64 `json:"stunTime"`
	StunGravity       float64 `json:"stunGravity"`
	AttackCooldown    float64 `json:"attackCooldown"`
	DeathTime         float64 `json:"deathTime"`
}

// Flyer hovers around a home point and charges the target in a straight line.
type Flyer struct {
	base
	cfg FlyerConfig

	state    FlyerState
	timer    float64
	cooldown float64
	home     entity.Vec2
	angle    float64

	chargeDir   entity.Vec2
	chargeStart entity.Vec2
	recover     *gween.Tween

	dying bool
}

// NewFlyer creates a flyer whose home point is its spawn center.
func NewFlyer(cfg FlyerConfig, pos entity.Vec2, health int, target entity.EntityID) (*Flyer, error) {
	if health <= 0 {
		health = cfg.Health
	}
	b, err := newBase(pos, entity.Vec2{X: cfg.Width, Y: cfg.Height}, health, target)
	if err != nil {
		return nil, err
	}
	f := &Flyer{base: b, cfg: cfg}
	f.home = f.body.Center()
	return f, nil
}

func (f *Flyer) Kind() entity.Kind { return entity.KindFlyer }

// State returns the current AI state.
func (f *Flyer) State() FlyerState { return f.state }

// ChargeDir returns the direction locked at the end of the telegraph.
func (f *Flyer) ChargeDir() entity.Vec2 { return f.chargeDir }

// Home returns the point the patrol orbits.
func (f *Flyer) Home() entity.Vec2 { return f.home }

// Dying reports whether the death timer is running.
func (f *Flyer) Dying() bool { return f.dying }

func (f *Flyer) Update(env *Env) {
	if !f.active {
		return
	}
	dt := env.DT
	f.cooldown = entity.CountDown(f.cooldown, dt)

	if f.dying {
		f.body.Vel = entity.Vec2{}
		f.timer = entity.CountDown(f.timer, dt)
		if f.timer == 0 {
			f.active = false
		}
		return
	}

	center := f.body.Center()
	t, ok := env.target(f.target)

	switch f.state {
	case FlyerPatrol:
		if ok && f.cooldown == 0 && center.Dist(t.Rect().Center()) <= f.cfg.DetectionRange {
			f.state = FlyerTargeting
			f.timer = f.cfg.TelegraphTime
			f.body.Vel = entity.Vec2{}
			f.facingToward(t.Rect().Center().X)
			return
		}
		f.angle = math.Mod(f.angle+f.cfg.PatrolSpeed*dt, 2*math.Pi)
		orbit := f.home.Add(entity.Vec2{
			X: math.Cos(f.angle) * f.cfg.PatrolRadius,
			Y: math.Sin(f.angle) * f.cfg.PatrolRadius * 0.5,
		})
		f.body.Vel = orbit.Sub(center).Scale(f.cfg.PatrolFollow)

	case FlyerTargeting:
		f.body.Vel = entity.Vec2{}
		if !ok {
			f.state = FlyerPatrol
			return
		}
		aim := t.Rect().Center()
		f.facingToward(aim.X)
		f.timer = entity.CountDown(f.timer, dt)
		if f.timer > 0 {
			return
		}
		dir := aim.Sub(center).Normalize()
		if dir == (entity.Vec2{}) {
			dir = entity.Vec2{X: float64(f.body.Facing)}
		}
		f.chargeDir = dir
		f.chargeStart = center
		f.state = FlyerCharging
		f.body.Vel = dir.Scale(f.cfg.ChargeSpeed)

	case FlyerCharging:
		if center.Dist(f.chargeStart) >= f.cfg.MaxChargeDistance {
			f.startRecovering()
			return
		}
		f.body.Vel = f.chargeDir.Scale(f.cfg.ChargeSpeed)

	case FlyerStunned:
		f.body.Vel.X = 0
		applyGravity(&f.body.Vel, f.cfg.StunGravity, 0, dt)
		f.timer = entity.CountDown(f.timer, dt)
		if f.timer == 0 {
			f.startRecovering()
		}

	case FlyerRecovering:
		y, done := f.recover.Update(float32(dt))
		f.body.Vel = entity.Vec2{}
		if dt > 0 {
			f.body.Vel.Y = (float64(y) - center.Y) / dt
		}
		if done {
			f.state = FlyerPatrol
			f.cooldown = f.cfg.AttackCooldown
			f.angle = math.Pi / 2
		}
	}
}

// startRecovering re-anchors home above the charge's end point and floats up to it.
func (f *Flyer) startRecovering() {
	end := f.body.Center()
	f.state = FlyerRecovering
	f.body.Vel = entity.Vec2{}
	f.home = entity.Vec2{X: end.X, Y: end.Y - f.cfg.RecoverRise}
	f.recover = gween.New(float32(end.Y), float32(f.home.Y), float32(f.cfg.RecoverTime), ease.OutQuad)
}

func (f *Flyer) OnCollision(c entity.Contact) {
	if f.state == FlyerCharging && !f.dying && c.Any() {
		f.state = FlyerStunned
		f.timer = f.cfg.StunTime
		f.body.Vel = entity.Vec2{}
	}
}

func (f *Flyer) TakeDamage(amount int) bool {
	if !f.Hurtable() || amount <= 0 {
		return false
	}
	f.health -= amount
	if f.health <= 0 {
		f.health = 0
		f.dying = true
		f.timer = f.cfg.DeathTime
		f.body.Vel = entity.Vec2{}
		return true
	}
	if f.state == FlyerCharging {
		f.startRecovering()
	}
	return true
}

func (f *Flyer) Hurtable() bool {
	return f.active && !f.dying
}

func (f *Flyer) AttackAreas() []entity.AttackArea {
	if !f.Hurtable() {
		return nil
	}
	return []entity.AttackArea{{Rect: f.body.Rect(), Damage: f.cfg.ContactDamage}}
}

func (f *Flyer) Projectiles() []*entity.Projectile { return nil }

func (f *Flyer) Snapshot() entity.Snapshot {
	state := f.state.String()
	if f.dying {
		state = "dying"
	}
	return f.snapshot(entity.KindFlyer, state, f.timer)
}
