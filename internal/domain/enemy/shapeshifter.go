package enemy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// ShapeshifterState is the shapeshifter's AI state
type ShapeshifterState int

const (
	ShapeshifterIdle ShapeshifterState = iota
	ShapeshifterHop
	ShapeshifterMorphing
	ShapeshifterCharge
	ShapeshifterRun
	ShapeshifterSlide
	ShapeshifterTurn
	ShapeshifterUnmorphing
	ShapeshifterDying
)

var shapeshifterStateNames = [...]string{
	ShapeshifterIdle:       "idle",
	ShapeshifterHop:        "hop",
	ShapeshifterMorphing:   "morphing",
	ShapeshifterCharge:     "charge",
	ShapeshifterRun:        "run",
	ShapeshifterSlide:      "slide",
	ShapeshifterTurn:       "turn",
	ShapeshifterUnmorphing: "unmorphing",
	ShapeshifterDying:      "dying",
}

func (s ShapeshifterState) String() string {
	if int(s) >= 0 && int(s) < len(shapeshifterStateNames) {
		return shapeshifterStateNames[s]
	}
	return "unknown"
}

// ShapeshifterConfig tunes the shapeshifter.
type ShapeshifterConfig struct {
	SmallWidth  float64 `json:"smallWidth"`
	SmallHeight float64 `json:"smallHeight"`
	LargeWidth  float64 `json:"largeWidth"`
	LargeHeight float64 `json:"largeHeight"`
	Health      int     `json:"health"`
	SmallDamage int     `json:"smallDamage"`
	LargeDamage int     `json:"largeDamage"`

	Gravity      float64 `json:"gravity"`
	MaxFallSpeed float64 `json:"maxFallSpeed"`

	DetectionRange float64 `json:"detectionRange"`
	HopInterval    float64 `json:"hopInterval"`
	HopSpeedX      float64 `json:"hopSpeedX"`
	HopSpeedY      float64 `json:"hopSpeedY"`
	FollowTime     float64 `json:"followTime"` // proximity needed before morphing
	MorphTime      float64 `json:"morphTime"`

	ChargeTime      float64 `json:"chargeTime"`
	RunSpeed        float64 `json:"runSpeed"`
	RunAccel        float64 `json:"runAccel"`
	SlideDecel      float64 `json:"slideDecel"`
	OvershootMargin float64 `json:"overshootMargin"`
	TurnTime        float64 `json:"turnTime"`
	TurnCooldown    float64 `json:"turnCooldown"`
	SafeDistance    float64 `json:"safeDistance"`
	UnmorphTime     float64 `json:"unmorphTime"` // safe distance needed before reverting

	DeathTime float64 `json:"deathTime"`
}

// Shapeshifter hops around in a small form and morphs into a fast charger.
type Shapeshifter struct {
	base
	cfg ShapeshifterConfig

	state        ShapeshifterState
	timer        float64
	large        bool
	swapped      bool
	hopTimer     float64
	followTimer  float64
	unmorphTimer float64
	turnCooldown float64
	morph        *gween.Tween
	morphView    float64
}

// NewShapeshifter creates a shapeshifter in its small form.
func NewShapeshifter(cfg ShapeshifterConfig, pos entity.Vec2, health int, target entity.EntityID) (*Shapeshifter, error) {
	if health <= 0 {
		health = cfg.Health
	}
	b, err := newBase(pos, entity.Vec2{X: cfg.SmallWidth, Y: cfg.SmallHeight}, health, target)
	if err != nil {
		return nil, err
	}
	return &Shapeshifter{base: b, cfg: cfg, hopTimer: cfg.HopInterval}, nil
}

func (s *Shapeshifter) Kind() entity.Kind { return entity.KindShapeshifter }

// State returns the current AI state.
func (s *Shapeshifter) State() ShapeshifterState { return s.state }

// Large reports whether the large form is active.
func (s *Shapeshifter) Large() bool { return s.large }

// FollowTimer returns accumulated proximity time.
func (s *Shapeshifter) FollowTimer() float64 { return s.followTimer }

// MorphProgress is 0 for the small form and 1 for the large form, eased while morphing.
func (s *Shapeshifter) MorphProgress() float64 {
	if s.morph == nil {
		if s.large {
			return 1
		}
		return 0
	}
	return s.morphView
}

func (s *Shapeshifter) Update(env *Env) {
	if !s.active {
		return
	}
	dt := env.DT
	s.turnCooldown = entity.CountDown(s.turnCooldown, dt)
	applyGravity(&s.body.Vel, s.cfg.Gravity, s.cfg.MaxFallSpeed, dt)

	if s.state == ShapeshifterDying {
		s.body.Vel.X = 0
		s.timer = entity.CountDown(s.timer, dt)
		if s.timer == 0 {
			s.active = false
		}
		return
	}

	center := s.body.Center()
	dist := math.Inf(1)
	t, ok := env.target(s.target)
	if ok {
		dist = center.Dist(t.Rect().Center())
	}
	inRange := ok && dist <= s.cfg.DetectionRange

	switch s.state {
	case ShapeshifterIdle:
		if s.body.OnGround {
			s.body.Vel.X = 0
		}
		if s.trackFollow(inRange, dt) {
			return
		}
		s.hopTimer = entity.CountDown(s.hopTimer, dt)
		if inRange && s.body.OnGround && s.hopTimer == 0 {
			s.facingToward(t.Rect().Center().X)
			s.state = ShapeshifterHop
			s.body.Vel = entity.Vec2{X: float64(s.body.Facing) * s.cfg.HopSpeedX, Y: -s.cfg.HopSpeedY}
		}

	case ShapeshifterHop:
		if s.trackFollow(inRange, dt) {
			return
		}
		if s.body.OnGround && s.body.Vel.Y >= 0 {
			s.state = ShapeshifterIdle
			s.hopTimer = s.cfg.HopInterval
			s.body.Vel.X = 0
		}

	case ShapeshifterMorphing, ShapeshifterUnmorphing:
		s.body.Vel.X = 0
		s.timer = entity.CountDown(s.timer, dt)
		v, _ := s.morph.Update(float32(dt))
		s.morphView = float64(v)
		growing := s.state == ShapeshifterMorphing
		if !s.swapped && s.timer <= s.cfg.MorphTime/2 {
			s.setLarge(growing)
			s.swapped = true
		}
		if s.timer > 0 {
			return
		}
		s.morph = nil
		if growing {
			s.state = ShapeshifterCharge
			s.timer = s.cfg.ChargeTime
			s.unmorphTimer = 0
			if ok {
				s.facingToward(t.Rect().Center().X)
			}
		} else {
			s.state = ShapeshifterIdle
			s.hopTimer = s.cfg.HopInterval
			s.followTimer = 0
		}

	case ShapeshifterCharge:
		s.body.Vel.X = 0
		if ok {
			s.facingToward(t.Rect().Center().X)
		}
		s.timer = entity.CountDown(s.timer, dt)
		if s.timer == 0 {
			s.state = ShapeshifterRun
		}

	case ShapeshifterRun:
		if s.trackUnmorph(ok, dist, dt) {
			return
		}
		s.body.Vel.X = entity.Approach(s.body.Vel.X, float64(s.body.Facing)*s.cfg.RunSpeed, s.cfg.RunAccel*dt)
		if ok && (t.Rect().Center().X-center.X)*float64(s.body.Facing) < -s.cfg.OvershootMargin {
			s.state = ShapeshifterSlide
		}

	case ShapeshifterSlide:
		if s.trackUnmorph(ok, dist, dt) {
			return
		}
		s.body.Vel.X = entity.Approach(s.body.Vel.X, 0, s.cfg.SlideDecel*dt)
		if s.body.Vel.X == 0 && s.turnCooldown == 0 {
			s.startTurn()
		}

	case ShapeshifterTurn:
		s.body.Vel.X = 0
		if s.trackUnmorph(ok, dist, dt) {
			return
		}
		s.timer = entity.CountDown(s.timer, dt)
		if s.timer == 0 {
			s.body.Facing = -s.body.Facing
			s.turnCooldown = s.cfg.TurnCooldown
			s.state = ShapeshifterRun
		}
	}
}

// trackFollow accumulates proximity time and starts morphing once it is long enough.
func (s *Shapeshifter) trackFollow(inRange bool, dt float64) bool {
	if !inRange {
		s.followTimer = 0
		return false
	}
	s.followTimer += dt
	if s.followTimer >= s.cfg.FollowTime {
		s.startMorph(true)
		return true
	}
	return false
}

// trackUnmorph accumulates time spent far from the target and reverts to small form.
func (s *Shapeshifter) trackUnmorph(ok bool, dist, dt float64) bool {
	if ok && dist <= s.cfg.SafeDistance {
		s.unmorphTimer = 0
		return false
	}
	s.unmorphTimer += dt
	if s.unmorphTimer >= s.cfg.UnmorphTime {
		s.startMorph(false)
		return true
	}
	return false
}

func (s *Shapeshifter) startMorph(grow bool) {
	s.state = ShapeshifterUnmorphing
	from, to := float32(1), float32(0)
	if grow {
		s.state = ShapeshifterMorphing
		from, to = 0, 1
	}
	s.timer = s.cfg.MorphTime
	s.swapped = false
	s.followTimer = 0
	s.unmorphTimer = 0
	s.body.Vel.X = 0
	s.morph = gween.New(from, to, float32(s.cfg.MorphTime), ease.InOutQuad)
	s.morphView = float64(from)
}

func (s *Shapeshifter) startTurn() {
	s.state = ShapeshifterTurn
	s.timer = s.cfg.TurnTime
	s.body.Vel.X = 0
}

// setLarge swaps size and form in one step, keeping the feet planted.
func (s *Shapeshifter) setLarge(large bool) {
	s.large = large
	if large {
		s.body.Resize(s.cfg.LargeWidth, s.cfg.LargeHeight)
	} else {
		s.body.Resize(s.cfg.SmallWidth, s.cfg.SmallHeight)
	}
}

func (s *Shapeshifter) OnCollision(c entity.Contact) {
	if s.state != ShapeshifterRun || c.WallDir == 0 || c.WallDir != s.body.Facing {
		return
	}
	if s.turnCooldown == 0 {
		s.startTurn()
		return
	}
	s.state = ShapeshifterSlide
	s.body.Vel.X = 0
}

func (s *Shapeshifter) TakeDamage(amount int) bool {
	if !s.Hurtable() || amount <= 0 {
		return false
	}
	s.health -= amount
	if s.health <= 0 {
		s.health = 0
		s.state = ShapeshifterDying
		s.timer = s.cfg.DeathTime
		s.morph = nil
		s.body.Vel.X = 0
		return true
	}
	if !s.large && (s.state == ShapeshifterIdle || s.state == ShapeshifterHop) {
		s.startMorph(true)
	}
	return true
}

func (s *Shapeshifter) Hurtable() bool {
	return s.active && s.state != ShapeshifterDying
}

func (s *Shapeshifter) AttackAreas() []entity.AttackArea {
	if !s.Hurtable() {
		return nil
	}
	dmg := s.cfg.SmallDamage
	if s.large {
		dmg = s.cfg.LargeDamage
	}
	return []entity.AttackArea{{Rect: s.body.Rect(), Damage: dmg}}
}

func (s *Shapeshifter) Projectiles() []*entity.Projectile { return nil }

func (s *Shapeshifter) Snapshot() entity.Snapshot {
	return s.snapshot(entity.KindShapeshifter, s.state.String(), s.timer)
}
