package enemy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// BossState is the boss encounter phase
type BossState int

const (
	BossInactive BossState = iota
	BossAppearing
	BossIdle
	BossCastFireball
	BossLaserCharge
	BossLaserFire
	BossVulnerable
	BossAoeAttack
	BossTeleportOut
	BossTeleportIn
	BossDying
)

var bossStateNames = [...]string{
	BossInactive:     "inactive",
	BossAppearing:    "appearing",
	BossIdle:         "idle",
	BossCastFireball: "cast_fireball",
	BossLaserCharge:  "laser_charge",
	BossLaserFire:    "laser_fire",
	BossVulnerable:   "vulnerable",
	BossAoeAttack:    "aoe_attack",
	BossTeleportOut:  "teleport_out",
	BossTeleportIn:   "teleport_in",
	BossDying:        "dying",
}

func (s BossState) String() string {
	if int(s) >= 0 && int(s) < len(bossStateNames) {
		return bossStateNames[s]
	}
	return "unknown"
}

// BossConfig tunes the boss encounter.
type BossConfig struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Health        int     `json:"health"`
	ContactDamage int     `json:"contactDamage"`

	ActivationDistance float64 `json:"activationDistance"`
	AppearTime         float64 `json:"appearTime"`

	AttackInterval    float64 `json:"attackInterval"`
	PreferredDistance float64 `json:"preferredDistance"`
	DistanceThreshold float64 `json:"distanceThreshold"`
	MoveSpeed         float64 `json:"moveSpeed"`

	FireballChance        float64 `json:"fireballChance"`
	EnragedFireballChance float64 `json:"enragedFireballChance"`

	FireballCount    int     `json:"fireballCount"`
	FireballInterval float64 `json:"fireballInterval"`
	FireballSpeed    float64 `json:"fireballSpeed"`
	FireballSize     float64 `json:"fireballSize"`
	FireballLifetime float64 `json:"fireballLifetime"`
	FireballRange    float64 `json:"fireballRange"`
	FireballDamage   int     `json:"fireballDamage"`
	MaxFireballs     int     `json:"maxFireballs"`

	LaserChargeTime  float64 `json:"laserChargeTime"`
	LaserFireTime    float64 `json:"laserFireTime"`
	LaserChargeTrack float64 `json:"laserChargeTrack"` // radians per second
	LaserFireTrack   float64 `json:"laserFireTrack"`
	LaserLength      float64 `json:"laserLength"`
	LaserWidth       float64 `json:"laserWidth"`
	LaserDamage      int     `json:"laserDamage"`

	VulnerableTime      float64 `json:"vulnerableTime"`
	VulnerableDamageMul float64 `json:"vulnerableDamageMul"`

	AoeWarningTime float64 `json:"aoeWarningTime"`
	AoeRadius      float64 `json:"aoeRadius"`
	AoeDamage      int     `json:"aoeDamage"`

	TeleportOutTime       float64 `json:"teleportOutTime"`
	TeleportInTime        float64 `json:"teleportInTime"`
	TeleportMinDist       float64 `json:"teleportMinDist"`
	TeleportMaxDist       float64 `json:"teleportMaxDist"`
	TeleportMinTargetDist float64 `json:"teleportMinTargetDist"`
	TeleportAttempts      int     `json:"teleportAttempts"`

	EnrageThreshold float64 `json:"enrageThreshold"` // health fraction
	EnrageSpeedMul  float64 `json:"enrageSpeedMul"`

	DeathTime float64 `json:"deathTime"`
}

// Boss is a floating caster with a fireball/laser rotation and an enrage phase.
type Boss struct {
	base
	cfg BossConfig

	state          BossState
	timer          float64
	attackTimer    float64
	enraged        bool
	enragedAttacks int

	volleyLeft  int
	volleyTimer float64
	fireballs   []*entity.Projectile

	laserAngle float64
	beamLength float64

	aoe         *gween.Tween
	aoeCenter   entity.Vec2
	aoeRadius   float64
	aoeDetonate bool
}

// NewBoss creates an inactive boss.
func NewBoss(cfg BossConfig, pos entity.Vec2, health int, target entity.EntityID) (*Boss, error) {
	if health <= 0 {
		health = cfg.Health
	}
	b, err := newBase(pos, entity.Vec2{X: cfg.Width, Y: cfg.Height}, health, target)
	if err != nil {
		return nil, err
	}
	return &Boss{base: b, cfg: cfg, beamLength: cfg.LaserLength}, nil
}

func (b *Boss) Kind() entity.Kind { return entity.KindBoss }

func (b *Boss) State() BossState                  { return b.state }
func (b *Boss) Enraged() bool                     { return b.enraged }
func (b *Boss) LaserAngle() float64               { return b.laserAngle }
func (b *Boss) AoeRadius() float64                { return b.aoeRadius }
func (b *Boss) Projectiles() []*entity.Projectile { return b.fireballs }

// speedMul is the cadence multiplier, above 1 once enraged.
func (b *Boss) speedMul() float64 {
	if b.enraged && b.cfg.EnrageSpeedMul > 0 {
		return b.cfg.EnrageSpeedMul
	}
	return 1
}

// AttackInterval is the idle time between attacks at the current cadence.
func (b *Boss) AttackInterval() float64 { return b.cfg.AttackInterval / b.speedMul() }

// FireballInterval is the spacing between volley shots at the current cadence.
func (b *Boss) FireballInterval() float64 { return b.cfg.FireballInterval / b.speedMul() }

// LaserChargeTime is the laser wind-up at the current cadence.
func (b *Boss) LaserChargeTime() float64 { return b.cfg.LaserChargeTime / b.speedMul() }

func (b *Boss) checkEnrage() {
	if b.enraged || b.maxHealth <= 0 {
		return
	}
	if float64(b.health)/float64(b.maxHealth) < b.cfg.EnrageThreshold {
		b.enraged = true
	}
}

func (b *Boss) Update(env *Env) {
	if !b.active {
		return
	}
	dt := env.DT
	for _, p := range b.fireballs {
		p.Update(dt)
	}
	b.fireballs = entity.PruneProjectiles(b.fireballs)
	b.aoeDetonate = false
	b.checkEnrage()

	if b.state == BossDying {
		b.body.Vel = entity.Vec2{}
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.active = false
		}
		return
	}

	center := b.body.Center()
	t, ok := env.target(b.target)
	var aim entity.Vec2
	if ok {
		aim = t.Rect().Center()
	}

	switch b.state {
	case BossInactive:
		b.body.Vel = entity.Vec2{}
		if ok && center.Dist(aim) <= b.cfg.ActivationDistance {
			b.state = BossAppearing
			b.timer = b.cfg.AppearTime
		}

	case BossAppearing:
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.enterIdle()
		}

	case BossIdle:
		b.body.Vel = entity.Vec2{}
		if !ok {
			return
		}
		b.facingToward(aim.X)
		dx := aim.X - center.X
		switch gap := math.Abs(dx); {
		case gap > b.cfg.PreferredDistance+b.cfg.DistanceThreshold:
			b.body.Vel.X = entity.Sign(dx) * b.cfg.MoveSpeed
		case gap < b.cfg.PreferredDistance-b.cfg.DistanceThreshold:
			b.body.Vel.X = -entity.Sign(dx) * b.cfg.MoveSpeed
		}
		b.attackTimer = entity.CountDown(b.attackTimer, dt)
		if b.attackTimer == 0 {
			b.chooseAttack(env, aim)
		}

	case BossCastFireball:
		b.body.Vel = entity.Vec2{}
		if !ok {
			b.enterIdle()
			return
		}
		b.volleyTimer = entity.CountDown(b.volleyTimer, dt)
		if b.volleyTimer > 0 {
			return
		}
		if b.volleyLeft == 0 {
			b.enterIdle()
			return
		}
		b.fire(center, aim, t.Velocity())
		b.volleyLeft--
		b.volleyTimer = b.FireballInterval()

	case BossLaserCharge:
		b.body.Vel = entity.Vec2{}
		if !ok {
			b.enterIdle()
			return
		}
		b.track(center, aim, b.cfg.LaserChargeTrack, dt)
		b.beamLength = b.traceBeam(env, center)
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.state = BossLaserFire
			b.timer = b.cfg.LaserFireTime
		}

	case BossLaserFire:
		b.body.Vel = entity.Vec2{}
		if ok {
			b.track(center, aim, b.cfg.LaserFireTrack, dt)
		}
		b.beamLength = b.traceBeam(env, center)
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.state = BossVulnerable
			b.timer = b.cfg.VulnerableTime
		}

	case BossVulnerable:
		b.body.Vel = entity.Vec2{}
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.state = BossAoeAttack
			b.aoeCenter = center
			b.aoeRadius = 0
			b.aoe = gween.New(0, float32(b.cfg.AoeRadius), float32(b.cfg.AoeWarningTime), ease.OutCubic)
		}

	case BossAoeAttack:
		b.body.Vel = entity.Vec2{}
		r, done := b.aoe.Update(float32(dt))
		b.aoeRadius = float64(r)
		if done {
			b.aoeDetonate = true
			b.aoe = nil
			b.state = BossTeleportOut
			b.timer = b.cfg.TeleportOutTime
		}

	case BossTeleportOut:
		b.body.Vel = entity.Vec2{}
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.teleport(env, aim, ok)
			b.state = BossTeleportIn
			b.timer = b.cfg.TeleportInTime
		}

	case BossTeleportIn:
		b.timer = entity.CountDown(b.timer, dt)
		if b.timer == 0 {
			b.enterIdle()
		}
	}
}

func (b *Boss) enterIdle() {
	b.state = BossIdle
	b.attackTimer = b.AttackInterval()
	b.volleyLeft = 0
	b.aoeRadius = 0
}

// chooseAttack picks fireball or laser. Every third enraged attack is a fireball.
func (b *Boss) chooseAttack(env *Env, aim entity.Vec2) {
	fireball := false
	if b.enraged {
		b.enragedAttacks++
		fireball = b.enragedAttacks%3 == 0
	}
	if !fireball {
		chance := b.cfg.FireballChance
		if b.enraged {
			chance = b.cfg.EnragedFireballChance
		}
		fireball = env.float64() < chance
	}

	if fireball {
		b.state = BossCastFireball
		b.volleyLeft = b.cfg.FireballCount
		b.volleyTimer = 0
		return
	}
	center := b.body.Center()
	b.laserAngle = math.Atan2(aim.Y-center.Y, aim.X-center.X)
	b.state = BossLaserCharge
	b.timer = b.LaserChargeTime()
}

// fire spawns one fireball led toward where the target will be. Dropped at the cap.
func (b *Boss) fire(from, aim, targetVel entity.Vec2) {
	if len(b.fireballs) >= b.cfg.MaxFireballs {
		return
	}
	lead := 0.0
	if b.cfg.FireballSpeed > 0 {
		lead = from.Dist(aim) / b.cfg.FireballSpeed
	}
	dir := aim.Add(targetVel.Scale(lead)).Sub(from)
	if dir == (entity.Vec2{}) {
		dir = entity.Vec2{X: float64(b.body.Facing)}
	}
	b.fireballs = append(b.fireballs, entity.NewProjectile(from, dir, b.cfg.FireballSpeed,
		b.cfg.FireballSize, b.cfg.FireballLifetime, b.cfg.FireballRange, b.cfg.FireballDamage))
}

// track rotates the laser toward the target by at most rate*dt.
func (b *Boss) track(from, aim entity.Vec2, rate, dt float64) {
	want := math.Atan2(aim.Y-from.Y, aim.X-from.X)
	diff := math.Remainder(want-b.laserAngle, 2*math.Pi)
	step := rate * dt
	b.laserAngle += entity.Clamp(diff, -step, step)
}

// traceBeam returns the laser length up to the first collidable wall.
func (b *Boss) traceBeam(env *Env, from entity.Vec2) float64 {
	dir := entity.Vec2{X: math.Cos(b.laserAngle), Y: math.Sin(b.laserAngle)}
	step := math.Max(b.cfg.LaserWidth, 1)
	for d := step; d < b.cfg.LaserLength; d += step {
		if env.blocked(entity.RectAround(from.Add(dir.Scale(d)), step, step)) {
			return d
		}
	}
	return b.cfg.LaserLength
}

// teleport samples nearby positions away from walls and the target; stays put on failure.
func (b *Boss) teleport(env *Env, aim entity.Vec2, hasTarget bool) bool {
	center := b.body.Center()
	for i := 0; i < b.cfg.TeleportAttempts; i++ {
		angle := env.float64() * 2 * math.Pi
		dist := b.cfg.TeleportMinDist + env.float64()*(b.cfg.TeleportMaxDist-b.cfg.TeleportMinDist)
		cand := center.Add(entity.Vec2{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist})
		r := entity.RectAround(cand, b.body.Size.X, b.body.Size.Y)
		if env.blocked(r) {
			continue
		}
		if hasTarget && cand.Dist(aim) < b.cfg.TeleportMinTargetDist {
			continue
		}
		b.body.Pos = entity.Vec2{X: r.X, Y: r.Y}
		return true
	}
	return false
}

func (b *Boss) OnCollision(entity.Contact) {}

func (b *Boss) TakeDamage(amount int) bool {
	if !b.Hurtable() || amount <= 0 {
		return false
	}
	if b.state == BossVulnerable && b.cfg.VulnerableDamageMul > 0 {
		amount = int(math.Round(float64(amount) * b.cfg.VulnerableDamageMul))
	}
	b.health -= amount
	b.checkEnrage()
	if b.health <= 0 {
		b.health = 0
		b.die()
	}
	return true
}

// die cancels every phase and kills in-flight projectiles.
func (b *Boss) die() {
	b.state = BossDying
	b.timer = b.cfg.DeathTime
	b.body.Vel = entity.Vec2{}
	for _, p := range b.fireballs {
		p.Deactivate()
	}
	b.fireballs = nil
	b.volleyLeft = 0
	b.aoe = nil
	b.aoeRadius = 0
	b.aoeDetonate = false
}

func (b *Boss) Hurtable() bool {
	if !b.active {
		return false
	}
	switch b.state {
	case BossInactive, BossAppearing, BossTeleportOut, BossTeleportIn, BossDying:
		return false
	}
	return true
}

func (b *Boss) AttackAreas() []entity.AttackArea {
	if !b.active || b.state == BossDying {
		return nil
	}
	var areas []entity.AttackArea
	if b.Hurtable() {
		areas = append(areas, entity.AttackArea{Rect: b.body.Rect(), Damage: b.cfg.ContactDamage})
	}
	for _, p := range b.fireballs {
		if p.Active {
			areas = append(areas, entity.AttackArea{Rect: p.Rect(), Damage: p.Damage, Projectile: p})
		}
	}
	if b.state == BossLaserFire {
		areas = append(areas, b.beamAreas()...)
	}
	if b.aoeDetonate {
		r := b.cfg.AoeRadius
		areas = append(areas, entity.AttackArea{
			Rect:   entity.RectAround(b.aoeCenter, 2*r, 2*r),
			Circle: true,
			Center: b.aoeCenter,
			Radius: r,
			Damage: b.cfg.AoeDamage,
		})
	}
	return areas
}

// beamAreas samples the laser as squares along its length.
func (b *Boss) beamAreas() []entity.AttackArea {
	from := b.body.Center()
	dir := entity.Vec2{X: math.Cos(b.laserAngle), Y: math.Sin(b.laserAngle)}
	w := math.Max(b.cfg.LaserWidth, 1)
	var areas []entity.AttackArea
	for d := w / 2; d < b.beamLength; d += w {
		areas = append(areas, entity.AttackArea{
			Rect:   entity.RectAround(from.Add(dir.Scale(d)), w, w),
			Damage: b.cfg.LaserDamage,
		})
	}
	return areas
}

func (b *Boss) Snapshot() entity.Snapshot {
	s := b.snapshot(entity.KindBoss, b.state.String(), b.timer)
	for _, p := range b.fireballs {
		s.Projectiles = append(s.Projectiles, p.Rect())
	}
	s.Attacks = b.AttackAreas()
	return s
}
