package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

const (
	testDT     = 1.0 / 60.0
	floorY     = 200.0
	testPlayer = entity.EntityID(1)
)

func createTestPhysicsConfig() *config.PhysicsConfig {
	return &config.PhysicsConfig{
		Physics: config.PhysicsSettings{
			Gravity:      900,
			MaxFallSpeed: 400,
			MaxDeltaTime: 0.05,
		},
		Movement: config.MovementConfig{
			MaxSpeed:        120,
			GroundAccel:     1200,
			GroundDecel:     1500,
			GroundTurnAccel: 2400,
			GroundDrag:      600,
			AirAccel:        800,
			AirDecel:        400,
			AirTurnAccel:    1200,
			AirDrag:         200,
		},
		Jump: config.JumpConfig{
			Force:           300,
			DoubleJumpForce: 260,
			CutSpeed:        120,
			CoyoteTime:      0.1,
			JumpBuffer:      0.1,
			MaxJumps:        2,
			WallJumpSpeed:   150,
			WallJumpLock:    0.15,
		},
		Dash: config.DashConfig{
			Speed:         300,
			Duration:      0.15,
			Cooldown:      0.3,
			EndDamp:       0.5,
			WavedashBoost: 1.2,
		},
		Climb: config.ClimbConfig{
			ClimbSpeed: 60,
			SlideSpeed: 40,
			MaxStamina: 100,
			ClimbDrain: 30,
			SlideDrain: 10,
			RegenRate:  50,
			RegenDelay: 0.5,
		},
		Attack: config.AttackConfig{
			ComboWindow: 0.3,
			Tiers: []config.ComboTier{
				{Reach: 1, Duration: 1, Cooldown: 0.1, Damage: 1},
				{Reach: 1, Duration: 1, Cooldown: 0.1, Damage: 1.5},
				{Reach: 1.25, Duration: 1.2, Cooldown: 0.2, Damage: 2},
			},
		},
		Collision: config.CollisionConfig{
			StepHeight:      6,
			StepMaxVY:       50,
			GroundTolerance: 4,
			WallProbe:       1,
			CellSize:        32,
		},
		Combat: config.CombatConfig{
			Iframes:        1,
			Knockback:      config.KnockbackConfig{Force: 150, UpForce: 120},
			PogoImpulse:    280,
			RecoilSpeed:    100,
			RecoilDuration: 0.1,
			HazardDamage:   1,
			HazardCooldown: 0.5,
		},
	}
}

func createTestWeapons(t *testing.T) *entity.WeaponTable {
	t.Helper()
	table, err := entity.NewWeaponTable([]entity.Weapon{
		{ID: "sword", Name: "Sword", Damage: 10, Reach: entity.Vec2{X: 24, Y: 16}, Duration: 0.2, Cooldown: 1},
		{ID: "spear", Name: "Spear", Damage: 8, Reach: entity.Vec2{X: 40, Y: 8}, Duration: 0.25, Cooldown: 1.2},
	})
	require.NoError(t, err)
	return table
}

func solid(x, y, w, h float64) entity.Wall {
	return entity.Wall{Rect: entity.Rect{X: x, Y: y, W: w, H: h}, Collidable: true}
}

func floorWalls() []entity.Wall {
	return []entity.Wall{solid(0, floorY, 640, 16)}
}

func createTestIndex(t *testing.T, walls []entity.Wall) *SpatialIndex {
	t.Helper()
	idx, err := NewSpatialIndex(walls, entity.Vec2{X: 640, Y: 240}, 32)
	require.NoError(t, err)
	return idx
}

// rig runs the player half of a frame in the same order as the world.
type rig struct {
	cfg     *config.PhysicsConfig
	index   *SpatialIndex
	physics *PhysicsSystem
	ctrl    *PlayerController
	combat  *CombatSystem
	player  *entity.Player
	roster  *fakeRoster
}

func newRig(t *testing.T, walls []entity.Wall) *rig {
	t.Helper()
	cfg := createTestPhysicsConfig()
	weapons := createTestWeapons(t)
	idx := createTestIndex(t, walls)

	// 12x24 player standing on the floor
	player, err := entity.NewPlayer(100, floorY-24, 12, 24, 5, cfg.Climb.MaxStamina, "sword")
	require.NoError(t, err)
	player.ID = testPlayer
	player.MaxJumps = cfg.Jump.MaxJumps

	r := &rig{
		cfg:     cfg,
		index:   idx,
		physics: NewPhysicsSystem(cfg, idx),
		ctrl:    NewPlayerController(cfg, weapons),
		combat:  NewCombatSystem(cfg, weapons, idx),
		player:  player,
		roster:  newFakeRoster(),
	}
	r.settle()
	return r
}

// settle runs idle frames until the player rests on the ground.
func (r *rig) settle() {
	for i := 0; i < 5; i++ {
		r.step(InputSnapshot{})
	}
}

func (r *rig) step(in InputSnapshot) entity.Contact {
	p := r.player
	p.BeginFrame()
	r.ctrl.Update(p, in, testDT)
	r.physics.ApplyGravity(p, testDT)
	contact := r.physics.Move(&p.Body, testDT)
	r.ctrl.AfterCollision(p, contact)
	r.index.Move(p.ID, p.Rect())
	for _, e := range r.roster.list {
		r.index.Move(e.ID(), e.Hurtbox())
	}
	r.combat.Update(p, r.roster)
	r.ctrl.Finalize(p, in)
	return contact
}

func (r *rig) stepN(n int, in InputSnapshot) {
	for i := 0; i < n; i++ {
		r.step(in)
	}
}

// fakeEnemy is a stationary hurtbox that records damage.
type fakeEnemy struct {
	id       entity.EntityID
	body     entity.Body
	health   int
	hits     []int
	hurtable bool
	areas    []entity.AttackArea
	shots    []*entity.Projectile
}

func newFakeEnemy(id entity.EntityID, r entity.Rect) *fakeEnemy {
	body, _ := entity.NewBody(r.X, r.Y, r.W, r.H)
	return &fakeEnemy{id: id, body: body, health: 100, hurtable: true}
}

func (f *fakeEnemy) ID() entity.EntityID               { return f.id }
func (f *fakeEnemy) SetID(id entity.EntityID)          { f.id = id }
func (f *fakeEnemy) Kind() entity.Kind                 { return entity.KindFlyer }
func (f *fakeEnemy) Body() *entity.Body                { return &f.body }
func (f *fakeEnemy) Update(*enemy.Env)                 {}
func (f *fakeEnemy) OnCollision(entity.Contact)        {}
func (f *fakeEnemy) Hurtbox() entity.Rect              { return f.body.Rect() }
func (f *fakeEnemy) Hurtable() bool                    { return f.hurtable && f.health > 0 }
func (f *fakeEnemy) AttackAreas() []entity.AttackArea  { return f.areas }
func (f *fakeEnemy) Projectiles() []*entity.Projectile { return f.shots }
func (f *fakeEnemy) Active() bool                      { return true }
func (f *fakeEnemy) Snapshot() entity.Snapshot         { return entity.Snapshot{ID: f.id} }

func (f *fakeEnemy) TakeDamage(amount int) bool {
	if !f.Hurtable() {
		return false
	}
	f.health -= amount
	f.hits = append(f.hits, amount)
	return true
}

type fakeRoster struct {
	byID map[entity.EntityID]enemy.Enemy
	list []enemy.Enemy
}

func newFakeRoster(enemies ...enemy.Enemy) *fakeRoster {
	r := &fakeRoster{byID: make(map[entity.EntityID]enemy.Enemy)}
	for _, e := range enemies {
		r.add(e)
	}
	return r
}

func (r *fakeRoster) add(e enemy.Enemy) {
	r.byID[e.ID()] = e
	r.list = append(r.list, e)
}

func (r *fakeRoster) Enemy(id entity.EntityID) (enemy.Enemy, bool) {
	e, ok := r.byID[id]
	return e, ok
}

func (r *fakeRoster) Enemies() []enemy.Enemy { return r.list }
