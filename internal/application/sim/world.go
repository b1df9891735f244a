// Package sim runs the per-frame simulation of one region: the player,
// its enemies and the combat between them, over static geometry.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/yohamta/donburi"
	donburiecs "github.com/yohamta/donburi/ecs"

	"github.com/younwookim/duskfall/internal/application/system"
	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/ecs"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

// ErrUnknownKind is returned when a spawn names a kind the world cannot build.
var ErrUnknownKind = errors.New("unknown entity kind")

// Config is everything a World is built from.
type Config struct {
	Physics  *config.PhysicsConfig
	Entities *config.EntitiesConfig
	Weapons  *entity.WeaponTable
	Seed     int64
}

// Snapshot is the pull-based view of one frame.
type Snapshot struct {
	Frame   uint64
	Region  string
	Player  entity.Snapshot
	Enemies []entity.Snapshot
}

// World owns the entity registry and advances it one frame at a time.
type World struct {
	cfg    Config
	region string
	stage  *entity.Stage
	spawn  entity.Vec2

	ecs      *donburiecs.ECS
	registry *ecs.Registry
	index    *system.SpatialIndex
	physics  *system.PhysicsSystem
	ctrl     *system.PlayerController
	combat   *system.CombatSystem
	rng      *rand.Rand
	env      enemy.Env

	// Per-frame inputs read by the systems
	input system.InputSnapshot
	dt    float64
	frame uint64

	// Event callbacks
	OnEnemyHit   func(id entity.EntityID, damage int)
	OnPlayerHurt func(damage int)
	OnEnemyGone  func(id entity.EntityID)
}

// NewWorld builds a world over stage and spawns its player and enemies.
func NewWorld(cfg Config, stage *entity.Stage) (*World, error) {
	if cfg.Physics == nil || cfg.Entities == nil || cfg.Weapons == nil {
		return nil, fmt.Errorf("failed to create world: incomplete config")
	}
	if stage == nil {
		return nil, fmt.Errorf("failed to create world: no stage")
	}

	index, err := system.NewSpatialIndex(stage.Walls(), stage.PixelBounds(), cfg.Physics.Collision.CellSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create world %s: %w", stage.Name, err)
	}

	w := &World{
		cfg:     cfg,
		region:  stage.Name,
		stage:   stage,
		spawn:   entity.Vec2{X: float64(stage.SpawnX), Y: float64(stage.SpawnY)},
		index:   index,
		physics: system.NewPhysicsSystem(cfg.Physics, index),
		ctrl:    system.NewPlayerController(cfg.Physics, cfg.Weapons),
		combat:  system.NewCombatSystem(cfg.Physics, cfg.Weapons, index),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
	w.reset()
	w.combat.OnEnemyHit = w.enemyHit
	w.combat.OnPlayerHurt = w.playerHurt
	w.env = enemy.Env{
		Lookup:  w.lookup,
		Blocked: index.Blocked,
		Rand:    w.rng,
	}

	if _, err := w.addPlayer(w.spawn); err != nil {
		return nil, fmt.Errorf("failed to create world %s: %w", stage.Name, err)
	}
	for _, s := range stage.Spawns {
		if _, err := w.SpawnEnemy(s); err != nil {
			return nil, fmt.Errorf("failed to create world %s: %w", stage.Name, err)
		}
	}
	return w, nil
}

// reset replaces the registry and system list with empty ones.
func (w *World) reset() {
	w.ecs = donburiecs.NewECS(donburi.NewWorld())
	w.registry = ecs.NewRegistry(w.ecs.World)

	w.ecs.AddSystem(w.updatePlayer)
	w.ecs.AddSystem(w.updateEnemies)
	w.ecs.AddSystem(w.resolveCombat)
	w.ecs.AddSystem(w.finalize)
}

// Step advances the simulation by dt seconds, clamped to the configured
// maximum. Non-positive or NaN deltas are ignored.
func (w *World) Step(in system.InputSnapshot, dt float64) {
	if !(dt > 0) {
		return
	}
	w.input = in
	w.dt = math.Min(dt, w.cfg.Physics.Physics.MaxDeltaTime)
	w.env.DT = w.dt
	w.ecs.Update()
	w.frame++
}

func (w *World) updatePlayer(_ *donburiecs.ECS) {
	p, ok := w.registry.Player()
	if !ok {
		return
	}
	p.BeginFrame()
	w.ctrl.Update(p, w.input, w.dt)
	w.physics.ApplyGravity(p, w.dt)
	contact := w.physics.Move(&p.Body, w.dt)
	w.ctrl.AfterCollision(p, contact)
	w.index.Move(p.ID, p.Rect())
}

func (w *World) updateEnemies(_ *donburiecs.ECS) {
	for _, e := range w.registry.Enemies() {
		if !e.Active() {
			continue
		}
		body := e.Body()
		body.BeginFrame()
		e.Update(&w.env)
		contact := w.physics.Move(body, w.dt)
		e.OnCollision(contact)
		w.index.Move(e.ID(), e.Hurtbox())
	}
}

func (w *World) resolveCombat(_ *donburiecs.ECS) {
	p, _ := w.registry.Player()
	w.combat.Update(p, w.registry)
}

func (w *World) finalize(_ *donburiecs.ECS) {
	if p, ok := w.registry.Player(); ok {
		w.ctrl.Finalize(p, w.input)
	}
	for _, e := range w.registry.Enemies() {
		if e.Active() {
			continue
		}
		id := e.ID()
		w.index.Untrack(id)
		w.registry.Remove(id)
		if w.OnEnemyGone != nil {
			w.OnEnemyGone(id)
		}
	}
}

// lookup resolves enemy targets. Only the live player can be targeted.
func (w *World) lookup(id entity.EntityID) (enemy.Target, bool) {
	if !w.registry.Valid(id) {
		return nil, false
	}
	p, ok := w.registry.Player()
	if !ok || p.ID != id {
		return nil, false
	}
	return p, true
}

func (w *World) enemyHit(id entity.EntityID, damage int) {
	if w.OnEnemyHit != nil {
		w.OnEnemyHit(id, damage)
	}
}

func (w *World) playerHurt(damage int) {
	if w.OnPlayerHurt != nil {
		w.OnPlayerHurt(damage)
	}
}

// addPlayer creates the player at pos and registers it. Contacts are
// resolved immediately so a jump on the first frame is a ground jump.
func (w *World) addPlayer(pos entity.Vec2) (*entity.Player, error) {
	pc := w.cfg.Entities.Player
	weapon := entity.WeaponID(pc.StartWeapon)
	if _, ok := w.cfg.Weapons.Get(weapon); !ok {
		weapon = w.cfg.Weapons.First()
	}

	p, err := entity.NewPlayer(pos.X, pos.Y, pc.Width, pc.Height, pc.MaxHealth, w.cfg.Physics.Climb.MaxStamina, weapon)
	if err != nil {
		return nil, err
	}
	p.MaxJumps = w.cfg.Physics.Jump.MaxJumps
	p.WavedashUnlocked = pc.WavedashUnlocked

	if old, ok := w.registry.Player(); ok {
		w.index.Untrack(old.ID)
	}
	w.registry.AddPlayer(p)
	if w.physics.Resolve(&p.Body).Ground {
		p.CoyoteTimer = w.cfg.Physics.Jump.CoyoteTime
	}
	w.index.Track(p.ID, p.Rect())
	return p, nil
}

// SpawnEnemy instantiates one spawn-feed entry aimed at the player.
func (w *World) SpawnEnemy(s entity.Spawn) (entity.EntityID, error) {
	e, err := w.spawnAt(s, s.Pos)
	if err != nil {
		return 0, err
	}
	return e.ID(), nil
}

// spawnAt builds the enemy described by s at pos and registers it.
func (w *World) spawnAt(s entity.Spawn, pos entity.Vec2) (enemy.Enemy, error) {
	var target entity.EntityID
	if p, ok := w.registry.Player(); ok {
		target = p.ID
	}

	e, err := w.newEnemy(s.Kind, pos, s.Health, target)
	if err != nil {
		return nil, err
	}
	id := w.registry.AddEnemy(e, ecs.SpawnData{Kind: s.Kind, Pos: s.Pos, Health: s.Health})
	w.physics.Resolve(e.Body())
	w.index.Track(id, e.Hurtbox())
	return e, nil
}

func (w *World) newEnemy(kind entity.Kind, pos entity.Vec2, health int, target entity.EntityID) (enemy.Enemy, error) {
	cfg := w.cfg.Entities.Enemies
	var (
		e   enemy.Enemy
		err error
	)
	switch kind {
	case entity.KindFlyer:
		var f *enemy.Flyer
		f, err = enemy.NewFlyer(cfg.Flyer, pos, health, target)
		e = f
	case entity.KindShapeshifter:
		var sh *enemy.Shapeshifter
		sh, err = enemy.NewShapeshifter(cfg.Shapeshifter, pos, health, target)
		e = sh
	case entity.KindBoss:
		var b *enemy.Boss
		b, err = enemy.NewBoss(cfg.Boss, pos, health, target)
		e = b
	default:
		return nil, fmt.Errorf("failed to spawn %s: %w", kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to spawn %s: %w", kind, err)
	}
	return e, nil
}

// Player returns the live player, or nil.
func (w *World) Player() *entity.Player {
	p, _ := w.registry.Player()
	return p
}

// Enemy resolves an enemy handle.
func (w *World) Enemy(id entity.EntityID) (enemy.Enemy, bool) {
	return w.registry.Enemy(id)
}

// Enemies returns every enemy still in the registry, ordered by handle.
func (w *World) Enemies() []enemy.Enemy {
	return w.registry.Enemies()
}

// Walls returns the region's static geometry.
func (w *World) Walls() []entity.Wall {
	return w.index.Walls()
}

// Bounds returns the region size in world units.
func (w *World) Bounds() entity.Vec2 {
	return w.stage.PixelBounds()
}

// Region returns the loaded region name.
func (w *World) Region() string {
	return w.region
}

// Frame returns the number of steps taken.
func (w *World) Frame() uint64 {
	return w.frame
}

// Snapshot pulls the renderer/persistence view of the current frame.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{Frame: w.frame, Region: w.region}
	if p, ok := w.registry.Player(); ok {
		s.Player = p.Snapshot()
	}
	for _, e := range w.registry.Enemies() {
		s.Enemies = append(s.Enemies, e.Snapshot())
	}
	return s
}

// Respawn puts the player back at the region spawn with full health.
// Enemies keep their state.
func (w *World) Respawn() error {
	p, err := w.addPlayer(w.spawn)
	if err != nil {
		return fmt.Errorf("failed to respawn: %w", err)
	}
	w.retarget(p.ID)
	return nil
}

// retarget points every enemy at id.
func (w *World) retarget(id entity.EntityID) {
	type targeter interface {
		SetTarget(entity.EntityID)
	}
	for _, e := range w.registry.Enemies() {
		if t, ok := e.(targeter); ok {
			t.SetTarget(id)
		}
	}
}
