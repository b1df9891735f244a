package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

var swing = InputSnapshot{AttackPressed: true}

func TestCombatSystem_Damage(t *testing.T) {
	cs := NewCombatSystem(createTestPhysicsConfig(), createTestWeapons(t), nil)
	sword := entity.Weapon{ID: "sword", Damage: 10}

	tests := []struct {
		tier int
		want int
	}{
		{0, 10},
		{1, 15},
		{2, 20},
		{7, 10}, // unknown tier is neutral
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cs.Damage(sword, tt.tier), "tier %d", tt.tier)
	}
}

func TestCombatSystem_PlayerSwing(t *testing.T) {
	t.Run("hits each target once per swing", func(t *testing.T) {
		r := newRig(t, floorWalls())
		target := newFakeEnemy(10, entity.Rect{X: 114, Y: 180, W: 16, H: 16})
		r.roster.add(target)

		var events []int
		r.combat.OnEnemyHit = func(id entity.EntityID, damage int) {
			assert.Equal(t, entity.EntityID(10), id)
			events = append(events, damage)
		}

		r.step(swing)
		require.Equal(t, []int{10}, target.hits)

		for r.player.Attacking {
			r.step(InputSnapshot{})
		}
		assert.Equal(t, []int{10}, target.hits, "overlap on later frames is ignored")

		for r.player.AttackCooldown > 0 {
			r.step(InputSnapshot{})
		}
		require.Greater(t, r.player.ComboWindow, 0.0)
		r.step(swing)
		assert.Equal(t, []int{10, 15}, target.hits, "a new swing may hit again")
		assert.Equal(t, []int{10, 15}, events)
	})

	t.Run("side hit recoils away from the target", func(t *testing.T) {
		r := newRig(t, floorWalls())
		r.roster.add(newFakeEnemy(10, entity.Rect{X: 114, Y: 180, W: 16, H: 16}))

		r.step(swing)
		assert.Equal(t, -r.cfg.Combat.RecoilSpeed, r.player.Vel.X)
		assert.Equal(t, r.cfg.Combat.RecoilDuration, r.player.RecoilTimer)
	})

	t.Run("down hit pogos", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		p.Pos = entity.Vec2{X: 100, Y: 100}
		p.Vel = entity.Vec2{}
		p.OnGround = false
		p.JumpCount = 2
		p.CanDash = false

		target := newFakeEnemy(10, entity.Rect{X: 98, Y: 130, W: 16, H: 16})
		r.roster.add(target)

		r.step(InputSnapshot{Down: true, AttackPressed: true})
		require.Len(t, target.hits, 1)
		assert.Equal(t, entity.AttackDown, p.AttackDir)
		assert.Equal(t, -r.cfg.Combat.PogoImpulse, p.Vel.Y)
		assert.Zero(t, p.JumpCount)
		assert.True(t, p.CanDash)
		assert.True(t, p.PogoJump)

		// Releasing jump does not cut a pogo
		r.step(InputSnapshot{})
		assert.Less(t, p.Vel.Y, -250.0)
	})

	t.Run("ignores targets that cannot be hurt", func(t *testing.T) {
		r := newRig(t, floorWalls())
		target := newFakeEnemy(10, entity.Rect{X: 114, Y: 180, W: 16, H: 16})
		target.hurtable = false
		r.roster.add(target)

		r.step(swing)
		assert.Empty(t, target.hits)
		assert.Zero(t, r.player.Vel.X)
		assert.Zero(t, r.player.HitCount())
	})

	t.Run("ignores targets outside the hitbox", func(t *testing.T) {
		r := newRig(t, floorWalls())
		target := newFakeEnemy(10, entity.Rect{X: 200, Y: 180, W: 16, H: 16})
		r.roster.add(target)

		r.step(swing)
		assert.Empty(t, target.hits)
	})
}

func TestCombatSystem_EnemyAttacks(t *testing.T) {
	t.Run("hurts with iframes and knockback", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		source := newFakeEnemy(10, entity.Rect{X: 400, Y: 0, W: 16, H: 16})
		source.areas = []entity.AttackArea{{Rect: entity.Rect{X: 0, Y: 100, W: 300, H: 100}, Damage: 1}}
		r.roster.add(source)

		var hurt []int
		r.combat.OnPlayerHurt = func(damage int) { hurt = append(hurt, damage) }

		r.step(InputSnapshot{})
		require.Equal(t, 4, p.Health)
		assert.Equal(t, r.cfg.Combat.Iframes, p.InvincibleTimer)
		assert.Equal(t, -r.cfg.Combat.Knockback.Force, p.Vel.X, "pushed away from the area center")
		assert.Equal(t, -r.cfg.Combat.Knockback.UpForce, p.Vel.Y)

		r.stepN(30, InputSnapshot{})
		assert.Equal(t, 4, p.Health, "invincible")

		r.stepN(40, InputSnapshot{})
		assert.Equal(t, 3, p.Health)
		assert.Equal(t, []int{1, 1}, hurt)
	})

	t.Run("lethal hit", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		p.Health = 1
		source := newFakeEnemy(10, entity.Rect{X: 400, Y: 0, W: 16, H: 16})
		source.areas = []entity.AttackArea{{Rect: p.Rect(), Damage: 3}}
		r.roster.add(source)

		r.step(InputSnapshot{})
		assert.True(t, p.Dead)
		assert.Zero(t, p.Health)
		assert.Equal(t, entity.Vec2{}, p.Vel)
	})

	t.Run("projectile dies on hit", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		shot := entity.NewProjectile(p.Center(), entity.Vec2{X: 1}, 0, 8, 0, 0, 1)
		source := newFakeEnemy(10, entity.Rect{X: 400, Y: 0, W: 16, H: 16})
		source.areas = []entity.AttackArea{{Rect: shot.Rect(), Damage: shot.Damage, Projectile: shot}}
		source.shots = []*entity.Projectile{shot}
		r.roster.add(source)

		r.step(InputSnapshot{})
		assert.Equal(t, 4, p.Health)
		assert.False(t, shot.Active)
	})
}

func TestCombatSystem_ProjectilesVsWalls(t *testing.T) {
	r := newRig(t, floorWalls())
	buried := entity.NewProjectile(entity.Vec2{X: 300, Y: 205}, entity.Vec2{X: 1}, 0, 4, 0, 0, 1)
	flying := entity.NewProjectile(entity.Vec2{X: 300, Y: 100}, entity.Vec2{X: 1}, 0, 4, 0, 0, 1)
	source := newFakeEnemy(10, entity.Rect{X: 400, Y: 0, W: 16, H: 16})
	source.shots = []*entity.Projectile{buried, flying}
	r.roster.add(source)

	r.step(InputSnapshot{})
	assert.False(t, buried.Active)
	assert.True(t, flying.Active)
}

func TestCombatSystem_Hazards(t *testing.T) {
	spikes := entity.Wall{Rect: entity.Rect{X: 96, Y: 192, W: 16, H: 8}, Damaging: true}
	r := newRig(t, append(floorWalls(), spikes))
	p := r.player

	// Settling already touched the spikes once
	require.Equal(t, 4, p.Health)
	assert.Zero(t, p.InvincibleTimer, "hazards do not grant iframes")

	r.stepN(10, InputSnapshot{})
	assert.Equal(t, 4, p.Health, "hazard cooldown")

	r.stepN(40, InputSnapshot{})
	assert.Equal(t, 3, p.Health)
}

func TestTouches(t *testing.T) {
	spike := entity.Rect{X: 0, Y: 100, W: 16, H: 16}

	tests := []struct {
		name string
		r    entity.Rect
		want bool
	}{
		{"overlapping", entity.Rect{X: 4, Y: 90, W: 8, H: 20}, true},
		{"standing on top", entity.Rect{X: 4, Y: 76, W: 8, H: 24}, true},
		{"above", entity.Rect{X: 4, Y: 70, W: 8, H: 24}, false},
		{"beside", entity.Rect{X: 16, Y: 100, W: 8, H: 16}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, touches(tt.r, spike))
		})
	}
}
