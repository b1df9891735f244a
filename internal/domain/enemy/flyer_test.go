package enemy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

func testFlyerConfig() FlyerConfig {
	return FlyerConfig{
		Width:             10,
		Height:            10,
		Health:            30,
		ContactDamage:     1,
		PatrolRadius:      20,
		PatrolSpeed:       2,
		PatrolFollow:      4,
		DetectionRange:    100,
		TelegraphTime:     0.5,
		ChargeSpeed:       200,
		MaxChargeDistance: 150,
		RecoverRise:       20,
		RecoverTime:       0.5,
		StunTime:          0.3,
		StunGravity:       500,
		AttackCooldown:    1,
		DeathTime:         0.4,
	}
}

func newTestFlyer(t *testing.T) *Flyer {
	t.Helper()
	f, err := NewFlyer(testFlyerConfig(), entity.Vec2{}, 0, testTargetID)
	require.NoError(t, err)
	return f
}

func TestFlyer_DetectsTargetAtRangeBoundary(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		want   FlyerState
	}{
		{"one unit inside range", 99, FlyerTargeting},
		{"one unit outside range", 101, FlyerPatrol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFlyer(t)
			center := f.Body().Center()
			target := targetAt(center.Add(entity.Vec2{X: tt.offset}))

			f.Update(envWith(target, 1.0/60))

			assert.Equal(t, tt.want, f.State())
		})
	}
}

func TestFlyer_ChargeDirectionLockedAtTelegraphEnd(t *testing.T) {
	f := newTestFlyer(t)
	center := f.Body().Center()
	target := targetAt(center.Add(entity.Vec2{X: 99}))
	env := envWith(target, 0.05)

	f.Update(env)
	require.Equal(t, FlyerTargeting, f.State())

	// Target moves below the flyer during the telegraph.
	target.rect = entity.RectAround(center.Add(entity.Vec2{Y: 60}), 10, 10)
	for i := 0; i < 100 && f.State() == FlyerTargeting; i++ {
		f.Update(env)
	}
	require.Equal(t, FlyerCharging, f.State())
	assert.InDelta(t, 0.0, f.ChargeDir().X, 1e-9)
	assert.InDelta(t, 1.0, f.ChargeDir().Y, 1e-9)

	// Target moves again; the charge keeps its locked direction.
	target.rect = entity.RectAround(center.Add(entity.Vec2{X: -80}), 10, 10)
	f.Update(env)
	assert.Equal(t, FlyerCharging, f.State())
	assert.InDelta(t, 0.0, f.ChargeDir().X, 1e-9)
	assert.InDelta(t, 200.0, f.Body().Vel.Y, 1e-9)
}

func TestFlyer_LosesTargetWhileTargeting(t *testing.T) {
	f := newTestFlyer(t)
	target := targetAt(f.Body().Center().Add(entity.Vec2{X: 50}))
	env := envWith(target, 0.05)

	f.Update(env)
	require.Equal(t, FlyerTargeting, f.State())

	target.alive = false
	f.Update(env)
	assert.Equal(t, FlyerPatrol, f.State())

	f.Update(envWith(nil, 0.05))
	assert.Equal(t, FlyerPatrol, f.State(), "stale handle keeps patrolling")
}

func chargingFlyer(t *testing.T) (*Flyer, *Env) {
	t.Helper()
	f := newTestFlyer(t)
	target := targetAt(f.Body().Center().Add(entity.Vec2{X: 50}))
	env := envWith(target, 0.05)
	for i := 0; i < 100 && f.State() != FlyerCharging; i++ {
		f.Update(env)
	}
	require.Equal(t, FlyerCharging, f.State())
	return f, env
}

func TestFlyer_WallDuringChargeStuns(t *testing.T) {
	f, env := chargingFlyer(t)

	f.OnCollision(entity.Contact{WallDir: 1})
	require.Equal(t, FlyerStunned, f.State())
	assert.Equal(t, entity.Vec2{}, f.Body().Vel)

	f.Update(env)
	assert.Greater(t, f.Body().Vel.Y, 0.0, "stunned flyer falls")

	for i := 0; i < 20 && f.State() == FlyerStunned; i++ {
		f.Update(env)
	}
	assert.Equal(t, FlyerRecovering, f.State())
}

func TestFlyer_DamageInterruptsCharge(t *testing.T) {
	f, _ := chargingFlyer(t)
	end := f.Body().Center()

	assert.True(t, f.TakeDamage(5))

	assert.Equal(t, FlyerRecovering, f.State())
	assert.Equal(t, 25, f.Health())
	assert.Equal(t, entity.Vec2{X: end.X, Y: end.Y - 20}, f.Home(), "home re-anchored above the charge end")
}

func TestFlyer_ChargeEndsAtMaxDistance(t *testing.T) {
	f, env := chargingFlyer(t)

	for i := 0; i < 200 && f.State() == FlyerCharging; i++ {
		f.Body().Integrate(env.DT)
		f.Update(env)
	}
	assert.Equal(t, FlyerRecovering, f.State())

	for i := 0; i < 200 && f.State() == FlyerRecovering; i++ {
		f.Body().Integrate(env.DT)
		f.Update(env)
	}
	assert.Equal(t, FlyerPatrol, f.State())
	assert.InDelta(t, f.Home().Y, f.Body().Center().Y, 1, "floated up to the new home")
}

func TestFlyer_Death(t *testing.T) {
	f := newTestFlyer(t)
	env := envWith(nil, 0.1)

	assert.True(t, f.TakeDamage(30))
	assert.True(t, f.Dying())
	assert.False(t, f.Hurtable())
	assert.Empty(t, f.AttackAreas())
	assert.False(t, f.TakeDamage(5), "damage while dying is a no-op")
	assert.Equal(t, "dying", f.Snapshot().State)

	for i := 0; i < 10 && f.Active(); i++ {
		f.Update(env)
	}
	assert.False(t, f.Active())
}
