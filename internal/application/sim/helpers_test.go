package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/younwookim/duskfall/internal/application/system"
	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

const (
	testDT   = 1.0 / 60.0
	tileSize = 16
	floorTop = 14 * tileSize
)

func createTestPhysicsConfig() *config.PhysicsConfig {
	return &config.PhysicsConfig{
		Physics: config.PhysicsSettings{Gravity: 900, MaxFallSpeed: 400, MaxDeltaTime: 0.05},
		Movement: config.MovementConfig{
			MaxSpeed:    120,
			GroundAccel: 1200, GroundDecel: 1500, GroundTurnAccel: 2400, GroundDrag: 600,
			AirAccel: 800, AirDecel: 400, AirTurnAccel: 1200, AirDrag: 200,
		},
		Jump: config.JumpConfig{
			Force: 300, DoubleJumpForce: 260, CutSpeed: 120,
			CoyoteTime: 0.1, JumpBuffer: 0.1, MaxJumps: 2,
			WallJumpSpeed: 150, WallJumpLock: 0.15,
		},
		Dash:  config.DashConfig{Speed: 300, Duration: 0.15, Cooldown: 0.3, EndDamp: 0.5, WavedashBoost: 1.2},
		Climb: config.ClimbConfig{ClimbSpeed: 60, SlideSpeed: 40, MaxStamina: 100, ClimbDrain: 30, SlideDrain: 10, RegenRate: 50, RegenDelay: 0.5},
		Attack: config.AttackConfig{
			ComboWindow: 0.3,
			Tiers: []config.ComboTier{
				{Reach: 1, Duration: 1, Cooldown: 0.1, Damage: 1},
				{Reach: 1, Duration: 1, Cooldown: 0.1, Damage: 1.5},
				{Reach: 1.25, Duration: 1.2, Cooldown: 0.2, Damage: 2},
			},
		},
		Collision: config.CollisionConfig{StepHeight: 6, StepMaxVY: 50, GroundTolerance: 4, WallProbe: 1, CellSize: 32},
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

func createTestEntitiesConfig() *config.EntitiesConfig {
	return &config.EntitiesConfig{
		Player: config.PlayerConfig{Width: 12, Height: 24, MaxHealth: 5, StartWeapon: "sword"},
		Enemies: config.EnemiesConfig{
			// A flyer that holds still until hit
			Flyer: enemy.FlyerConfig{
				Width: 16, Height: 16, Health: 10,
				TelegraphTime: 0.5, ChargeSpeed: 200, MaxChargeDistance: 150,
				RecoverRise: 20, RecoverTime: 0.5, StunTime: 0.3, StunGravity: 500,
				AttackCooldown: 1, DeathTime: 0.2,
			},
			Shapeshifter: enemy.ShapeshifterConfig{
				SmallWidth: 16, SmallHeight: 14, LargeWidth: 28, LargeHeight: 26,
				Health: 40, SmallDamage: 1, LargeDamage: 2,
				Gravity: 900, MaxFallSpeed: 400, DetectionRange: 120,
				HopInterval: 1, HopSpeedX: 80, HopSpeedY: 200,
				FollowTime: 0.5, MorphTime: 0.6, ChargeTime: 0.2,
				RunSpeed: 160, RunAccel: 800, SlideDecel: 600, OvershootMargin: 20,
				TurnTime: 0.2, TurnCooldown: 0.5, SafeDistance: 200, UnmorphTime: 1, DeathTime: 0.5,
			},
			Boss: enemy.BossConfig{
				Width: 20, Height: 20, Health: 100, ContactDamage: 1,
				ActivationDistance: 150, AppearTime: 0.2,
				AttackInterval: 1, PreferredDistance: 100, DistanceThreshold: 20, MoveSpeed: 50,
				FireballChance: 0.5, EnragedFireballChance: 0.3,
				FireballCount: 3, FireballInterval: 0.2, FireballSpeed: 100, FireballSize: 8,
				FireballLifetime: 5, FireballRange: 1000, FireballDamage: 1, MaxFireballs: 4,
				LaserChargeTime: 0.5, LaserFireTime: 0.5, LaserChargeTrack: 2, LaserFireTrack: 0.5,
				LaserLength: 200, LaserWidth: 8, LaserDamage: 1,
				VulnerableTime: 0.3, VulnerableDamageMul: 2,
				AoeWarningTime: 0.4, AoeRadius: 60, AoeDamage: 2,
				TeleportOutTime: 0.2, TeleportInTime: 0.2,
				TeleportMinDist: 40, TeleportMaxDist: 80, TeleportMinTargetDist: 50, TeleportAttempts: 8,
				EnrageThreshold: 0.5, EnrageSpeedMul: 2, DeathTime: 0.5,
			},
		},
	}
}

func createTestConfig(t testing.TB) Config {
	t.Helper()
	weapons, err := entity.NewWeaponTable([]entity.Weapon{
		{ID: "sword", Name: "Sword", Damage: 10, Reach: entity.Vec2{X: 24, Y: 16}, Duration: 0.2, Cooldown: 1},
		{ID: "spear", Name: "Spear", Damage: 8, Reach: entity.Vec2{X: 40, Y: 8}, Duration: 0.25, Cooldown: 1.2},
	})
	require.NoError(t, err)
	return Config{
		Physics:  createTestPhysicsConfig(),
		Entities: createTestEntitiesConfig(),
		Weapons:  weapons,
		Seed:     42,
	}
}

// createTestStage is a 40x15 tile room: a floor row and two side walls.
// The player spawns standing on the floor at x=100.
func createTestStage(spawns ...entity.Spawn) *entity.Stage {
	const w, h = 40, 15
	wall := entity.Tile{Type: entity.TileWall, Solid: true}
	tiles := make([][]entity.Tile, h)
	for y := range tiles {
		tiles[y] = make([]entity.Tile, w)
		tiles[y][0] = wall
		tiles[y][w-1] = wall
	}
	for x := 0; x < w; x++ {
		tiles[h-1][x] = wall
	}
	return &entity.Stage{
		Name:     "test",
		Width:    w,
		Height:   h,
		TileSize: tileSize,
		Tiles:    tiles,
		SpawnX:   100,
		SpawnY:   floorTop - 24,
		Spawns:   spawns,
	}
}

func createTestWorld(t testing.TB, spawns ...entity.Spawn) *World {
	t.Helper()
	w, err := NewWorld(createTestConfig(t), createTestStage(spawns...))
	require.NoError(t, err)
	return w
}

func stepN(w *World, n int, in system.InputSnapshot) {
	for i := 0; i < n; i++ {
		w.Step(in, testDT)
	}
}
