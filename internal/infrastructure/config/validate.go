package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}

func positive(name string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return invalid("%s must not be negative, got %v", name, v)
	}
	return nil
}

// Validate rejects physics settings the simulation cannot run with.
func (c *PhysicsConfig) Validate() error {
	checks := []error{
		positive("physics.maxFallSpeed", c.Physics.MaxFallSpeed),
		positive("physics.maxDeltaTime", c.Physics.MaxDeltaTime),
		nonNegative("physics.gravity", c.Physics.Gravity),
		positive("movement.maxSpeed", c.Movement.MaxSpeed),
		nonNegative("movement.groundAccel", c.Movement.GroundAccel),
		nonNegative("movement.airAccel", c.Movement.AirAccel),
		positive("jump.force", c.Jump.Force),
		nonNegative("jump.coyoteTime", c.Jump.CoyoteTime),
		nonNegative("jump.jumpBuffer", c.Jump.JumpBuffer),
		positive("dash.speed", c.Dash.Speed),
		positive("dash.duration", c.Dash.Duration),
		nonNegative("climb.maxStamina", c.Climb.MaxStamina),
		nonNegative("collision.stepHeight", c.Collision.StepHeight),
		nonNegative("collision.groundTolerance", c.Collision.GroundTolerance),
		nonNegative("combat.iframes", c.Combat.Iframes),
	}
	if err := errors.Join(checks...); err != nil {
		return err
	}

	if c.Jump.MaxJumps < 1 {
		return invalid("jump.maxJumps must be at least 1, got %d", c.Jump.MaxJumps)
	}
	if c.Collision.CellSize <= 0 {
		return invalid("collision.cellSize must be positive, got %d", c.Collision.CellSize)
	}
	if len(c.Attack.Tiers) == 0 {
		return invalid("attack.tiers must not be empty")
	}
	for i, t := range c.Attack.Tiers {
		if err := errors.Join(
			positive(fmt.Sprintf("attack.tiers[%d].reach", i), t.Reach),
			positive(fmt.Sprintf("attack.tiers[%d].duration", i), t.Duration),
			nonNegative(fmt.Sprintf("attack.tiers[%d].cooldown", i), t.Cooldown),
			nonNegative(fmt.Sprintf("attack.tiers[%d].damage", i), t.Damage),
		); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects entity sizes and health values that cannot spawn.
func (c *EntitiesConfig) Validate() error {
	p := c.Player
	if err := errors.Join(
		positive("player.width", p.Width),
		positive("player.height", p.Height),
	); err != nil {
		return err
	}
	if p.MaxHealth <= 0 {
		return invalid("player.maxHealth must be positive, got %d", p.MaxHealth)
	}

	e := c.Enemies
	sizes := []error{
		positive("enemies.flyer.width", e.Flyer.Width),
		positive("enemies.flyer.height", e.Flyer.Height),
		positive("enemies.shapeshifter.smallWidth", e.Shapeshifter.SmallWidth),
		positive("enemies.shapeshifter.smallHeight", e.Shapeshifter.SmallHeight),
		positive("enemies.shapeshifter.largeWidth", e.Shapeshifter.LargeWidth),
		positive("enemies.shapeshifter.largeHeight", e.Shapeshifter.LargeHeight),
		positive("enemies.boss.width", e.Boss.Width),
		positive("enemies.boss.height", e.Boss.Height),
	}
	if err := errors.Join(sizes...); err != nil {
		return err
	}
	for name, health := range map[string]int{
		"flyer":        e.Flyer.Health,
		"shapeshifter": e.Shapeshifter.Health,
		"boss":         e.Boss.Health,
	} {
		if health <= 0 {
			return invalid("enemies.%s.health must be positive, got %d", name, health)
		}
	}
	return nil
}

// Validate rejects empty tables, duplicate ids and unusable swings.
func (c *WeaponsConfig) Validate() error {
	if len(c.Weapons) == 0 {
		return invalid("weapons must not be empty")
	}
	seen := make(map[string]bool, len(c.Weapons))
	for i, w := range c.Weapons {
		if w.ID == "" {
			return invalid("weapons[%d].id must be set", i)
		}
		if seen[w.ID] {
			return invalid("weapons[%d].id %q is duplicated", i, w.ID)
		}
		seen[w.ID] = true
		if w.Damage < 0 {
			return invalid("weapons[%d].damage must not be negative, got %d", i, w.Damage)
		}
		if err := errors.Join(
			positive(fmt.Sprintf("weapons[%d].reach.length", i), w.Reach.Length),
			positive(fmt.Sprintf("weapons[%d].reach.thickness", i), w.Reach.Thickness),
			positive(fmt.Sprintf("weapons[%d].duration", i), w.Duration),
			nonNegative(fmt.Sprintf("weapons[%d].cooldown", i), w.Cooldown),
		); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects stages without a usable grid or with unknown enemy kinds.
func (c *StageConfig) Validate() error {
	if c.Size.TileSize <= 0 {
		return invalid("stage %s: tileSize must be positive, got %d", c.ID, c.Size.TileSize)
	}
	if c.Size.Width <= 0 || c.Size.Height <= 0 {
		return invalid("stage %s: size %dx%d", c.ID, c.Size.Width, c.Size.Height)
	}
	if len(c.Layers.Collision) == 0 {
		return invalid("stage %s: collision layer is empty", c.ID)
	}
	for i, spawn := range c.Enemies {
		kind, ok := entity.ParseKind(spawn.Type)
		if !ok || kind == entity.KindPlayer || kind == entity.KindWall {
			return invalid("stage %s: enemies[%d] has unknown type %q", c.ID, i, spawn.Type)
		}
		if spawn.Health < 0 {
			return invalid("stage %s: enemies[%d] health %d", c.ID, i, spawn.Health)
		}
	}
	return nil
}
