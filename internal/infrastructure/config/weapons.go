package config

import (
	"fmt"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// WeaponsConfig is the root config for weapons.yaml
type WeaponsConfig struct {
	Weapons []WeaponConfig `yaml:"weapons"`
}

type WeaponConfig struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Damage     int         `yaml:"damage"`
	Reach      ReachConfig `yaml:"reach"`
	Duration   float64     `yaml:"duration"`
	Cooldown   float64     `yaml:"cooldown"` // multiplier on the tier cooldown
	Color      string      `yaml:"color"`
	TrailWidth float64     `yaml:"trail_width"`
}

// ReachConfig is the side-swing length and thickness.
type ReachConfig struct {
	Length    float64 `yaml:"length"`
	Thickness float64 `yaml:"thickness"`
}

// Table builds the lookup table used by the simulation.
func (c *WeaponsConfig) Table() (*entity.WeaponTable, error) {
	weapons := make([]entity.Weapon, 0, len(c.Weapons))
	for _, w := range c.Weapons {
		weapons = append(weapons, entity.Weapon{
			ID:         entity.WeaponID(w.ID),
			Name:       w.Name,
			Damage:     w.Damage,
			Reach:      entity.Vec2{X: w.Reach.Length, Y: w.Reach.Thickness},
			Duration:   w.Duration,
			Cooldown:   w.Cooldown,
			Color:      w.Color,
			TrailWidth: w.TrailWidth,
		})
	}
	table, err := entity.NewWeaponTable(weapons)
	if err != nil {
		return nil, fmt.Errorf("failed to build weapon table: %w", err)
	}
	return table, nil
}
