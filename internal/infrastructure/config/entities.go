package config

import "github.com/younwookim/duskfall/internal/domain/enemy"

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Player  PlayerConfig  `json:"player"`
	Enemies EnemiesConfig `json:"enemies"`
}

type PlayerConfig struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	MaxHealth   int     `json:"maxHealth"`
	StartWeapon string  `json:"startWeapon"`

	WavedashUnlocked bool `json:"wavedashUnlocked"`
}

// EnemiesConfig holds per-kind tuning. Values unmarshal straight into the
// domain configs.
type EnemiesConfig struct {
	Flyer        enemy.FlyerConfig        `json:"flyer"`
	Shapeshifter enemy.ShapeshifterConfig `json:"shapeshifter"`
	Boss         enemy.BossConfig         `json:"boss"`
}
