package ecs

import (
	"github.com/yohamta/donburi"

	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
)

// PlayerData holds the player's body and ability state.
type PlayerData struct {
	*entity.Player
}

// EnemyData holds one enemy variant.
type EnemyData struct {
	enemy.Enemy
}

// SpawnData records the spawn-feed entry an entity was created from.
type SpawnData struct {
	Kind   entity.Kind
	Pos    entity.Vec2
	Health int
}

var (
	Player = donburi.NewComponentType[PlayerData]()
	Enemy  = donburi.NewComponentType[EnemyData]()
	Spawn  = donburi.NewComponentType[SpawnData]()
)

// Tags
var (
	PlayerTag = donburi.NewTag().SetName("Player")
	EnemyTag  = donburi.NewTag().SetName("Enemy")
)
