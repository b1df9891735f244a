package ecs

import (
	"sort"

	"github.com/yohamta/donburi"

	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
)

// Registry owns every live entity. Handles are donburi entities, so a
// removed entity's handle stops resolving even if its slot is reused.
type Registry struct {
	world donburi.World
}

// NewRegistry wraps a donburi world.
func NewRegistry(w donburi.World) *Registry {
	return &Registry{world: w}
}

// World returns the underlying donburi world.
func (r *Registry) World() donburi.World {
	return r.world
}

// AddPlayer registers p and stamps its handle. Any previous player is removed.
func (r *Registry) AddPlayer(p *entity.Player) entity.EntityID {
	if old, ok := r.Player(); ok {
		r.Remove(old.ID)
	}
	id := r.world.Create(PlayerTag, Player)
	Player.SetValue(r.world.Entry(id), PlayerData{Player: p})
	p.ID = id
	return id
}

// Player returns the registered player.
func (r *Registry) Player() (*entity.Player, bool) {
	entry, ok := PlayerTag.First(r.world)
	if !ok {
		return nil, false
	}
	return Player.Get(entry).Player, true
}

// AddEnemy registers e with the spawn entry it came from and stamps its handle.
func (r *Registry) AddEnemy(e enemy.Enemy, spawn SpawnData) entity.EntityID {
	id := r.world.Create(EnemyTag, Enemy, Spawn)
	entry := r.world.Entry(id)
	Enemy.SetValue(entry, EnemyData{Enemy: e})
	Spawn.SetValue(entry, spawn)
	e.SetID(id)
	return id
}

// Enemy resolves a handle. Stale handles and non-enemies report false.
func (r *Registry) Enemy(id entity.EntityID) (enemy.Enemy, bool) {
	if !r.world.Valid(id) {
		return nil, false
	}
	entry := r.world.Entry(id)
	if !entry.HasComponent(Enemy) {
		return nil, false
	}
	return Enemy.Get(entry).Enemy, true
}

// SpawnOf returns the spawn entry of an enemy.
func (r *Registry) SpawnOf(id entity.EntityID) (SpawnData, bool) {
	if !r.world.Valid(id) {
		return SpawnData{}, false
	}
	entry := r.world.Entry(id)
	if !entry.HasComponent(Spawn) {
		return SpawnData{}, false
	}
	return *Spawn.Get(entry), true
}

// Enemies returns every registered enemy ordered by handle.
func (r *Registry) Enemies() []enemy.Enemy {
	var out []enemy.Enemy
	EnemyTag.Each(r.world, func(entry *donburi.Entry) {
		out = append(out, Enemy.Get(entry).Enemy)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Valid reports whether id still refers to a live entity.
func (r *Registry) Valid(id entity.EntityID) bool {
	return r.world.Valid(id)
}

// Remove deletes an entity. Unknown or stale handles are ignored.
func (r *Registry) Remove(id entity.EntityID) {
	if r.world.Valid(id) {
		r.world.Remove(id)
	}
}

// Clear removes every entity.
func (r *Registry) Clear() {
	var ids []entity.EntityID
	PlayerTag.Each(r.world, func(entry *donburi.Entry) { ids = append(ids, entry.Entity()) })
	EnemyTag.Each(r.world, func(entry *donburi.Entry) { ids = append(ids, entry.Entity()) })
	for _, id := range ids {
		r.world.Remove(id)
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.world.Len()
}
