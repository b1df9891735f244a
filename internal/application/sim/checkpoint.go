package sim

import (
	"fmt"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// Checkpoint is the save-data extract of a world.
type Checkpoint struct {
	Region  string      `json:"region"`
	Frame   uint64      `json:"frame"`
	Player  PlayerSave  `json:"player"`
	Enemies []EnemySave `json:"enemies"`
}

type PlayerSave struct {
	Pos              entity.Vec2     `json:"pos"`
	Facing           int             `json:"facing"`
	Health           int             `json:"health"`
	Stamina          float64         `json:"stamina"`
	Weapon           entity.WeaponID `json:"weapon"`
	WavedashUnlocked bool            `json:"wavedashUnlocked,omitempty"`
}

type EnemySave struct {
	Kind      string      `json:"kind"`
	Spawn     entity.Vec2 `json:"spawn"`
	Pos       entity.Vec2 `json:"pos"`
	Health    int         `json:"health"`
	MaxHealth int         `json:"maxHealth"`
	Active    bool        `json:"active"`
}

// Checkpoint captures the player and every enemy. Dead players are saved
// at full health so a restore never lands in a lost state.
func (w *World) Checkpoint() *Checkpoint {
	cp := &Checkpoint{Region: w.region, Frame: w.frame}

	if p, ok := w.registry.Player(); ok {
		cp.Player = PlayerSave{
			Pos:              p.Pos,
			Facing:           p.Facing,
			Health:           p.Health,
			Stamina:          p.Stamina,
			Weapon:           p.Weapon,
			WavedashUnlocked: p.WavedashUnlocked,
		}
		if p.Dead {
			cp.Player.Pos = w.spawn
			cp.Player.Health = p.MaxHealth
		}
	}

	for _, e := range w.registry.Enemies() {
		spawn, _ := w.registry.SpawnOf(e.ID())
		snap := e.Snapshot()
		cp.Enemies = append(cp.Enemies, EnemySave{
			Kind:      e.Kind().String(),
			Spawn:     spawn.Pos,
			Pos:       e.Body().Pos,
			Health:    snap.Health,
			MaxHealth: snap.MaxHealth,
			Active:    e.Active() && snap.Health > 0,
		})
	}
	return cp
}

// Restore rebuilds the registry from cp. The checkpoint is validated before
// the world is touched.
func (w *World) Restore(cp *Checkpoint) error {
	if cp == nil {
		return fmt.Errorf("failed to restore: nil checkpoint")
	}
	if cp.Region != w.region {
		return fmt.Errorf("failed to restore: checkpoint is for region %q, loaded %q", cp.Region, w.region)
	}
	kinds := make([]entity.Kind, len(cp.Enemies))
	for i, es := range cp.Enemies {
		kind, ok := entity.ParseKind(es.Kind)
		if !ok {
			return fmt.Errorf("failed to restore enemy %d %q: %w", i, es.Kind, ErrUnknownKind)
		}
		kinds[i] = kind
	}

	// Drop everything tracked by the old registry
	if p, ok := w.registry.Player(); ok {
		w.index.Untrack(p.ID)
	}
	for _, e := range w.registry.Enemies() {
		w.index.Untrack(e.ID())
	}
	w.reset()

	p, err := w.addPlayer(cp.Player.Pos)
	if err != nil {
		return fmt.Errorf("failed to restore player: %w", err)
	}
	if cp.Player.Health > 0 && cp.Player.Health <= p.MaxHealth {
		p.Health = cp.Player.Health
	}
	if cp.Player.Facing != 0 {
		p.Facing = cp.Player.Facing
	}
	p.Stamina = entity.Clamp(cp.Player.Stamina, 0, p.MaxStamina)
	if _, ok := w.cfg.Weapons.Get(cp.Player.Weapon); ok {
		p.Weapon = cp.Player.Weapon
	}
	p.WavedashUnlocked = p.WavedashUnlocked || cp.Player.WavedashUnlocked

	type healthSetter interface {
		SetHealth(int)
	}
	for i, es := range cp.Enemies {
		if !es.Active {
			continue
		}
		spawn := entity.Spawn{Kind: kinds[i], Pos: es.Spawn, Health: es.MaxHealth}
		e, err := w.spawnAt(spawn, es.Pos)
		if err != nil {
			return fmt.Errorf("failed to restore enemy %d: %w", i, err)
		}
		if hs, ok := e.(healthSetter); ok && es.Health > 0 {
			hs.SetHealth(es.Health)
		}
	}

	w.frame = cp.Frame
	return nil
}
