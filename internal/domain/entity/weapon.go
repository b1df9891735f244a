package entity

import "fmt"

// WeaponID identifies an entry in the weapon table.
type WeaponID string

// Weapon holds the stats a swing is built from.
type Weapon struct {
	ID       WeaponID
	Name     string
	Damage   int
	Reach    Vec2    // X: forward reach, Y: thickness of the swing
	Duration float64 // seconds the hitbox is live
	Cooldown float64 // seconds after the swing ends before the next one

	// Visual parameters, passed through to the renderer.
	Color      string
	TrailWidth float64
}

// WeaponTable is an ordered, read-only lookup of weapons.
type WeaponTable struct {
	order []WeaponID
	byID  map[WeaponID]Weapon
}

// NewWeaponTable builds a table. Order determines weapon cycling.
func NewWeaponTable(weapons []Weapon) (*WeaponTable, error) {
	if len(weapons) == 0 {
		return nil, fmt.Errorf("weapon table is empty")
	}
	t := &WeaponTable{byID: make(map[WeaponID]Weapon, len(weapons))}
	for _, w := range weapons {
		if _, dup := t.byID[w.ID]; dup {
			return nil, fmt.Errorf("duplicate weapon id %q", w.ID)
		}
		t.order = append(t.order, w.ID)
		t.byID[w.ID] = w
	}
	return t, nil
}

// Get returns the weapon for id.
func (t *WeaponTable) Get(id WeaponID) (Weapon, bool) {
	w, ok := t.byID[id]
	return w, ok
}

// Next returns the weapon after id in table order, wrapping around.
func (t *WeaponTable) Next(id WeaponID) WeaponID {
	for i, w := range t.order {
		if w == id {
			return t.order[(i+1)%len(t.order)]
		}
	}
	return t.order[0]
}

// First returns the first weapon id.
func (t *WeaponTable) First() WeaponID {
	return t.order[0]
}

// IDs returns weapon ids in table order.
func (t *WeaponTable) IDs() []WeaponID {
	out := make([]WeaponID, len(t.order))
	copy(out, t.order)
	return out
}
