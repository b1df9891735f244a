package enemy

import (
	"github.com/younwookim/duskfall/internal/domain/entity"
)

const testTargetID entity.EntityID = 1

type fakeTarget struct {
	rect  entity.Rect
	vel   entity.Vec2
	alive bool
}

func (f *fakeTarget) Rect() entity.Rect     { return f.rect }
func (f *fakeTarget) Velocity() entity.Vec2 { return f.vel }
func (f *fakeTarget) Alive() bool           { return f.alive }

// targetAt returns a live 10x10 target centered on c.
func targetAt(c entity.Vec2) *fakeTarget {
	return &fakeTarget{rect: entity.RectAround(c, 10, 10), alive: true}
}

func envWith(t *fakeTarget, dt float64) *Env {
	return &Env{
		DT: dt,
		Lookup: func(id entity.EntityID) (Target, bool) {
			if t == nil || id != testTargetID {
				return nil, false
			}
			return t, true
		},
	}
}
