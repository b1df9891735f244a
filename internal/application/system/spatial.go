package system

import (
	"fmt"
	"math"
	"sort"

	"github.com/solarlune/resolv"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

// Resolv tags for broad-phase queries
const (
	tagWall   = "wall"
	tagHazard = "hazard"
	tagEntity = "entity"
)

const (
	// spaceMargin pads the grid past the region so entities knocked out of
	// bounds are still bucketed.
	spaceMargin = 512.0
	// queryMargin widens probes so edge contacts land in neighbouring cells.
	queryMargin = 2.0
)

// SpatialIndex buckets walls and entity boxes into a uniform grid so
// collision and combat only test nearby candidates.
type SpatialIndex struct {
	space    *resolv.Space
	origin   entity.Vec2
	walls    []entity.Wall
	entities map[entity.EntityID]*resolv.Object
}

type wallRef struct {
	index int
	wall  *entity.Wall
}

// NewSpatialIndex builds the grid over bounds (region size in world units)
// and registers every wall.
func NewSpatialIndex(walls []entity.Wall, bounds entity.Vec2, cellSize int) (*SpatialIndex, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("failed to create spatial index: cell size %d", cellSize)
	}

	minX, minY := 0.0, 0.0
	maxX, maxY := math.Max(bounds.X, float64(cellSize)), math.Max(bounds.Y, float64(cellSize))
	for i, w := range walls {
		if err := w.Rect.Validate(); err != nil {
			return nil, fmt.Errorf("failed to create spatial index: wall %d: %w", i, err)
		}
		minX, minY = math.Min(minX, w.X), math.Min(minY, w.Y)
		maxX, maxY = math.Max(maxX, w.Right()), math.Max(maxY, w.Bottom())
	}

	origin := entity.Vec2{X: minX - spaceMargin, Y: minY - spaceMargin}
	width := int(math.Ceil(maxX-origin.X+spaceMargin)) + 1
	height := int(math.Ceil(maxY-origin.Y+spaceMargin)) + 1

	idx := &SpatialIndex{
		space:    resolv.NewSpace(width, height, cellSize, cellSize),
		origin:   origin,
		walls:    append([]entity.Wall(nil), walls...),
		entities: make(map[entity.EntityID]*resolv.Object),
	}

	for i := range idx.walls {
		w := &idx.walls[i]
		var tags []string
		if w.Collidable {
			tags = append(tags, tagWall)
		}
		if w.Damaging {
			tags = append(tags, tagHazard)
		}
		if len(tags) == 0 {
			continue
		}
		obj := resolv.NewObject(w.X-origin.X, w.Y-origin.Y, w.W, w.H, tags...)
		obj.Data = wallRef{index: i, wall: w}
		idx.space.Add(obj)
	}

	return idx, nil
}

// Walls returns every registered wall.
func (s *SpatialIndex) Walls() []entity.Wall {
	return s.walls
}

// WallsNear returns collidable walls whose cells touch r, in registration order.
func (s *SpatialIndex) WallsNear(r entity.Rect) []*entity.Wall {
	return s.wallsNear(r, tagWall)
}

// HazardsNear returns damaging walls whose cells touch r.
func (s *SpatialIndex) HazardsNear(r entity.Rect) []*entity.Wall {
	return s.wallsNear(r, tagHazard)
}

// Blocked reports whether r overlaps any collidable wall.
func (s *SpatialIndex) Blocked(r entity.Rect) bool {
	for _, w := range s.WallsNear(r) {
		if r.Overlaps(w.Rect) {
			return true
		}
	}
	return false
}

// Track registers an entity box.
func (s *SpatialIndex) Track(id entity.EntityID, r entity.Rect) {
	if obj, ok := s.entities[id]; ok {
		s.place(obj, r)
		return
	}
	obj := resolv.NewObject(r.X-s.origin.X, r.Y-s.origin.Y, r.W, r.H, tagEntity)
	obj.Data = id
	s.space.Add(obj)
	s.entities[id] = obj
}

// Move updates a tracked entity box. Unknown ids are tracked.
func (s *SpatialIndex) Move(id entity.EntityID, r entity.Rect) {
	s.Track(id, r)
}

// Untrack removes an entity box.
func (s *SpatialIndex) Untrack(id entity.EntityID) {
	obj, ok := s.entities[id]
	if !ok {
		return
	}
	s.space.Remove(obj)
	delete(s.entities, id)
}

// Tracked returns the number of tracked entities.
func (s *SpatialIndex) Tracked() int {
	return len(s.entities)
}

// EntitiesNear returns ids of tracked entities in cells touched by r,
// sorted by id.
func (s *SpatialIndex) EntitiesNear(r entity.Rect) []entity.EntityID {
	objs := s.query(r, tagEntity)
	ids := make([]entity.EntityID, 0, len(objs))
	for _, obj := range objs {
		if id, ok := obj.Data.(entity.EntityID); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *SpatialIndex) wallsNear(r entity.Rect, tag string) []*entity.Wall {
	objs := s.query(r, tag)
	refs := make([]wallRef, 0, len(objs))
	for _, obj := range objs {
		if ref, ok := obj.Data.(wallRef); ok {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].index < refs[j].index })

	walls := make([]*entity.Wall, len(refs))
	for i, ref := range refs {
		walls[i] = ref.wall
	}
	return walls
}

func (s *SpatialIndex) query(r entity.Rect, tags ...string) []*resolv.Object {
	q := r.Expand(queryMargin)
	probe := resolv.NewObject(q.X-s.origin.X, q.Y-s.origin.Y, q.W, q.H)
	s.space.Add(probe)
	defer s.space.Remove(probe)

	collision := probe.Check(0, 0, tags...)
	if collision == nil {
		return nil
	}
	return collision.Objects
}

func (s *SpatialIndex) place(obj *resolv.Object, r entity.Rect) {
	obj.X = r.X - s.origin.X
	obj.Y = r.Y - s.origin.Y
	obj.W = r.W
	obj.H = r.H
	obj.Update()
}
