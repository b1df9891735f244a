package system

import (
	"math"

	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

// groundEpsilon is how close a wall top must be to the feet to count as
// standing on it without penetration.
const groundEpsilon = 0.01

// minWallOverlap keeps floor tiles from registering as side walls through
// float noise.
const minWallOverlap = 1.0

// faceProbe is the depth checked beyond a wall face to detect a neighbour.
const faceProbe = 0.5

// PhysicsSystem integrates bodies and resolves them against static geometry.
type PhysicsSystem struct {
	config *config.PhysicsConfig
	index  *SpatialIndex
}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem(cfg *config.PhysicsConfig, index *SpatialIndex) *PhysicsSystem {
	return &PhysicsSystem{
		config: cfg,
		index:  index,
	}
}

// ApplyGravity accelerates the player downward. Gravity is suspended while
// dashing or climbing and on the frame a jump impulse was applied.
func (s *PhysicsSystem) ApplyGravity(player *entity.Player, dt float64) {
	if player.Dashing || player.Climbing || player.JumpedThisFrame() {
		return
	}
	player.Vel.Y += s.config.Physics.Gravity * dt
	if player.Vel.Y > s.config.Physics.MaxFallSpeed {
		player.Vel.Y = s.config.Physics.MaxFallSpeed
	}
}

// Move integrates the body and resolves any wall penetration.
func (s *PhysicsSystem) Move(body *entity.Body, dt float64) entity.Contact {
	body.Integrate(dt)
	return s.Resolve(body)
}

// Resolve pushes the body out of every overlapping collidable wall and
// rebuilds its contact flags.
func (s *PhysicsSystem) Resolve(body *entity.Body) entity.Contact {
	body.ClearContacts()

	var contact entity.Contact
	search := body.Rect().Expand(s.config.Collision.StepHeight + queryMargin)
	walls := s.index.WallsNear(search)

	for _, w := range walls {
		if !body.Rect().Overlaps(w.Rect) {
			continue
		}
		s.resolveWall(body, w.Rect, &contact)
	}

	s.probe(body, walls, &contact)

	body.OnGround = contact.Ground
	body.OnCeiling = contact.Ceiling
	body.WallDir = contact.WallDir
	body.OnWall = contact.WallDir != 0
	return contact
}

// resolveWall classifies one overlap and applies the minimal correction.
func (s *PhysicsSystem) resolveWall(body *entity.Body, wall entity.Rect, contact *entity.Contact) {
	r := body.Rect()
	prev := body.PrevRect()
	tol := s.config.Collision.GroundTolerance
	aligned := prev.X < wall.Right() && prev.Right() > wall.X

	// Landed from above
	if aligned && prev.Bottom() <= wall.Y+tol && body.Vel.Y >= 0 {
		s.landOn(body, wall, contact)
		return
	}

	// Struck from below
	if aligned && prev.Y >= wall.Bottom()-tol && body.Vel.Y <= 0 {
		s.bumpUnder(body, wall, contact)
		return
	}

	if s.canStep(body, r, wall, contact) {
		s.landOn(body, wall, contact)
		contact.Stepped = true
		return
	}

	rc, wc := r.Center(), wall.Center()
	rh, wh := r.HalfExtents(), wall.HalfExtents()
	overlapX := rh.X + wh.X - math.Abs(rc.X-wc.X)
	overlapY := rh.Y + wh.Y - math.Abs(rc.Y-wc.Y)

	if overlapX <= overlapY || s.internalFace(r, wall, rc.Y < wc.Y) {
		if rc.X < wc.X {
			body.Pos.X = wall.X - body.Size.X
			contact.WallDir = 1
		} else {
			body.Pos.X = wall.Right()
			contact.WallDir = -1
		}
		body.Vel.X = 0
		return
	}

	if rc.Y < wc.Y {
		s.landOn(body, wall, contact)
	} else {
		s.bumpUnder(body, wall, contact)
	}
}

// canStep reports whether a low ledge in the direction of travel can be
// climbed without stopping.
func (s *PhysicsSystem) canStep(body *entity.Body, r, wall entity.Rect, contact *entity.Contact) bool {
	col := s.config.Collision
	if col.StepHeight <= 0 || math.Abs(body.Vel.Y) > col.StepMaxVY {
		return false
	}
	if !body.WasOnGround && !contact.Ground {
		return false
	}
	if body.Vel.X == 0 || entity.Sign(body.Vel.X) != entity.Sign(wall.Center().X-r.Center().X) {
		return false
	}
	pen := r.Bottom() - wall.Y
	if pen <= 0 || pen > col.StepHeight {
		return false
	}
	lifted := r
	lifted.Y = wall.Y - r.H - groundEpsilon
	return !s.index.Blocked(lifted)
}

// internalFace reports whether the top (or bottom) face of wall is covered
// by another wall across r's span, so it cannot be landed on or bumped.
func (s *PhysicsSystem) internalFace(r, wall entity.Rect, top bool) bool {
	x0, x1 := math.Max(r.X, wall.X), math.Min(r.Right(), wall.Right())
	if x1 <= x0 {
		return false
	}
	probe := entity.Rect{X: x0, Y: wall.Bottom(), W: x1 - x0, H: faceProbe}
	if top {
		probe.Y = wall.Y - faceProbe
	}
	return s.index.Blocked(probe)
}

func (s *PhysicsSystem) landOn(body *entity.Body, wall entity.Rect, contact *entity.Contact) {
	body.Pos.Y = wall.Y - body.Size.Y
	if body.Vel.Y > 0 {
		body.Vel.Y = 0
	}
	contact.Ground = true
}

func (s *PhysicsSystem) bumpUnder(body *entity.Body, wall entity.Rect, contact *entity.Contact) {
	body.Pos.Y = wall.Bottom()
	if body.Vel.Y < 0 {
		body.Vel.Y = 0
	}
	contact.Ceiling = true
}

// probe detects resting contacts that produced no penetration this frame:
// standing exactly on a floor, or being flush against a side wall.
func (s *PhysicsSystem) probe(body *entity.Body, walls []*entity.Wall, contact *entity.Contact) {
	r := body.Rect()
	reach := s.config.Collision.WallProbe

	for _, w := range walls {
		horizontal := r.X < w.Right() && r.Right() > w.X
		if !contact.Ground && body.Vel.Y >= 0 && horizontal && math.Abs(w.Y-r.Bottom()) <= groundEpsilon {
			contact.Ground = true
		}

		if contact.WallDir != 0 || reach <= 0 {
			continue
		}
		vertical := math.Min(r.Bottom(), w.Bottom()) - math.Max(r.Y, w.Y)
		if vertical <= minWallOverlap {
			continue
		}
		if gap := w.X - r.Right(); gap >= -groundEpsilon && gap <= reach {
			contact.WallDir = 1
		} else if gap := r.X - w.Right(); gap >= -groundEpsilon && gap <= reach {
			contact.WallDir = -1
		}
	}
}
