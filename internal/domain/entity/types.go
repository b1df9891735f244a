package entity

import (
	"fmt"

	"github.com/yohamta/donburi"
)

// EntityID is a generational handle into the entity registry.
// A handle outlives its entity; liveness must be checked before use.
type EntityID = donburi.Entity

// Kind discriminates simulated entities.
type Kind int

const (
	KindPlayer Kind = iota
	KindWall
	KindFlyer
	KindShapeshifter
	KindBoss
)

var kindNames = map[Kind]string{
	KindPlayer:       "player",
	KindWall:         "wall",
	KindFlyer:        "flyer",
	KindShapeshifter: "shapeshifter",
	KindBoss:         "boss",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a spawn-feed name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Wall is a static rectangle. Immutable after region load.
type Wall struct {
	Rect
	Collidable bool
	Damaging   bool
}

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileSpike
)

// Tile represents a single tile in the stage
type Tile struct {
	Type   TileType
	Solid  bool
	Damage int
}

// Spawn is one entry of the entity spawn feed.
type Spawn struct {
	Kind   Kind
	Pos    Vec2 // top-left corner
	Health int  // 0 means the configured default
}

// Stage represents a tile region
type Stage struct {
	Name     string
	Width    int
	Height   int
	TileSize int
	Tiles    [][]Tile
	SpawnX   int
	SpawnY   int
	Spawns   []Spawn
}

// GetTile returns the tile at the given tile coordinates
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileWall, Solid: true}
	}
	return s.Tiles[ty][tx]
}

// GetTileAtPixel returns the tile at the given pixel coordinates
func (s *Stage) GetTileAtPixel(px, py int) Tile {
	tx := px / s.TileSize
	ty := py / s.TileSize
	return s.GetTile(tx, ty)
}

// IsSolidAt checks if the tile at pixel coordinates is solid
func (s *Stage) IsSolidAt(px, py int) bool {
	return s.GetTileAtPixel(px, py).Solid
}

// Walls converts the tile grid into static geometry.
// Horizontal runs of identical tiles are merged into one rectangle.
func (s *Stage) Walls() []Wall {
	var walls []Wall
	ts := float64(s.TileSize)
	for ty := 0; ty < s.Height; ty++ {
		tx := 0
		for tx < s.Width {
			t := s.Tiles[ty][tx]
			if !t.Solid && t.Type != TileSpike {
				tx++
				continue
			}
			start := tx
			for tx < s.Width && s.Tiles[ty][tx] == t {
				tx++
			}
			walls = append(walls, Wall{
				Rect:       Rect{X: float64(start) * ts, Y: float64(ty) * ts, W: float64(tx-start) * ts, H: ts},
				Collidable: t.Solid,
				Damaging:   t.Type == TileSpike,
			})
		}
	}
	return walls
}

// PixelBounds returns the stage size in world units.
func (s *Stage) PixelBounds() Vec2 {
	return Vec2{float64(s.Width * s.TileSize), float64(s.Height * s.TileSize)}
}
