package config

import (
	"fmt"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Tiled layer and object group names read by LoadRegion
const (
	regionCollisionLayer = "collision"
	regionHazardLayer    = "hazards"
	regionPlayerSpawn    = "PlayerSpawn"
	regionEnemySpawn     = "EnemySpawn"
)

// Tile characters emitted for TMX regions
const (
	regionWallChar  = "#"
	regionSpikeChar = "^"
)

// LoadRegion loads regions/<name>.tmx and converts it into a StageConfig so
// TMX and JSON stages share one loading path.
func (l *Loader) LoadRegion(name string) (*StageConfig, error) {
	path := "regions/" + name + ".tmx"
	levelMap, err := tiled.LoadFile(path, tiled.WithFileSystem(l.fsys))
	if err != nil {
		return nil, fmt.Errorf("failed to load region %s: %w", name, err)
	}
	if levelMap.TileWidth != levelMap.TileHeight {
		return nil, fmt.Errorf("failed to load region %s: non-square tiles %dx%d: %w",
			name, levelMap.TileWidth, levelMap.TileHeight, ErrInvalidConfig)
	}

	rows := make([][]byte, levelMap.Height)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", levelMap.Width))
	}

	for _, layer := range levelMap.Layers {
		var char byte
		switch layer.Name {
		case regionCollisionLayer:
			char = regionWallChar[0]
		case regionHazardLayer:
			char = regionSpikeChar[0]
		default:
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				i := y*levelMap.Width + x
				if i >= len(layer.Tiles) || layer.Tiles[i].IsNil() {
					continue
				}
				// Walls win over hazards on the same cell
				if rows[y][x] != regionWallChar[0] {
					rows[y][x] = char
				}
			}
		}
	}

	cfg := &StageConfig{
		ID:   name,
		Name: name,
		Size: StageSizeConfig{
			Width:    levelMap.Width * levelMap.TileWidth,
			Height:   levelMap.Height * levelMap.TileHeight,
			TileSize: levelMap.TileWidth,
		},
		TileMapping: map[string]TileMappingConfig{
			regionWallChar:  {Type: "wall", Solid: true},
			regionSpikeChar: {Type: "spike", Solid: false, Damage: 1},
		},
	}
	for _, row := range rows {
		cfg.Layers.Collision = append(cfg.Layers.Collision, string(row))
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case regionPlayerSpawn:
			for _, o := range og.Objects {
				cfg.PlayerSpawn = PositionConfig{X: int(o.X), Y: int(o.Y)}
			}
		case regionEnemySpawn:
			for _, o := range og.Objects {
				kind := o.Properties.GetString("enemyType")
				if kind == "" {
					kind = o.Name
				}
				cfg.Enemies = append(cfg.Enemies, EnemySpawnConfig{
					Type:   kind,
					X:      int(o.X),
					Y:      int(o.Y),
					Health: o.Properties.GetInt("health"),
				})
			}
		}
	}

	return cfg, nil
}
