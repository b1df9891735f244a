package main

import (
	"fmt"

	"github.com/younwookim/duskfall/internal/application/replay"
	"github.com/younwookim/duskfall/internal/application/sim"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

// runReplay steps a fresh world through every recorded frame without a
// window and returns the final snapshot.
func runReplay(cfg *config.GameConfig, stage *entity.Stage, data *replay.ReplayData) (sim.Snapshot, error) {
	if data.Stage != "" && data.Stage != stage.Name {
		return sim.Snapshot{}, fmt.Errorf("replay was recorded on %q, loaded %q", data.Stage, stage.Name)
	}

	weapons, err := cfg.Weapons.Table()
	if err != nil {
		return sim.Snapshot{}, err
	}
	world, err := sim.NewWorld(sim.Config{
		Physics:  cfg.Physics,
		Entities: cfg.Entities,
		Weapons:  weapons,
		Seed:     data.Seed,
	}, stage)
	if err != nil {
		return sim.Snapshot{}, err
	}

	r := replay.NewReplayer(*data)
	dt := r.DT()
	for {
		in, ok := r.Next()
		if !ok {
			break
		}
		world.Step(in, dt)
	}
	return world.Snapshot(), nil
}
