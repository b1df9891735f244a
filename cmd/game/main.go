package main

import (
	"embed"
	"flag"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/duskfall/internal/application/game"
	"github.com/younwookim/duskfall/internal/application/replay"
	"github.com/younwookim/duskfall/internal/application/scene/playing"
	"github.com/younwookim/duskfall/internal/application/system"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
	"github.com/younwookim/duskfall/internal/infrastructure/persistence"
)

//go:embed configs
var configFS embed.FS

const appName = "duskfall"

func main() {
	// Parse command line flags
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play back a recorded input file")
	headless := flag.Bool("headless", false, "Run -replay without a window and print the final frame")
	level := flag.String("level", "demo", "Stage or region to load")
	saveFlag := flag.Bool("save", true, "Keep checkpoints in the user data directory")
	flag.Parse()

	// Load configurations using embedded filesystem
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		log.Fatalf("Failed to get config subfs: %v", err)
	}
	loader := config.NewFSLoader(fsys, "configs")
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		data     *replay.ReplayData
		replayer *replay.Replayer
	)
	seed := time.Now().UnixNano()
	if *replayFlag != "" {
		data, err = replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		replayer = replay.NewReplayer(*data)
		seed = replayer.Seed()
		if data.Stage != "" {
			*level = data.Stage
		}
		log.Printf("Replaying %s: %d frames on %s", *replayFlag, replayer.TotalFrames(), *level)
	}

	stageCfg, err := loader.LoadLevel(*level)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}
	stage := system.LoadStage(stageCfg)

	if *headless {
		if data == nil {
			log.Fatal("-headless needs -replay")
		}
		snap, err := runReplay(cfg, stage, data)
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		log.Printf("Frame %d: player at (%.2f, %.2f) health %d, %d enemies left",
			snap.Frame, snap.Player.Pos.X, snap.Player.Pos.Y, snap.Player.Health, len(snap.Enemies))
		return
	}

	opts := playing.Options{
		Seed:       seed,
		RecordPath: *recordFlag,
		Input:      keyboard{},
	}
	if replayer != nil {
		opts.Input = replayer
		opts.RecordPath = ""
	}
	if *saveFlag && replayer == nil {
		store, err := persistence.Open(appName)
		if err != nil {
			log.Printf("Checkpoints disabled: %v", err)
		} else {
			opts.Store = store
		}
	}

	scene, err := playing.New(cfg, stage, opts)
	if err != nil {
		log.Fatalf("Failed to create scene: %v", err)
	}

	display := cfg.Physics.Display
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight)
	g.SetDT(1.0 / float64(display.Framerate))

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Duskfall")
	ebiten.SetTPS(display.Framerate)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
