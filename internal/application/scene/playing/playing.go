// Package playing provides the main gameplay scene.
package playing

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/duskfall/internal/application/scene"
	"github.com/younwookim/duskfall/internal/application/sim"
	"github.com/younwookim/duskfall/internal/application/state"
	"github.com/younwookim/duskfall/internal/application/system"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
	"github.com/younwookim/duskfall/internal/infrastructure/persistence"
)

// Colors for rendering
var (
	colorWall       = color.RGBA{80, 80, 100, 255}
	colorSpike      = color.RGBA{200, 50, 50, 255}
	colorPlayer     = color.RGBA{100, 200, 100, 255}
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorEnemy      = color.RGBA{200, 100, 100, 255}
	colorBoss       = color.RGBA{170, 90, 220, 255}
	colorFireball   = color.RGBA{255, 140, 40, 255}
	colorAttackArea = color.RGBA{255, 60, 60, 90}
	colorHealthBG   = color.RGBA{60, 60, 60, 255}
	colorHealthFG   = color.RGBA{100, 200, 100, 255}
	colorStaminaFG  = color.RGBA{230, 200, 80, 255}
)

// Feedback tuning
const (
	hitstopFrames  = 3
	shakeHit       = 2.0
	shakeHurt      = 5.0
	shakeDuration  = 0.3
	defaultSwingFG = "#ffffff"
)

// InputSource yields one input snapshot per simulated frame. A source that
// runs out (a finished replay) reports false.
type InputSource interface {
	Next() (system.InputSnapshot, bool)
}

// CheckpointStore persists checkpoints per region.
type CheckpointStore interface {
	Save(slot string, cp *sim.Checkpoint) error
	Load(slot string) (*sim.Checkpoint, error)
}

// Options configures a Playing scene. Zero values are valid: a random seed,
// no recording, no input and no save data.
type Options struct {
	Seed       int64
	RecordPath string
	Input      InputSource
	Store      CheckpointStore
}

// Playing is the main gameplay scene
type Playing struct {
	config   *config.GameConfig
	weapons  *entity.WeaponTable
	stage    *entity.Stage
	world    *sim.World
	state    state.GameState
	input    InputSource
	screenW  int
	screenH  int
	tileSize int
	dt       float64

	// Feedback
	hitstopFrames int
	shake         *gween.Tween
	shakeAmount   float64

	// Checkpoints
	store      CheckpointStore
	checkpoint *sim.Checkpoint
	cleared    bool

	seed int64

	// Input recording
	recorder       *Recorder
	recordFilename string
}

// New creates a new Playing scene over stage.
// If opts.RecordPath is not empty, gameplay will be recorded.
func New(cfg *config.GameConfig, stage *entity.Stage, opts Options) (*Playing, error) {
	weapons, err := cfg.Weapons.Table()
	if err != nil {
		return nil, fmt.Errorf("failed to create playing scene: %w", err)
	}

	// Initialize seeded RNG for deterministic randomness
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world, err := sim.NewWorld(sim.Config{
		Physics:  cfg.Physics,
		Entities: cfg.Entities,
		Weapons:  weapons,
		Seed:     seed,
	}, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to create playing scene: %w", err)
	}

	p := &Playing{
		config:         cfg,
		weapons:        weapons,
		stage:          stage,
		world:          world,
		state:          state.StatePlaying,
		input:          opts.Input,
		screenW:        cfg.Physics.Display.ScreenWidth,
		screenH:        cfg.Physics.Display.ScreenHeight,
		tileSize:       stage.TileSize,
		dt:             1.0 / float64(max(1, cfg.Physics.Display.Framerate)),
		store:          opts.Store,
		seed:           seed,
		recordFilename: opts.RecordPath,
	}

	// Initialize recorder if recording is enabled
	if opts.RecordPath != "" {
		p.recorder = NewRecorder(seed, stage.Name, p.dt)
		log.Printf("Recording enabled: %s (seed: %d)", opts.RecordPath, seed)
	}

	// Set up world callbacks
	world.OnEnemyHit = func(_ entity.EntityID, _ int) {
		p.hitstopFrames = hitstopFrames
		p.startShake(shakeHit)
	}
	world.OnPlayerHurt = func(_ int) {
		p.startShake(shakeHurt)
	}

	p.loadCheckpoint()
	return p, nil
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(_ float64) (scene.Scene, error) {
	p.updateShake()

	// Handle hitstop
	if p.hitstopFrames > 0 {
		p.hitstopFrames--
		return nil, nil
	}

	switch p.state {
	case state.StatePlaying:
		p.updatePlaying()
	case state.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			p.state = state.StatePlaying
		}
	case state.StateGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyZ) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			p.restart()
		}
	case state.StateRegionClear:
		if inpututil.IsKeyJustPressed(ebiten.KeyZ) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			p.state = state.StatePlaying
		}
	}

	return nil, nil // nil = stay on this scene
}

func (p *Playing) updatePlaying() {
	// Check for pause
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.state = state.StatePaused
		return
	}

	// F5: Save checkpoint, F6: Save recording, F9: Load checkpoint
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		p.saveCheckpoint()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) && p.recorder != nil {
		p.saveRecording()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		p.restoreCheckpoint()
	}

	p.step()
}

// step advances the world by one frame of input.
func (p *Playing) step() {
	var input system.InputSnapshot
	if p.input != nil {
		in, ok := p.input.Next()
		if !ok {
			log.Printf("Replay finished at frame %d", p.world.Frame())
			p.state = state.StateReplayEnded
			return
		}
		input = in
	}

	// Record input if recording is enabled
	if p.recorder != nil {
		p.recorder.RecordFrame(input)
	}

	p.world.Step(input, p.dt)

	// Check game over
	if player := p.world.Player(); player == nil || player.Dead {
		p.state = state.StateGameOver
		// Auto-save recording on game over
		if p.recorder != nil {
			p.saveRecording()
		}
		return
	}

	if !p.cleared && len(p.stage.Spawns) > 0 && len(p.world.Enemies()) == 0 {
		p.cleared = true
		p.state = state.StateRegionClear
		log.Printf("Region %s cleared at frame %d", p.world.Region(), p.world.Frame())
		p.saveCheckpoint()
	}
}

func (p *Playing) startShake(intensity float64) {
	if intensity < p.shakeAmount {
		return
	}
	p.shake = gween.New(float32(intensity), 0, shakeDuration, ease.OutQuad)
	p.shakeAmount = intensity
}

func (p *Playing) updateShake() {
	if p.shake == nil {
		return
	}
	v, done := p.shake.Update(float32(p.dt))
	p.shakeAmount = float64(v)
	if done {
		p.shake = nil
		p.shakeAmount = 0
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// saveCheckpoint captures the world and writes it to the store, if any.
func (p *Playing) saveCheckpoint() {
	p.checkpoint = p.world.Checkpoint()
	if p.store == nil {
		return
	}
	if err := p.store.Save(p.world.Region(), p.checkpoint); err != nil {
		log.Printf("Failed to save checkpoint: %v", err)
		return
	}
	log.Printf("Checkpoint saved: %s (frame %d)", p.world.Region(), p.checkpoint.Frame)
}

// loadCheckpoint resumes from save data on scene creation.
func (p *Playing) loadCheckpoint() {
	if p.store == nil {
		return
	}
	cp, err := p.store.Load(p.world.Region())
	if errors.Is(err, persistence.ErrNoCheckpoint) {
		return
	}
	if err != nil {
		log.Printf("Failed to load checkpoint: %v", err)
		return
	}
	if err := p.world.Restore(cp); err != nil {
		log.Printf("Failed to restore checkpoint: %v", err)
		return
	}
	p.checkpoint = cp
	log.Printf("Checkpoint restored: %s (frame %d)", cp.Region, cp.Frame)
}

// restoreCheckpoint rewinds to the last checkpoint taken this session.
func (p *Playing) restoreCheckpoint() bool {
	if p.checkpoint == nil {
		return false
	}
	if err := p.world.Restore(p.checkpoint); err != nil {
		log.Printf("Failed to restore checkpoint: %v", err)
		return false
	}
	return true
}

func (p *Playing) restart() {
	if !p.restoreCheckpoint() {
		if err := p.world.Respawn(); err != nil {
			log.Printf("Failed to respawn: %v", err)
			return
		}
	}
	p.cleared = len(p.stage.Spawns) > 0 && len(p.world.Enemies()) == 0
	p.state = state.StatePlaying

	// Reset recorder if recording
	if p.recordFilename != "" {
		p.recorder = NewRecorder(p.seed, p.stage.Name, p.dt)
		log.Printf("Recording restarted (seed: %d)", p.seed)
	}
}

// camera returns the top-left world pixel shown on screen, clamped to the region.
func (p *Playing) camera() (int, int) {
	var center entity.Vec2
	if player := p.world.Player(); player != nil {
		center = player.Center()
	}
	camX := int(center.X) - p.screenW/2
	camY := int(center.Y) - p.screenH/2

	bounds := p.world.Bounds()
	maxCamX := int(bounds.X) - p.screenW
	maxCamY := int(bounds.Y) - p.screenH
	camX = max(0, min(camX, maxCamX))
	camY = max(0, min(camY, maxCamY))
	return camX, camY
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	// Fill background
	screen.Fill(colorBG)

	camX, camY := p.camera()

	// Apply screen shake
	if p.shakeAmount > 0 {
		camX += int(p.shakeAmount * (2*randFloat() - 1))
		camY += int(p.shakeAmount * (2*randFloat() - 1))
	}

	// Draw world
	snap := p.world.Snapshot()
	p.drawTiles(screen, camX, camY)
	p.drawEnemies(screen, snap.Enemies, camX, camY)
	p.drawPlayer(screen, camX, camY)

	// Draw UI (HP bar, weapon, etc.) - always on top
	p.drawUI(screen)

	// Draw state overlays
	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress ESC to resume")
	case state.StateGameOver:
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 180}, "GAME OVER\n\nPress Z to restart")
	case state.StateRegionClear:
		p.drawOverlay(screen, color.RGBA{0, 60, 0, 150}, "REGION CLEAR\n\nPress Z to continue")
	case state.StateReplayEnded:
		text := fmt.Sprintf("REPLAY FINISHED\n\nFrame %d", snap.Frame)
		p.drawOverlay(screen, color.RGBA{0, 0, 60, 150}, text)
	}
}

func (p *Playing) drawTiles(screen *ebiten.Image, camX, camY int) {
	startTileX := camX / p.tileSize
	startTileY := camY / p.tileSize
	endTileX := (camX+p.screenW)/p.tileSize + 1
	endTileY := (camY+p.screenH)/p.tileSize + 1

	for ty := startTileY; ty <= endTileY && ty < p.stage.Height; ty++ {
		for tx := startTileX; tx <= endTileX && tx < p.stage.Width; tx++ {
			if tx < 0 || ty < 0 {
				continue
			}
			tile := p.stage.GetTile(tx, ty)
			if tile.Type == entity.TileEmpty {
				continue
			}

			x := float64(tx*p.tileSize - camX)
			y := float64(ty*p.tileSize - camY)

			var c color.Color
			switch tile.Type {
			case entity.TileWall:
				c = colorWall
			case entity.TileSpike:
				c = colorSpike
			}

			ebitenutil.DrawRect(screen, x, y, float64(p.tileSize), float64(p.tileSize), c)
		}
	}
}

func (p *Playing) drawPlayer(screen *ebiten.Image, camX, camY int) {
	player := p.world.Player()
	if player == nil {
		return
	}

	x := player.Pos.X - float64(camX)
	y := player.Pos.Y - float64(camY)

	// Flash when invincible
	playerColor := colorPlayer
	if player.IsInvincible() && int(player.InvincibleTimer*10)%2 == 0 {
		playerColor = color.RGBA{255, 255, 255, 200}
	}
	ebitenutil.DrawRect(screen, x, y, player.Size.X, player.Size.Y, playerColor)

	if player.Attacking {
		weapon, _ := p.weapons.Get(player.Weapon)
		hb := player.AttackHitbox()
		ebitenutil.DrawRect(screen, hb.X-float64(camX), hb.Y-float64(camY), hb.W, hb.H, parseColor(weapon.Color, 160))
	}
}

func (p *Playing) drawEnemies(screen *ebiten.Image, enemies []entity.Snapshot, camX, camY int) {
	debug := ebiten.IsKeyPressed(ebiten.KeyTab)

	for _, e := range enemies {
		if !e.Active {
			continue
		}

		x := e.Pos.X - float64(camX)
		y := e.Pos.Y - float64(camY)

		c := colorEnemy
		if e.Kind == entity.KindBoss {
			c = colorBoss
		}
		ebitenutil.DrawRect(screen, x, y, e.Size.X, e.Size.Y, c)

		for _, r := range e.Projectiles {
			ebitenutil.DrawRect(screen, r.X-float64(camX), r.Y-float64(camY), r.W, r.H, colorFireball)
		}

		// Draw attack areas on Tab
		if debug {
			for _, a := range e.Attacks {
				ebitenutil.DrawRect(screen, a.Rect.X-float64(camX), a.Rect.Y-float64(camY), a.Rect.W, a.Rect.H, colorAttackArea)
			}
			ebitenutil.DebugPrintAt(screen, e.State, int(x), int(y)-12)
		}
	}
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	player := p.world.Player()
	if player == nil {
		return
	}

	barX := 10.0
	barY := float64(p.screenH - 20)
	barW := 100.0
	barH := 6.0

	// Health
	healthRatio := max(0, float64(player.Health)/float64(player.MaxHealth))
	ebitenutil.DrawRect(screen, barX, barY, barW, barH, colorHealthBG)
	ebitenutil.DrawRect(screen, barX, barY, barW*healthRatio, barH, colorHealthFG)

	// Stamina
	if player.MaxStamina > 0 {
		staminaRatio := max(0, player.Stamina/player.MaxStamina)
		ebitenutil.DrawRect(screen, barX, barY+barH+2, barW, 3, colorHealthBG)
		ebitenutil.DrawRect(screen, barX, barY+barH+2, barW*staminaRatio, 3, colorStaminaFG)
	}

	// Weapon
	weapon, _ := p.weapons.Get(player.Weapon)
	ebitenutil.DebugPrintAt(screen, weapon.Name, int(barX+barW)+10, int(barY)-6)

	// Controls
	debugText := "Arrows: Move | Z: Jump | X: Attack | C: Dash | A: Weapon | F5: Save | ESC: Pause"
	ebitenutil.DebugPrint(screen, debugText)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.RGBA, text string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), c)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-60, p.screenH/2-20)
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	// Scene is already initialized in New
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
}

// Layout returns the game's screen dimensions (used by game.Game)
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.screenW, p.screenH
}

// World exposes the simulation for headless drivers.
func (p *Playing) World() *sim.World {
	return p.world
}

// State returns the current scene state.
func (p *Playing) State() state.GameState {
	return p.state
}

// parseColor reads "#rrggbb", falling back to white.
func parseColor(s string, alpha uint8) color.RGBA {
	if s == "" {
		s = defaultSwingFG
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return color.RGBA{255, 255, 255, alpha}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), alpha}
}

var randState uint32 = 1

func randFloat() float64 {
	randState = randState*1103515245 + 12345
	return float64(randState&0x7fffffff) / float64(0x7fffffff)
}
