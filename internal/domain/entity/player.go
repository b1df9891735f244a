package entity

import "fmt"

// PlayerState is the player's locomotion/ability state.
type PlayerState int

const (
	StateIdle PlayerState = iota
	StateWalk
	StateTurn
	StateJumpUp
	StateJumpDown
	StateDash
	StateClimb
	StateWallSlide
	StateAttack
)

var playerStateNames = [...]string{
	StateIdle:      "idle",
	StateWalk:      "walk",
	StateTurn:      "turn",
	StateJumpUp:    "jump_up",
	StateJumpDown:  "jump_down",
	StateDash:      "dash",
	StateClimb:     "climb",
	StateWallSlide: "wall_slide",
	StateAttack:    "attack",
}

func (s PlayerState) String() string {
	if int(s) >= 0 && int(s) < len(playerStateNames) {
		return playerStateNames[s]
	}
	return fmt.Sprintf("PlayerState(%d)", int(s))
}

// Player represents the player entity
type Player struct {
	Body
	ID EntityID

	Health    int
	MaxHealth int
	Dead      bool
	State     PlayerState

	// Jump
	JumpCount       int
	MaxJumps        int
	CoyoteTimer     float64
	JumpBufferTimer float64
	Jumping         bool
	PogoJump        bool
	WallJumpLock    float64
	jumpedThisFrame bool

	// Dash
	Dashing          bool
	DashTimer        float64
	DashCooldown     float64
	DashDir          Vec2
	CanDash          bool
	WavedashUnlocked bool

	// Climb
	Climbing     bool
	Stamina      float64
	MaxStamina   float64
	StaminaDelay float64

	// Attack
	Weapon         WeaponID
	Attacking      bool
	AttackTimer    float64
	AttackCooldown float64
	AttackDir      AttackDir
	ComboTier      int
	ComboWindow    float64
	hitOffset      Rect
	hitSet         map[EntityID]struct{}
	RecoilTimer    float64

	// Timers
	InvincibleTimer float64
	HazardCooldown  float64
}

// NewPlayer creates a new player with default values.
func NewPlayer(x, y, w, h float64, maxHealth int, maxStamina float64, weapon WeaponID) (*Player, error) {
	body, err := NewBody(x, y, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	if maxHealth <= 0 {
		return nil, fmt.Errorf("failed to create player: max health %d", maxHealth)
	}
	return &Player{
		Body:       body,
		Health:     maxHealth,
		MaxHealth:  maxHealth,
		MaxJumps:   2,
		CanDash:    true,
		Stamina:    maxStamina,
		MaxStamina: maxStamina,
		Weapon:     weapon,
		hitSet:     make(map[EntityID]struct{}),
	}, nil
}

// Alive reports whether the player can still be targeted.
func (p *Player) Alive() bool {
	return !p.Dead && p.Health > 0
}

// Velocity returns the current velocity.
func (p *Player) Velocity() Vec2 {
	return p.Vel
}

// IsInvincible returns true if player is currently invincible
func (p *Player) IsInvincible() bool {
	return p.InvincibleTimer > 0
}

// StartAttack opens a swing with a hitbox relative to the player's position.
func (p *Player) StartAttack(dir AttackDir, hitbox Rect, duration float64) {
	p.Attacking = true
	p.AttackDir = dir
	p.AttackTimer = duration
	p.hitOffset = hitbox.Translate(p.Pos.Scale(-1))
	clear(p.hitSet)
}

// AttackHitbox returns the live hitbox in world space, or an empty rect.
func (p *Player) AttackHitbox() Rect {
	if !p.Attacking {
		return Rect{}
	}
	return p.hitOffset.Translate(p.Pos)
}

// EndAttack closes the swing and clears its hit-set.
func (p *Player) EndAttack() {
	p.Attacking = false
	p.AttackTimer = 0
	p.hitOffset = Rect{}
	clear(p.hitSet)
}

// HasHit reports whether the current swing already damaged id.
func (p *Player) HasHit(id EntityID) bool {
	_, ok := p.hitSet[id]
	return ok
}

// MarkHit records id in the current swing's hit-set.
func (p *Player) MarkHit(id EntityID) {
	if p.hitSet == nil {
		p.hitSet = make(map[EntityID]struct{})
	}
	p.hitSet[id] = struct{}{}
}

// HitCount returns the number of targets hit by the current swing.
func (p *Player) HitCount() int {
	return len(p.hitSet)
}

// Interrupt cancels attack, dash and climb, leaving the player in a safe state.
func (p *Player) Interrupt() {
	p.EndAttack()
	p.Dashing = false
	p.DashTimer = 0
	p.Climbing = false
}

// TakeDamage applies damage unless invincible or dead. Returns true if applied.
func (p *Player) TakeDamage(amount int) bool {
	if !p.Alive() || p.IsInvincible() || amount <= 0 {
		return false
	}
	p.Health -= amount
	p.Interrupt()
	if p.Health <= 0 {
		p.Health = 0
		p.Dead = true
		p.Vel = Vec2{}
	}
	return true
}

// ApplyHazard applies environmental damage, gated by its own cooldown
// rather than invincibility frames.
func (p *Player) ApplyHazard(amount int, cooldown float64) bool {
	if !p.Alive() || p.HazardCooldown > 0 || amount <= 0 {
		return false
	}
	p.HazardCooldown = cooldown
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Dead = true
		p.Interrupt()
		p.Vel = Vec2{}
	}
	return true
}

// MarkJumped records that a jump impulse was applied this frame.
func (p *Player) MarkJumped() { p.jumpedThisFrame = true }

// JumpedThisFrame reports whether a jump impulse was applied this frame.
func (p *Player) JumpedThisFrame() bool { return p.jumpedThisFrame }

// ResetFrameFlags clears per-frame markers.
func (p *Player) ResetFrameFlags() { p.jumpedThisFrame = false }

// Snapshot returns the renderer/persistence view.
func (p *Player) Snapshot() Snapshot {
	s := Snapshot{
		ID:        p.ID,
		Kind:      KindPlayer,
		Pos:       p.Pos,
		Size:      p.Size,
		Facing:    p.Facing,
		State:     p.State.String(),
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Active:    !p.Dead,
	}
	switch {
	case p.Attacking:
		s.Timer = p.AttackTimer
	case p.Dashing:
		s.Timer = p.DashTimer
	}
	return s
}
