package system

import (
	"math"

	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

// walkEpsilon is the horizontal speed below which a grounded player reads as idle.
const walkEpsilon = 1.0

// PlayerController turns input into player velocity and ability state.
// A frame runs Update, then physics, then AfterCollision and Finalize.
type PlayerController struct {
	config  *config.PhysicsConfig
	weapons *entity.WeaponTable
}

// NewPlayerController creates a new player controller
func NewPlayerController(cfg *config.PhysicsConfig, weapons *entity.WeaponTable) *PlayerController {
	return &PlayerController{
		config:  cfg,
		weapons: weapons,
	}
}

// Update advances timers and applies input for one frame.
func (c *PlayerController) Update(player *entity.Player, input InputSnapshot, dt float64) {
	player.ResetFrameFlags()
	c.updateTimers(player, dt)

	if player.Dead {
		player.Vel.X = entity.Approach(player.Vel.X, 0, c.config.Movement.GroundDecel*dt)
		return
	}

	c.updateFacing(player, input)
	c.handleWeaponSwitch(player, input)
	c.handleAttack(player, input)
	c.handleDash(player, input)

	// Dash velocity is locked for its whole duration
	if player.Dashing {
		player.Vel = player.DashDir.Scale(c.config.Dash.Speed)
		if input.JumpPressed {
			player.JumpBufferTimer = c.config.Jump.JumpBuffer
		}
		return
	}

	c.handleJump(player, input)
	c.handleClimb(player, input, dt)
	c.handleMovement(player, input, dt)
	c.handleVariableJump(player, input)
}

// AfterCollision applies contact feedback from the resolver.
func (c *PlayerController) AfterCollision(player *entity.Player, contact entity.Contact) {
	if !contact.Ground {
		return
	}

	if player.Dashing && !player.WasOnGround {
		c.wavedash(player)
	}

	player.JumpCount = 0
	player.Jumping = false
	player.PogoJump = false
	player.CanDash = true
	player.CoyoteTimer = c.config.Jump.CoyoteTime

	// A press buffered before touchdown fires on the landing frame
	if !player.WasOnGround && player.JumpBufferTimer > 0 && !player.Dead && !player.JumpedThisFrame() {
		player.JumpCount = 1
		c.launch(player, c.config.Jump.Force)
	}
}

// Finalize derives the visible state from the resolved frame.
func (c *PlayerController) Finalize(player *entity.Player, input InputSnapshot) {
	player.State = c.stateFor(player, input)
}

// updateTimers counts down every player timer
func (c *PlayerController) updateTimers(player *entity.Player, dt float64) {
	// Coyote time
	if player.OnGround {
		player.CoyoteTimer = c.config.Jump.CoyoteTime
	} else {
		player.CoyoteTimer = entity.CountDown(player.CoyoteTimer, dt)
	}

	player.JumpBufferTimer = entity.CountDown(player.JumpBufferTimer, dt)
	player.WallJumpLock = entity.CountDown(player.WallJumpLock, dt)
	player.InvincibleTimer = entity.CountDown(player.InvincibleTimer, dt)
	player.HazardCooldown = entity.CountDown(player.HazardCooldown, dt)
	player.RecoilTimer = entity.CountDown(player.RecoilTimer, dt)

	// Dash
	player.DashCooldown = entity.CountDown(player.DashCooldown, dt)
	if player.Dashing {
		player.DashTimer = entity.CountDown(player.DashTimer, dt)
		if player.DashTimer == 0 {
			c.endDash(player)
		}
	}

	// Attack
	if player.Attacking {
		player.AttackTimer = entity.CountDown(player.AttackTimer, dt)
		if player.AttackTimer == 0 {
			player.EndAttack()
			player.AttackCooldown = c.swingCooldown(player)
			player.ComboWindow = c.config.Attack.ComboWindow
		}
	} else {
		player.AttackCooldown = entity.CountDown(player.AttackCooldown, dt)
		player.ComboWindow = entity.CountDown(player.ComboWindow, dt)
	}

	// Stamina regenerates only after a pause in spending
	if !player.Climbing {
		player.StaminaDelay = entity.CountDown(player.StaminaDelay, dt)
		if player.StaminaDelay == 0 && player.Stamina < player.MaxStamina {
			player.Stamina = math.Min(player.MaxStamina, player.Stamina+c.config.Climb.RegenRate*dt)
		}
	}

	// Reset dash on ground
	if player.OnGround {
		player.CanDash = true
	}
}

func (c *PlayerController) updateFacing(player *entity.Player, input InputSnapshot) {
	if player.Attacking || player.Dashing || player.Climbing || player.WallJumpLock > 0 {
		return
	}
	if h := input.Horizontal(); h != 0 {
		player.Facing = int(h)
	}
}

// handleWeaponSwitch cycles weapons between swings
func (c *PlayerController) handleWeaponSwitch(player *entity.Player, input InputSnapshot) {
	if !input.SpecialPressed || player.Attacking || c.weapons == nil {
		return
	}
	player.Weapon = c.weapons.Next(player.Weapon)
}

// handleAttack starts a swing and advances the combo chain
func (c *PlayerController) handleAttack(player *entity.Player, input InputSnapshot) {
	if !input.AttackPressed || player.Attacking || player.Dashing || player.AttackCooldown > 0 {
		return
	}
	if c.weapons == nil {
		return
	}
	weapon, ok := c.weapons.Get(player.Weapon)
	if !ok {
		return
	}

	dir := entity.AttackSide
	switch {
	case input.Up && !input.Down:
		dir = entity.AttackUp
	case input.Down && !input.Up && !player.OnGround:
		dir = entity.AttackDown
	}

	tier := 0
	if player.ComboWindow > 0 {
		tier = (player.ComboTier + 1) % c.config.Attack.TierCount()
	}
	player.ComboTier = tier
	player.ComboWindow = 0

	t := c.config.Attack.Tier(tier)
	reach := weapon.Reach.Scale(t.Reach)
	player.Climbing = false
	player.StartAttack(dir, c.attackHitbox(player, dir, reach), weapon.Duration*t.Duration)
}

// attackHitbox places the swing rectangle relative to the player's box.
// Reach.X is length along the swing, Reach.Y its thickness.
func (c *PlayerController) attackHitbox(player *entity.Player, dir entity.AttackDir, reach entity.Vec2) entity.Rect {
	r := player.Rect()
	center := r.Center()

	switch dir {
	case entity.AttackUp:
		w := math.Max(reach.Y, r.W)
		return entity.Rect{X: center.X - w/2, Y: r.Y - reach.X, W: w, H: reach.X}
	case entity.AttackDown:
		w := math.Max(reach.Y, r.W)
		return entity.Rect{X: center.X - w/2, Y: r.Bottom(), W: w, H: reach.X}
	}

	x := r.Right()
	if player.Facing < 0 {
		x = r.X - reach.X
	}
	return entity.Rect{X: x, Y: center.Y - reach.Y/2, W: reach.X, H: reach.Y}
}

func (c *PlayerController) swingCooldown(player *entity.Player) float64 {
	cooldown := c.config.Attack.Tier(player.ComboTier).Cooldown
	if c.weapons != nil {
		if weapon, ok := c.weapons.Get(player.Weapon); ok {
			cooldown *= weapon.Cooldown
		}
	}
	return cooldown
}

// handleDash starts an eight-way dash
func (c *PlayerController) handleDash(player *entity.Player, input InputSnapshot) {
	if !input.DashPressed || player.Dashing || player.Attacking || !player.CanDash || player.DashCooldown > 0 {
		return
	}

	dir := entity.Vec2{X: input.Horizontal(), Y: input.Vertical()}.Normalize()
	if dir == (entity.Vec2{}) {
		dir = entity.Vec2{X: float64(player.Facing)}
	}

	player.Dashing = true
	player.DashTimer = c.config.Dash.Duration
	player.DashCooldown = c.config.Dash.Duration + c.config.Dash.Cooldown
	player.DashDir = dir
	player.CanDash = false
	player.Climbing = false
	player.Jumping = false
	player.Vel = dir.Scale(c.config.Dash.Speed)
}

func (c *PlayerController) endDash(player *entity.Player) {
	player.Dashing = false
	player.DashTimer = 0
	if math.Abs(player.Vel.Y) > c.config.Movement.MaxSpeed {
		player.Vel.Y *= c.config.Dash.EndDamp
	}
}

// wavedash converts a downward dash that reaches the ground into
// horizontal speed, or stops it when the technique is locked.
func (c *PlayerController) wavedash(player *entity.Player) {
	player.Dashing = false
	player.DashTimer = 0
	player.Vel.Y = 0

	if !player.WavedashUnlocked {
		player.Vel.X = 0
		return
	}
	dir := entity.Sign(player.DashDir.X)
	if dir == 0 {
		dir = float64(player.Facing)
	}
	player.Vel.X = dir * c.config.Dash.Speed * c.config.Dash.WavedashBoost
}

// handleJump resolves wall, ground (with coyote time) and air jumps
func (c *PlayerController) handleJump(player *entity.Player, input InputSnapshot) {
	// Buffer jump input
	if input.JumpPressed {
		player.JumpBufferTimer = c.config.Jump.JumpBuffer
	}
	if player.JumpBufferTimer <= 0 {
		return
	}

	jump := c.config.Jump
	force := jump.Force

	switch {
	case player.OnWall && !player.OnGround:
		player.Vel.X = -float64(player.WallDir) * jump.WallJumpSpeed
		player.Facing = -player.WallDir
		player.WallJumpLock = jump.WallJumpLock
		player.JumpCount = 1
	case player.OnGround || player.CoyoteTimer > 0:
		player.JumpCount = 1
	default:
		// Walking off a ledge spends the ground jump
		if player.JumpCount == 0 {
			player.JumpCount = 1
		}
		if player.JumpCount >= player.MaxJumps {
			return
		}
		player.JumpCount++
		force = jump.DoubleJumpForce
	}

	c.launch(player, force)
}

func (c *PlayerController) launch(player *entity.Player, force float64) {
	player.Vel.Y = -force
	player.OnGround = false
	player.CoyoteTimer = 0
	player.JumpBufferTimer = 0
	player.Jumping = true
	player.PogoJump = false
	player.Climbing = false
	player.MarkJumped()
}

// handleVariableJump cuts the rise short when jump is released early
func (c *PlayerController) handleVariableJump(player *entity.Player, input InputSnapshot) {
	if player.Vel.Y >= 0 {
		player.Jumping = false
		player.PogoJump = false
		return
	}
	if !player.Jumping || player.PogoJump || input.JumpHeld {
		return
	}
	if cut := c.config.Jump.CutSpeed; player.Vel.Y < -cut {
		player.Vel.Y = -cut
	}
}

// handleClimb grips walls while the player pushes into them
func (c *PlayerController) handleClimb(player *entity.Player, input InputSnapshot, dt float64) {
	grip := player.OnWall && player.WallDir != 0 && input.Horizontal() == float64(player.WallDir)
	canClimb := grip &&
		player.Stamina > 0 &&
		!player.Attacking &&
		!player.JumpedThisFrame() &&
		player.WallJumpLock == 0 &&
		(!player.OnGround || input.Up)
	if !canClimb {
		player.Climbing = false
		return
	}

	climb := c.config.Climb
	player.Climbing = true
	player.Facing = player.WallDir

	drain := climb.SlideDrain
	switch input.Vertical() {
	case -1:
		player.Vel.Y = -climb.ClimbSpeed
		drain = climb.ClimbDrain
	case 1:
		player.Vel.Y = climb.ClimbSpeed
		drain = climb.ClimbDrain
	default:
		player.Vel.Y = climb.SlideSpeed
	}

	player.Stamina = math.Max(0, player.Stamina-drain*dt)
	player.StaminaDelay = climb.RegenDelay
}

// handleMovement applies the ground/air acceleration table
func (c *PlayerController) handleMovement(player *entity.Player, input InputSnapshot, dt float64) {
	if player.Climbing {
		player.Vel.X = 0
		return
	}
	if player.WallJumpLock > 0 {
		return
	}

	m := c.config.Movement
	// Recoil and knockback ignore input but never exceed the run speed
	if player.RecoilTimer > 0 {
		player.Vel.X = entity.Clamp(player.Vel.X, -m.MaxSpeed, m.MaxSpeed)
		return
	}

	target := input.Horizontal() * m.MaxSpeed
	vx := player.Vel.X

	accel, decel, turn, drag := m.AirAccel, m.AirDecel, m.AirTurnAccel, m.AirDrag
	if player.OnGround {
		accel, decel, turn, drag = m.GroundAccel, m.GroundDecel, m.GroundTurnAccel, m.GroundDrag
	}

	switch {
	case math.Abs(vx) > m.MaxSpeed && (target == 0 || entity.Sign(target) == entity.Sign(vx)):
		// Over-speed from dashes or knockback bleeds off toward the cap
		player.Vel.X = entity.Approach(vx, entity.Sign(vx)*m.MaxSpeed, drag*dt)
	case target == 0:
		player.Vel.X = entity.Approach(vx, 0, decel*dt)
	case vx != 0 && entity.Sign(target) != entity.Sign(vx):
		player.Vel.X = entity.Approach(vx, target, turn*dt)
	default:
		player.Vel.X = entity.Approach(vx, target, accel*dt)
	}
}

func (c *PlayerController) stateFor(player *entity.Player, input InputSnapshot) entity.PlayerState {
	h := input.Horizontal()
	switch {
	case player.Attacking:
		return entity.StateAttack
	case player.Dashing:
		return entity.StateDash
	case player.Climbing && input.Vertical() != 0:
		return entity.StateClimb
	case player.Climbing:
		return entity.StateWallSlide
	case !player.OnGround && player.Vel.Y < 0:
		return entity.StateJumpUp
	case !player.OnGround:
		return entity.StateJumpDown
	case h != 0 && player.Vel.X != 0 && entity.Sign(h) != entity.Sign(player.Vel.X):
		return entity.StateTurn
	case math.Abs(player.Vel.X) > walkEpsilon:
		return entity.StateWalk
	}
	return entity.StateIdle
}
