package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/duskfall/internal/domain/entity"
)

var (
	pressJump  = InputSnapshot{JumpPressed: true, JumpHeld: true}
	holdRight  = InputSnapshot{Right: true}
	pressDash  = InputSnapshot{DashPressed: true}
	pressSwing = InputSnapshot{AttackPressed: true}
)

// airborne lifts the player gap units above the floor with no velocity.
func airborne(r *rig, gap float64) {
	p := r.player
	p.Pos.Y = floorY - p.Size.Y - gap
	p.Vel = entity.Vec2{}
	p.OnGround = false
	p.CoyoteTimer = 0
}

func TestPlayerController_GroundJumpAndLanding(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player
	require.True(t, p.OnGround)
	assert.Equal(t, entity.StateIdle, p.State)

	r.step(pressJump)

	assert.Equal(t, -r.cfg.Jump.Force, p.Vel.Y)
	assert.False(t, p.OnGround)
	assert.Equal(t, 1, p.JumpCount)
	assert.Equal(t, entity.StateJumpUp, p.State)

	sawApex := false
	for i := 0; i < 240 && !p.OnGround; i++ {
		r.step(InputSnapshot{JumpHeld: true})
		if p.Vel.Y >= 0 {
			sawApex = true
		}
	}

	assert.True(t, sawApex)
	assert.True(t, p.OnGround)
	assert.Equal(t, 0, p.JumpCount)
	assert.Equal(t, floorY-p.Size.Y, p.Pos.Y)
}

func TestPlayerController_VariableJumpHeight(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	r.step(pressJump)
	r.step(InputSnapshot{})

	assert.Greater(t, p.Vel.Y, -r.cfg.Jump.CutSpeed-1)
	assert.Less(t, p.Vel.Y, 0.0)
}

func TestPlayerController_JumpBuffer(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player
	airborne(r, 3)
	p.JumpCount = p.MaxJumps

	r.step(pressJump)
	require.Equal(t, p.MaxJumps, p.JumpCount, "no air jump left")

	bufferFrames := int(r.cfg.Jump.JumpBuffer / testDT)
	landed := false
	for k := 1; k <= bufferFrames; k++ {
		contact := r.step(InputSnapshot{JumpHeld: true})
		if contact.Ground {
			landed = true
			assert.Equal(t, -r.cfg.Jump.Force, p.Vel.Y, "jumps on the landing frame")
			assert.Equal(t, 1, p.JumpCount)
			assert.False(t, p.OnGround)
			break
		}
	}
	assert.True(t, landed)
}

func TestPlayerController_ExpiredBufferDoesNotJump(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player
	airborne(r, 40)
	p.JumpCount = p.MaxJumps

	r.step(pressJump)
	for i := 0; i < 120 && !p.OnGround; i++ {
		r.step(InputSnapshot{})
	}

	require.True(t, p.OnGround)
	assert.Zero(t, p.JumpCount)
	assert.GreaterOrEqual(t, p.Vel.Y, 0.0)
}

// walkOffLedge runs right until the player leaves a ledge ending at x=120.
func walkOffLedge(t *testing.T) *rig {
	t.Helper()
	r := newRig(t, []entity.Wall{solid(0, floorY, 120, 16)})
	for i := 0; i < 120 && r.player.OnGround; i++ {
		r.step(holdRight)
	}
	require.False(t, r.player.OnGround)
	return r
}

func TestPlayerController_CoyoteTime(t *testing.T) {
	t.Run("jump inside the window is a ground jump", func(t *testing.T) {
		r := walkOffLedge(t)
		p := r.player

		r.step(InputSnapshot{Right: true, JumpPressed: true, JumpHeld: true})

		assert.Equal(t, -r.cfg.Jump.Force, p.Vel.Y)
		assert.Equal(t, 1, p.JumpCount)

		// The double jump is still available
		r.step(InputSnapshot{JumpPressed: true, JumpHeld: true})
		assert.Equal(t, -r.cfg.Jump.DoubleJumpForce, p.Vel.Y)
		assert.Equal(t, 2, p.JumpCount)

		// And nothing after it
		r.step(InputSnapshot{JumpPressed: true, JumpHeld: true})
		assert.Equal(t, 2, p.JumpCount)
		assert.Greater(t, p.Vel.Y, -r.cfg.Jump.DoubleJumpForce)
	})

	t.Run("jump after the window spends the double jump", func(t *testing.T) {
		r := walkOffLedge(t)
		p := r.player

		r.stepN(10, InputSnapshot{})
		require.Zero(t, p.CoyoteTimer)

		r.step(pressJump)

		assert.Equal(t, -r.cfg.Jump.DoubleJumpForce, p.Vel.Y)
		assert.Equal(t, 2, p.JumpCount)
	})
}

func TestPlayerController_Dash(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player
	airborne(r, 50)
	y := p.Pos.Y

	r.step(InputSnapshot{Right: true, DashPressed: true})

	assert.True(t, p.Dashing)
	assert.Equal(t, entity.StateDash, p.State)
	assert.Equal(t, r.cfg.Dash.Speed, p.Vel.X)
	assert.Zero(t, p.Vel.Y)
	assert.Equal(t, y, p.Pos.Y, "no gravity while dashing")
	assert.False(t, p.CanDash)

	r.stepN(20, InputSnapshot{})
	assert.False(t, p.Dashing)

	// Airborne dash is not refreshed until landing
	r.step(pressDash)
	assert.False(t, p.Dashing)
}

func TestPlayerController_DashDefaultsToFacing(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player
	p.Facing = -1

	r.step(pressDash)

	assert.Equal(t, entity.Vec2{X: -1}, p.DashDir)
	assert.Equal(t, -r.cfg.Dash.Speed, p.Vel.X)
}

func TestPlayerController_Wavedash(t *testing.T) {
	tests := []struct {
		name     string
		unlocked bool
		wantVX   float64
	}{
		{"unlocked keeps boosted momentum", true, 300 * 1.2},
		{"locked stops on landing", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, floorWalls())
			p := r.player
			p.WavedashUnlocked = tt.unlocked
			airborne(r, 4)

			r.step(InputSnapshot{Right: true, Down: true, DashPressed: true})
			require.True(t, p.Dashing)

			for i := 0; i < 10 && !p.OnGround; i++ {
				r.step(InputSnapshot{Right: true, Down: true})
			}

			require.True(t, p.OnGround)
			assert.False(t, p.Dashing)
			assert.InDelta(t, tt.wantVX, p.Vel.X, 1e-9)
			assert.Zero(t, p.Vel.Y)
		})
	}
}

// wallRig places the player airborne and flush against a tall wall on its right.
func wallRig(t *testing.T) *rig {
	t.Helper()
	r := newRig(t, append(floorWalls(), solid(200, 0, 16, floorY)))
	p := r.player
	p.Pos = entity.Vec2{X: 200 - p.Size.X, Y: 100}
	p.Vel = entity.Vec2{}
	p.OnGround = false
	r.step(holdRight)
	require.True(t, p.OnWall)
	require.Equal(t, 1, p.WallDir)
	return r
}

func TestPlayerController_Climb(t *testing.T) {
	r := wallRig(t)
	p := r.player
	y := p.Pos.Y

	r.stepN(10, InputSnapshot{Right: true, Up: true})

	assert.True(t, p.Climbing)
	assert.Equal(t, entity.StateClimb, p.State)
	assert.Less(t, p.Pos.Y, y)
	assert.InDelta(t, r.cfg.Climb.MaxStamina-10*r.cfg.Climb.ClimbDrain*testDT, p.Stamina, 1e-6)

	r.step(holdRight)
	assert.Equal(t, entity.StateWallSlide, p.State)
	assert.Equal(t, r.cfg.Climb.SlideSpeed, p.Vel.Y)
}

func TestPlayerController_StaminaBounds(t *testing.T) {
	r := wallRig(t)
	p := r.player
	maxStamina := r.cfg.Climb.MaxStamina
	p.Stamina = 1

	inputs := []InputSnapshot{
		{Right: true, Up: true},
		{Right: true, Down: true},
		holdRight,
	}
	for i := 0; i < 30 && p.Stamina > 0; i++ {
		r.step(inputs[i%len(inputs)])
		require.GreaterOrEqual(t, p.Stamina, 0.0)
		require.LessOrEqual(t, p.Stamina, maxStamina)
	}
	require.Zero(t, p.Stamina)

	r.step(InputSnapshot{Right: true, Up: true})
	assert.False(t, p.Climbing, "no grip without stamina")

	// Regen waits for the delay after the last spend
	spent := p.Stamina
	delayFrames := int(r.cfg.Climb.RegenDelay/testDT) - 2
	r.stepN(delayFrames, InputSnapshot{})
	assert.Equal(t, spent, p.Stamina)

	for i := 0; i < 600; i++ {
		r.step(InputSnapshot{})
		require.LessOrEqual(t, p.Stamina, maxStamina)
	}
	assert.Equal(t, maxStamina, p.Stamina)
}

func TestPlayerController_WallJump(t *testing.T) {
	r := wallRig(t)
	p := r.player
	r.step(InputSnapshot{Right: true, Up: true})
	require.True(t, p.Climbing)

	r.step(InputSnapshot{Right: true, JumpPressed: true, JumpHeld: true})

	assert.False(t, p.Climbing)
	assert.Equal(t, -r.cfg.Jump.WallJumpSpeed, p.Vel.X)
	assert.Equal(t, -r.cfg.Jump.Force, p.Vel.Y)
	assert.Equal(t, -1, p.Facing)
	assert.Greater(t, p.WallJumpLock, 0.0)
	assert.Equal(t, 1, p.JumpCount)
}

// finishSwing steps until the swing ends and its cooldown elapses.
func finishSwing(t *testing.T, r *rig) {
	t.Helper()
	for i := 0; i < 120 && (r.player.Attacking || r.player.AttackCooldown > 0); i++ {
		r.step(InputSnapshot{})
	}
	require.False(t, r.player.Attacking)
	require.Zero(t, r.player.AttackCooldown)
}

func TestPlayerController_ComboChain(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	for _, want := range []int{0, 1, 2} {
		r.step(pressSwing)
		require.True(t, p.Attacking)
		assert.Equal(t, want, p.ComboTier)
		assert.Equal(t, entity.StateAttack, p.State)
		finishSwing(t, r)
		require.Greater(t, p.ComboWindow, 0.0)
	}

	// Chain wraps after the last tier
	r.step(pressSwing)
	assert.Equal(t, 0, p.ComboTier)
	finishSwing(t, r)

	r.step(pressSwing)
	assert.Equal(t, 1, p.ComboTier)
	finishSwing(t, r)

	// Letting the window lapse restarts the chain
	r.stepN(int(r.cfg.Attack.ComboWindow/testDT)+2, InputSnapshot{})
	require.Zero(t, p.ComboWindow)
	r.step(pressSwing)
	assert.Equal(t, 0, p.ComboTier)
}

func TestPlayerController_AttackDirections(t *testing.T) {
	t.Run("side swing extends in facing direction", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		r.step(pressSwing)

		hb := p.AttackHitbox()
		assert.Equal(t, entity.AttackSide, p.AttackDir)
		assert.Equal(t, p.Rect().Right(), hb.X)
		assert.Equal(t, 24.0, hb.W)
	})

	t.Run("down on the ground is a side swing", func(t *testing.T) {
		r := newRig(t, floorWalls())
		r.step(InputSnapshot{Down: true, AttackPressed: true})
		assert.Equal(t, entity.AttackSide, r.player.AttackDir)
	})

	t.Run("down in the air strikes below", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		airborne(r, 60)
		r.step(InputSnapshot{Down: true, AttackPressed: true})

		assert.Equal(t, entity.AttackDown, p.AttackDir)
		assert.InDelta(t, p.Rect().Bottom(), p.AttackHitbox().Y, 1e-9)
	})

	t.Run("up strikes above", func(t *testing.T) {
		r := newRig(t, floorWalls())
		p := r.player
		r.step(InputSnapshot{Up: true, AttackPressed: true})

		assert.Equal(t, entity.AttackUp, p.AttackDir)
		assert.Equal(t, p.Rect().Y, p.AttackHitbox().Bottom())
	})
}

func TestPlayerController_WeaponSwitch(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	r.step(InputSnapshot{SpecialPressed: true})
	assert.Equal(t, entity.WeaponID("spear"), p.Weapon)

	r.step(pressSwing)
	r.step(InputSnapshot{SpecialPressed: true})
	assert.Equal(t, entity.WeaponID("spear"), p.Weapon, "no switching mid-swing")

	finishSwing(t, r)
	r.step(InputSnapshot{SpecialPressed: true})
	assert.Equal(t, entity.WeaponID("sword"), p.Weapon)
}

func TestPlayerController_States(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	r.stepN(10, holdRight)
	assert.Equal(t, entity.StateWalk, p.State)
	assert.Equal(t, 1, p.Facing)

	r.step(InputSnapshot{Left: true})
	assert.Equal(t, entity.StateTurn, p.State)
	assert.Equal(t, -1, p.Facing)

	r.stepN(30, InputSnapshot{})
	assert.Equal(t, entity.StateIdle, p.State)
}

func TestPlayerController_MovementCapsSpeed(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	r.stepN(60, holdRight)
	assert.Equal(t, r.cfg.Movement.MaxSpeed, p.Vel.X)

	// Over-speed bleeds off toward the cap instead of snapping
	p.Vel.X = 300
	r.step(holdRight)
	assert.Less(t, p.Vel.X, 300.0)
	assert.Greater(t, p.Vel.X, r.cfg.Movement.MaxSpeed)
}

func TestPlayerController_RecoilClampsSpeed(t *testing.T) {
	tests := []struct {
		name string
		vx   float64
		want float64
	}{
		{"knockback right", 150, 120},
		{"knockback left", -300, -120},
		{"under the cap", 80, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, floorWalls())
			p := r.player
			p.Vel.X = tt.vx
			p.RecoilTimer = 1

			// Input is ignored while recoiling
			r.step(InputSnapshot{Right: tt.vx < 0, Left: tt.vx > 0})
			assert.Equal(t, tt.want, p.Vel.X)
		})
	}
}

func TestPlayerController_TimersNeverNegative(t *testing.T) {
	r := newRig(t, floorWalls())
	p := r.player

	inputs := []InputSnapshot{pressJump, pressDash, pressSwing, holdRight, {}, {Left: true, AttackPressed: true}}
	for i := 0; i < 300; i++ {
		r.step(inputs[i%len(inputs)])
		for name, v := range map[string]float64{
			"coyote":     p.CoyoteTimer,
			"buffer":     p.JumpBufferTimer,
			"dash":       p.DashTimer,
			"dashCool":   p.DashCooldown,
			"attack":     p.AttackTimer,
			"attackCool": p.AttackCooldown,
			"combo":      p.ComboWindow,
			"wallLock":   p.WallJumpLock,
			"iframes":    p.InvincibleTimer,
		} {
			require.GreaterOrEqual(t, v, 0.0, "%s at frame %d", name, i)
		}
	}
}
