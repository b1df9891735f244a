package config

// PhysicsConfig is the root config for physics.json
type PhysicsConfig struct {
	Display   DisplayConfig   `json:"display"`
	Physics   PhysicsSettings `json:"physics"`
	Movement  MovementConfig  `json:"movement"`
	Jump      JumpConfig      `json:"jump"`
	Dash      DashConfig      `json:"dash"`
	Climb     ClimbConfig     `json:"climb"`
	Attack    AttackConfig    `json:"attack"`
	Collision CollisionConfig `json:"collision"`
	Combat    CombatConfig    `json:"combat"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Gravity      float64 `json:"gravity"`
	MaxFallSpeed float64 `json:"maxFallSpeed"`
	MaxDeltaTime float64 `json:"maxDeltaTime"` // frame hitches are clamped to this
}

// MovementConfig is the horizontal acceleration table.
// Drag applies while moving faster than MaxSpeed in the input direction.
type MovementConfig struct {
	MaxSpeed        float64 `json:"maxSpeed"`
	GroundAccel     float64 `json:"groundAccel"`
	GroundDecel     float64 `json:"groundDecel"`
	GroundTurnAccel float64 `json:"groundTurnAccel"`
	GroundDrag      float64 `json:"groundDrag"`
	AirAccel        float64 `json:"airAccel"`
	AirDecel        float64 `json:"airDecel"`
	AirTurnAccel    float64 `json:"airTurnAccel"`
	AirDrag         float64 `json:"airDrag"`
}

type JumpConfig struct {
	Force           float64 `json:"force"`
	DoubleJumpForce float64 `json:"doubleJumpForce"`
	CutSpeed        float64 `json:"cutSpeed"` // upward speed cap after an early release
	CoyoteTime      float64 `json:"coyoteTime"`
	JumpBuffer      float64 `json:"jumpBuffer"`
	MaxJumps        int     `json:"maxJumps"`
	WallJumpSpeed   float64 `json:"wallJumpSpeed"`
	WallJumpLock    float64 `json:"wallJumpLock"`
}

type DashConfig struct {
	Speed            float64 `json:"speed"`
	Duration         float64 `json:"duration"`
	Cooldown         float64 `json:"cooldown"`
	EndDamp          float64 `json:"endDamp"`
	WavedashBoost    float64 `json:"wavedashBoost"`
	WavedashUnlocked bool    `json:"wavedashUnlocked"`
}

type ClimbConfig struct {
	ClimbSpeed float64 `json:"climbSpeed"`
	SlideSpeed float64 `json:"slideSpeed"`
	MaxStamina float64 `json:"maxStamina"`
	ClimbDrain float64 `json:"climbDrain"`
	SlideDrain float64 `json:"slideDrain"`
	RegenRate  float64 `json:"regenRate"`
	RegenDelay float64 `json:"regenDelay"`
}

// AttackConfig holds combo chaining parameters. Tiers[i] scales tier i.
type AttackConfig struct {
	ComboWindow float64     `json:"comboWindow"`
	Tiers       []ComboTier `json:"tiers"`
}

type ComboTier struct {
	Reach    float64 `json:"reach"`
	Duration float64 `json:"duration"`
	Cooldown float64 `json:"cooldown"`
	Damage   float64 `json:"damage"`
}

// TierCount returns the chain length, at least one.
func (a AttackConfig) TierCount() int {
	return max(1, len(a.Tiers))
}

// Tier returns the multipliers for tier i, or neutral ones when unset.
func (a AttackConfig) Tier(i int) ComboTier {
	if i < 0 || i >= len(a.Tiers) {
		return ComboTier{Reach: 1, Duration: 1, Cooldown: 1, Damage: 1}
	}
	return a.Tiers[i]
}

type CollisionConfig struct {
	StepHeight      float64 `json:"stepHeight"`
	StepMaxVY       float64 `json:"stepMaxVY"`
	GroundTolerance float64 `json:"groundTolerance"`
	WallProbe       float64 `json:"wallProbe"`
	CellSize        int     `json:"cellSize"`
}

type CombatConfig struct {
	Iframes        float64         `json:"iframes"`
	Knockback      KnockbackConfig `json:"knockback"`
	PogoImpulse    float64         `json:"pogoImpulse"`
	RecoilSpeed    float64         `json:"recoilSpeed"`
	RecoilDuration float64         `json:"recoilDuration"`
	HazardDamage   int             `json:"hazardDamage"`
	HazardCooldown float64         `json:"hazardCooldown"`
}

type KnockbackConfig struct {
	Force   float64 `json:"force"`
	UpForce float64 `json:"upForce"`
}
