package system

import (
	"math"

	"github.com/younwookim/duskfall/internal/domain/enemy"
	"github.com/younwookim/duskfall/internal/domain/entity"
	"github.com/younwookim/duskfall/internal/infrastructure/config"
)

// Roster resolves entity ids to live enemies.
type Roster interface {
	Enemy(id entity.EntityID) (enemy.Enemy, bool)
	Enemies() []enemy.Enemy
}

// CombatSystem applies damage between the player, enemies and hazards
type CombatSystem struct {
	config  *config.PhysicsConfig
	weapons *entity.WeaponTable
	index   *SpatialIndex

	// Event callbacks
	OnEnemyHit   func(id entity.EntityID, damage int)
	OnPlayerHurt func(damage int)
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(cfg *config.PhysicsConfig, weapons *entity.WeaponTable, index *SpatialIndex) *CombatSystem {
	return &CombatSystem{
		config:  cfg,
		weapons: weapons,
		index:   index,
	}
}

// Update resolves one frame of combat. Entity boxes in the index must
// already reflect this frame's collision pass.
func (s *CombatSystem) Update(player *entity.Player, roster Roster) {
	if player != nil {
		s.playerAttack(player, roster)
		s.enemyAttacks(player, roster)
		s.hazards(player)
	}
	s.projectilesVsWalls(roster)
}

// Damage returns the damage dealt by weapon at combo tier.
func (s *CombatSystem) Damage(weapon entity.Weapon, tier int) int {
	return int(math.Round(float64(weapon.Damage) * s.config.Attack.Tier(tier).Damage))
}

// playerAttack hits every hurtable enemy overlapping the swing once
func (s *CombatSystem) playerAttack(player *entity.Player, roster Roster) {
	if !player.Attacking || !player.Alive() {
		return
	}
	hitbox := player.AttackHitbox()
	if hitbox.Empty() {
		return
	}
	weapon, ok := s.weapons.Get(player.Weapon)
	if !ok {
		return
	}

	for _, id := range s.index.EntitiesNear(hitbox) {
		if id == player.ID || player.HasHit(id) {
			continue
		}
		e, ok := roster.Enemy(id)
		if !ok || !e.Active() || !e.Hurtable() || !hitbox.Overlaps(e.Hurtbox()) {
			continue
		}

		player.MarkHit(id)
		damage := s.Damage(weapon, player.ComboTier)
		if !e.TakeDamage(damage) {
			continue
		}
		s.rebound(player, e.Hurtbox().Center())
		if s.OnEnemyHit != nil {
			s.OnEnemyHit(id, damage)
		}
	}
}

// rebound applies pogo on down-strikes and recoil on side strikes
func (s *CombatSystem) rebound(player *entity.Player, target entity.Vec2) {
	switch player.AttackDir {
	case entity.AttackDown:
		player.Vel.Y = -s.config.Combat.PogoImpulse
		player.JumpCount = 0
		player.CanDash = true
		player.Jumping = true
		player.PogoJump = true
	case entity.AttackSide:
		away := -entity.Sign(target.X - player.Center().X)
		if away == 0 {
			away = -float64(player.Facing)
		}
		player.Vel.X = away * s.config.Combat.RecoilSpeed
		player.RecoilTimer = s.config.Combat.RecoilDuration
	}
}

// enemyAttacks applies enemy attack areas, contact bodies and projectiles
// to the player
func (s *CombatSystem) enemyAttacks(player *entity.Player, roster Roster) {
	for _, e := range roster.Enemies() {
		if !e.Active() {
			continue
		}
		for _, area := range e.AttackAreas() {
			if !player.Alive() {
				return
			}
			if !area.Hits(player.Rect()) {
				continue
			}
			if area.Projectile != nil {
				area.Projectile.Deactivate()
			}
			s.hurtPlayer(player, area.Damage, area.Origin())
		}
	}
}

// hurtPlayer applies damage, invincibility frames and knockback away from origin
func (s *CombatSystem) hurtPlayer(player *entity.Player, damage int, origin entity.Vec2) bool {
	if !player.TakeDamage(damage) {
		return false
	}
	player.InvincibleTimer = s.config.Combat.Iframes

	if !player.Dead {
		dir := entity.Sign(player.Center().X - origin.X)
		if dir == 0 {
			dir = -float64(player.Facing)
		}
		kb := s.config.Combat.Knockback
		player.Vel = entity.Vec2{X: dir * kb.Force, Y: -kb.UpForce}
		player.RecoilTimer = s.config.Combat.RecoilDuration
	}

	if s.OnPlayerHurt != nil {
		s.OnPlayerHurt(damage)
	}
	return true
}

// hazards applies spike damage on its own cooldown
func (s *CombatSystem) hazards(player *entity.Player) {
	if !player.Alive() || player.HazardCooldown > 0 {
		return
	}
	r := player.Rect()
	for _, w := range s.index.HazardsNear(r) {
		if !touches(r, w.Rect) {
			continue
		}
		if player.ApplyHazard(s.config.Combat.HazardDamage, s.config.Combat.HazardCooldown) {
			if !player.Dead {
				player.Vel.Y = -s.config.Combat.Knockback.UpForce
			}
			if s.OnPlayerHurt != nil {
				s.OnPlayerHurt(s.config.Combat.HazardDamage)
			}
		}
		return
	}
}

// touches is Overlaps that also counts standing on top of b, so solid
// spikes still hurt.
func touches(a, b entity.Rect) bool {
	if a.Overlaps(b) {
		return true
	}
	return a.X < b.Right() && a.Right() > b.X && math.Abs(a.Bottom()-b.Y) <= groundEpsilon
}

// projectilesVsWalls removes projectiles that struck collidable geometry
func (s *CombatSystem) projectilesVsWalls(roster Roster) {
	for _, e := range roster.Enemies() {
		for _, p := range e.Projectiles() {
			if p.Active && s.index.Blocked(p.Rect()) {
				p.Deactivate()
			}
		}
	}
}
