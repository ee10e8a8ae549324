// Package unit implements players and mobs: their stats, equipment, weapons and
// the per-tick state machine that moves them, resolves their inbound hits and
// kills them.
package unit

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
	"github.com/cory-johannsen/inferno/internal/game/projectile"
)

// DeathAnimationLength is the number of ticks a unit spends dying before removal.
const DeathAnimationLength = 3

// Unit is a player or a mob.
//
// A Unit is owned by the region that registered it. Aggro and projectile
// endpoints are non-owning references: the referent may be removed at any time
// and is then treated as gone.
type Unit struct {
	ID   uuid.UUID
	Name string

	kind     combat.Kind
	location grid.Location
	size     int

	// Stats are the baseline levels; Current are the boosted or drained levels.
	Stats   combat.Stats
	Current combat.Stats

	bonuses    combat.Bonuses
	Equipment  Equipment
	setEffects []*SetEffect

	Prayers *prayer.Controller
	drainer prayer.Drainer

	weapons      map[combat.Style]Weapon
	attackStyle  combat.Style
	meleeIfClose combat.Style
	attackRange  int
	attackSpeed  int

	Aggro         *Unit
	AttackDelay   int
	HasLOS        bool
	Frozen        int
	Stunned       int
	SpawnDelay    int
	Dying         int
	AutoRetaliate bool
	// RetaliateOnAnyHit switches aggro to whoever last hit the unit.
	RetaliateOnAnyHit bool

	Incoming projectile.Queue
	behavior Behavior
	removed  bool

	// Destination is where a player is walking; nil when standing still.
	Destination *grid.Location
	Running     bool

	template *Template
}

func newUnit(kind combat.Kind, name string, loc grid.Location, size int, stats combat.Stats) *Unit {
	return &Unit{
		ID:            uuid.New(),
		Name:          name,
		kind:          kind,
		location:      loc,
		size:          size,
		Stats:         stats,
		Current:       stats.Clone(),
		bonuses:       combat.EmptyBonuses(),
		Equipment:     Equipment{},
		weapons:       make(map[combat.Style]Weapon),
		Dying:         -1,
		AutoRetaliate: true,
	}
}

// Kind reports whether the unit is a player or a mob.
func (u *Unit) Kind() combat.Kind { return u.kind }

// IsPlayer reports whether the unit is the player.
func (u *Unit) IsPlayer() bool { return u.kind == combat.KindPlayer }

// Location returns the south-west anchor tile.
func (u *Unit) Location() grid.Location { return u.location }

// SetLocation moves the unit without any checks.
func (u *Unit) SetLocation(loc grid.Location) { u.location = loc }

// Size is the footprint edge length in tiles.
func (u *Unit) Size() int { return u.size }

// Box is the unit's footprint.
func (u *Unit) Box() grid.Box { return grid.Footprint(u.location, u.size) }

// Collision makes mobs block movement. Players never block.
func (u *Unit) Collision() grid.Collision {
	if u.kind == combat.KindPlayer {
		return grid.CollisionNone
	}
	return grid.CollisionBlockMovement
}

// LineOfSight is always MaskNone: units never occlude line of sight.
func (u *Unit) LineOfSight() grid.Mask { return grid.MaskNone }

// Center is the visual centre of the footprint.
func (u *Unit) Center() (float64, float64) {
	half := float64(u.size) / 2
	return float64(u.location.X) + half, float64(u.location.Y) - half + 1
}

// CurrentStats returns the current levels.
func (u *Unit) CurrentStats() combat.Stats { return u.Current }

// Bonuses returns the cached equipment bonuses.
func (u *Unit) Bonuses() combat.Bonuses { return u.bonuses }

// SetEffects returns the complete set effects computed by EquipmentChanged.
func (u *Unit) SetEffects() []*SetEffect { return u.setEffects }

// ActivePrayers returns the unit's active prayers; mobs have none.
func (u *Unit) ActivePrayers() []*prayer.Def {
	if u.Prayers == nil {
		return nil
	}
	return u.Prayers.ActivePrayers()
}

// Overhead returns the active overhead prayer, or nil.
func (u *Unit) Overhead() *prayer.Def {
	if u.Prayers == nil {
		return nil
	}
	return u.Prayers.Overhead()
}

// ActivatePrayer switches def on when the unit has prayer points left.
func (u *Unit) ActivatePrayer(def *prayer.Def) bool {
	if u.Prayers == nil || u.Current.Prayer <= 0 {
		return false
	}
	u.Prayers.Activate(def)
	return true
}

// Template returns the mob template, or nil for players.
func (u *Unit) Template() *Template { return u.template }

// Behavior returns the injected strategy, or nil.
func (u *Unit) Behavior() Behavior { return u.behavior }

// SetBehavior injects a strategy.
func (u *Unit) SetBehavior(b Behavior) { u.behavior = b }

// IsDying reports whether the death countdown is running.
func (u *Unit) IsDying() bool { return u.Dying > 0 }

// IsDead reports whether the unit has started dying or finished.
func (u *Unit) IsDead() bool { return u.Dying != -1 }

// HasDied reports whether the unit has started dying or been evicted.
func (u *Unit) HasDied() bool { return u.IsDead() || u.removed }

// Removed reports whether the region has evicted the unit.
func (u *Unit) Removed() bool { return u.removed }

// MarkRemoved is called by the owning region on eviction.
func (u *Unit) MarkRemoved() { u.removed = true }

// IsFrozen reports whether movement is blocked.
func (u *Unit) IsFrozen() bool { return u.Frozen > 0 }

// IsStunned reports whether movement and attacks are blocked.
func (u *Unit) IsStunned() bool { return u.Stunned > 0 }

// CanMove reports whether the unit may step this tick.
func (u *Unit) CanMove() bool {
	return !u.HasLOS && !u.IsFrozen() && !u.IsStunned() && !u.IsDying()
}

// CanAttack reports whether the unit may attack this tick.
func (u *Unit) CanAttack() bool {
	return !u.IsDying() && !u.IsStunned()
}

// Freeze blocks movement for ticks. A shorter freeze never replaces a longer one.
func (u *Unit) Freeze(ticks int) {
	if ticks < u.Frozen {
		return
	}
	u.Frozen = ticks
}

// Stun blocks movement and attacks for ticks. A shorter stun never replaces a
// longer one.
func (u *Unit) Stun(ticks int) {
	if ticks < u.Stunned {
		return
	}
	u.Stunned = ticks
}

// AttackSpeed is the cooldown in ticks between attacks.
func (u *Unit) AttackSpeed() int {
	if u.kind == combat.KindPlayer {
		if w := u.Weapon(); w != nil {
			return w.AttackSpeed()
		}
		return 4
	}
	return u.attackSpeed
}

// AttackRange is the reach in tiles; 1 is melee.
func (u *Unit) AttackRange() int {
	if u.kind == combat.KindPlayer {
		if w := u.Weapon(); w != nil {
			return w.AttackRange()
		}
		return 1
	}
	return u.attackRange
}

// FlinchDelay is the minimum cooldown imposed on a unit that starts retaliating.
func (u *Unit) FlinchDelay() int {
	return u.AttackSpeed() / 2
}

// CombatLevel is the template override, or the level computed from baseline stats.
func (u *Unit) CombatLevel() int {
	if u.template != nil && u.template.CombatLevel > 0 {
		return u.template.CombatLevel
	}
	return combat.CombatLevel(u.Stats)
}

// ClosestTileTo clamps (x, y) onto the unit's footprint.
func (u *Unit) ClosestTileTo(x, y int) grid.Location {
	return u.Box().Clamp(x, y)
}

// DistanceTo is the Chebyshev distance between the closest tiles of two units.
func (u *Unit) DistanceTo(o *Unit) int {
	a := u.ClosestTileTo(o.location.X, o.location.Y)
	b := o.ClosestTileTo(u.location.X, u.location.Y)
	return grid.Chebyshev(a, b)
}

// AttackStyle is the style of the unit's next regular attack.
func (u *Unit) AttackStyle() combat.Style {
	if u.kind == combat.KindPlayer {
		if w := u.Weapon(); w != nil {
			return w.Style()
		}
		return combat.StyleCrush
	}
	return u.attackStyle
}

// Weapon returns the weapon for the unit's regular attack style.
func (u *Unit) Weapon() Weapon {
	if u.kind == combat.KindPlayer {
		return u.weapons[playerWeaponKey]
	}
	return u.weapons[u.attackStyle]
}

// WeaponFor returns the weapon used for style, or nil.
func (u *Unit) WeaponFor(style combat.Style) Weapon {
	if u.kind == combat.KindPlayer {
		return u.Weapon()
	}
	return u.weapons[style]
}

// playerWeaponKey indexes a player's single active weapon.
const playerWeaponKey combat.Style = ""

// Heal restores amount hitpoints when the unit is hurt, never above the baseline.
// It returns the number of hitpoints actually restored.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 || u.Current.Hitpoint >= u.Stats.Hitpoint {
		return 0
	}
	before := u.Current.Hitpoint
	u.Current.Hitpoint = min(u.Stats.Hitpoint, u.Current.Hitpoint+amount)
	return u.Current.Hitpoint - before
}

// AddProjectile queues an inbound hit. A unit still waiting to spawn takes the
// shooter as its aggro when it has none.
func (u *Unit) AddProjectile(p *projectile.Projectile) {
	if from, ok := p.From.(*Unit); ok && u.SpawnDelay > 0 && u.AutoRetaliate && u.Aggro == nil {
		u.Aggro = from
	}
	u.Incoming.Add(p)
}

// SetAggro targets t. A player also stops walking to its previous destination.
func (u *Unit) SetAggro(t *Unit) {
	u.Aggro = t
}

// shouldChangeAggro decides whether a hit from from retargets the unit.
func (u *Unit) shouldChangeAggro(from *Unit) bool {
	if !u.AutoRetaliate || from == nil || from == u {
		return false
	}
	if u.RetaliateOnAnyHit {
		return u.Aggro != from
	}
	return u.Aggro == nil
}

// aggroGone clears an aggro that is dying, dead or removed and reports whether
// it did so.
func (u *Unit) aggroGone() bool {
	if u.Aggro == nil {
		return false
	}
	if u.Aggro.removed || u.Aggro.IsDead() {
		u.Aggro = nil
		return true
	}
	return false
}
