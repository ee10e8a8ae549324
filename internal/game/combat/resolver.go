package combat

import (
	"github.com/cory-johannsen/inferno/internal/game/prayer"
)

// Combatant is the view of a unit the resolver needs.
type Combatant interface {
	Kind() Kind
	CurrentStats() Stats
	Bonuses() Bonuses
	ActivePrayers() []*prayer.Def
}

// Source is the subset of dice.Source used by the resolver.
// Using a local interface avoids a circular import.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// AttackBonuses are the per-attack modifiers a weapon passes to the resolver.
// Zero multipliers are read as 1.
type AttackBonuses struct {
	Style                Style
	StyleBonus           int
	VoidMultiplier       float64
	GearMultiplier       float64
	OverallMultiplier    float64
	MagicBaseSpellDamage int
	EffectivePrayers     EffectivePrayers
}

func (b AttackBonuses) withDefaults() AttackBonuses {
	if b.VoidMultiplier == 0 {
		b.VoidMultiplier = 1
	}
	if b.GearMultiplier == 0 {
		b.GearMultiplier = 1
	}
	if b.OverallMultiplier == 0 {
		b.OverallMultiplier = 1
	}
	return b
}

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	Style       Style
	AttackRoll  int
	DefenceRoll int
	HitChance   float64
	MaxHit      int
	// Hit is true when the accuracy draw succeeded. A hit may still roll 0 damage.
	Hit     bool
	Blocked bool
	Damage  int
}

// Rolls computes the accuracy rolls and max hit for an attack without drawing
// any randomness.
//
// Precondition: b.Style is a valid attack style.
func Rolls(attacker, defender Combatant, b AttackBonuses) (attackRoll, defenceRoll, maxHit int) {
	b = b.withDefaults()
	e := b.EffectivePrayers
	stats := attacker.CurrentStats()
	bonuses := attacker.Bonuses()

	switch {
	case b.Style.IsMelee():
		eff := EffectiveLevel(stats.Attack, e.AttackMultiplier(), b.StyleBonus, b.VoidMultiplier)
		attackRoll = AttackRoll(eff, bonuses.Attack.For(b.Style), b.GearMultiplier)
		str := EffectiveLevel(stats.Strength, e.StrengthMultiplier(), b.StyleBonus, b.VoidMultiplier)
		maxHit = MaxHit(str, bonuses.Other.MeleeStrength, b.GearMultiplier, b.OverallMultiplier)
	case b.Style == StyleRange:
		eff := EffectiveLevel(stats.Range, e.RangeAttackMultiplier(), b.StyleBonus, b.VoidMultiplier)
		attackRoll = AttackRoll(eff, bonuses.Attack.Range, b.GearMultiplier)
		str := EffectiveLevel(stats.Range, e.RangeStrengthMultiplier(), b.StyleBonus, b.VoidMultiplier)
		maxHit = MaxHit(str, bonuses.Other.RangedStrength, b.GearMultiplier, b.OverallMultiplier)
	case b.Style == StyleMagic:
		eff := EffectiveLevel(stats.Magic, e.MagicAttackMultiplier(), b.StyleBonus, b.VoidMultiplier)
		attackRoll = AttackRoll(eff, bonuses.Attack.Magic, b.GearMultiplier)
		magicDamage := bonuses.Other.MagicDamage
		if magicDamage == 0 {
			magicDamage = 1
		}
		maxHit = MagicMaxHit(b.MagicBaseSpellDamage, magicDamage, b.GearMultiplier, b.OverallMultiplier)
	default:
		panic("combat: unknown attack style " + string(b.Style))
	}
	return attackRoll, DefenceRoll(defender, b.Style, e), maxHit
}

// DefenceRoll computes the defender's roll against style. Mobs and entities use
// the flat +9 form; players use their effective defence level with prayers.
func DefenceRoll(defender Combatant, style Style, e EffectivePrayers) int {
	stats := defender.CurrentStats()
	bonus := defender.Bonuses().Defence.For(style)
	if defender.Kind() != KindPlayer {
		if style == StyleMagic {
			return MobDefenceRoll(stats.Magic, bonus)
		}
		return MobDefenceRoll(stats.Defence, bonus)
	}
	level := PlayerDefenceLevel(stats.Defence, e.DefenceMultiplier())
	if style == StyleMagic {
		level = PlayerMagicDefenceLevel(stats.Magic, e.DefenceMagicMultiplier(), stats.Defence, e.DefenceMultiplier())
	}
	return level * (bonus + 64)
}

// ResolveAttack resolves one attack from attacker against defender.
//
// Effective prayers are resolved from both units and stored on the result's
// bonuses. A blocked attack deals 0 and draws nothing from src. Otherwise one
// uniform draw is compared against the hit chance and, on a hit, damage is drawn
// uniformly from [0, MaxHit].
//
// Precondition: attacker, defender and src must be non-nil; b.Style must be valid.
// Postcondition: 0 <= Damage <= MaxHit.
func ResolveAttack(attacker, defender Combatant, b AttackBonuses, src Source) AttackResult {
	b.EffectivePrayers = ResolveEffectivePrayers(attacker, defender)
	attackRoll, defenceRoll, maxHit := Rolls(attacker, defender, b)
	res := AttackResult{
		Style:       b.Style,
		AttackRoll:  attackRoll,
		DefenceRoll: defenceRoll,
		HitChance:   HitChance(attackRoll, defenceRoll),
		MaxHit:      maxHit,
	}
	if IsBlocked(b.Style, b.EffectivePrayers.Overhead) {
		res.Blocked = true
		return res
	}
	res.Hit = src.Float64() < res.HitChance
	if res.Hit && maxHit > 0 {
		res.Damage = src.Intn(maxHit + 1)
	}
	return res
}
