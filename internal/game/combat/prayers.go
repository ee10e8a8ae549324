package combat

import "github.com/cory-johannsen/inferno/internal/game/prayer"

// Prayer multipliers keyed by prayer name.
var (
	attackPrayerMultipliers = map[string]float64{
		"Clarity of Thought":  1.05,
		"Improved Reflexes":   1.10,
		"Incredible Reflexes": 1.15,
		"Chivalry":            1.15,
		"Piety":               1.20,
	}
	strengthPrayerMultipliers = map[string]float64{
		"Burst of Strength":   1.05,
		"Superhuman Strength": 1.10,
		"Ultimate Strength":   1.15,
		"Chivalry":            1.18,
		"Piety":               1.23,
	}
	defencePrayerMultipliers = map[string]float64{
		"Thick Skin":   1.05,
		"Mystic Will":  1.05,
		"Rock Skin":    1.10,
		"Mystic Lore":  1.10,
		"Steel Skin":   1.15,
		"Mystic Might": 1.15,
		"Chivalry":     1.20,
		"Piety":        1.25,
		"Rigour":       1.25,
		"Augury":       1.25,
	}
	rangeAttackPrayerMultipliers = map[string]float64{
		"Sharp Eye": 1.05,
		"Hawk Eye":  1.10,
		"Eagle Eye": 1.15,
		"Rigour":    1.20,
	}
	rangeStrengthPrayerMultipliers = map[string]float64{
		"Sharp Eye": 1.05,
		"Hawk Eye":  1.10,
		"Eagle Eye": 1.15,
		"Rigour":    1.23,
	}
	magicAttackPrayerMultipliers = map[string]float64{
		"Mystic Will":  1.05,
		"Mystic Lore":  1.10,
		"Mystic Might": 1.15,
		"Augury":       1.25,
	}
)

// multiplier returns table[p.Name], or 1 when p is nil or not in the table.
func multiplier(table map[string]float64, p *prayer.Def) float64 {
	if p == nil {
		return 1
	}
	if m, ok := table[p.Name]; ok {
		return m
	}
	return 1
}

// EffectivePrayers are the prayers that influence one attack. Offensive entries
// come from the attacker, Defence and DefenceMagic from the defender, and Overhead
// from the defender.
type EffectivePrayers struct {
	Attack       *prayer.Def
	Strength     *prayer.Def
	Range        *prayer.Def
	Magic        *prayer.Def
	Defence      *prayer.Def
	DefenceMagic *prayer.Def
	Overhead     *prayer.Def
}

// AttackMultiplier is the melee accuracy prayer multiplier.
func (e EffectivePrayers) AttackMultiplier() float64 {
	return multiplier(attackPrayerMultipliers, e.Attack)
}

// StrengthMultiplier is the melee strength prayer multiplier.
func (e EffectivePrayers) StrengthMultiplier() float64 {
	return multiplier(strengthPrayerMultipliers, e.Strength)
}

// RangeAttackMultiplier is the ranged accuracy prayer multiplier.
func (e EffectivePrayers) RangeAttackMultiplier() float64 {
	return multiplier(rangeAttackPrayerMultipliers, e.Range)
}

// RangeStrengthMultiplier is the ranged strength prayer multiplier.
func (e EffectivePrayers) RangeStrengthMultiplier() float64 {
	return multiplier(rangeStrengthPrayerMultipliers, e.Range)
}

// MagicAttackMultiplier is the magic accuracy prayer multiplier.
func (e EffectivePrayers) MagicAttackMultiplier() float64 {
	return multiplier(magicAttackPrayerMultipliers, e.Magic)
}

// DefenceMultiplier is the defender's defence prayer multiplier.
func (e EffectivePrayers) DefenceMultiplier() float64 {
	return multiplier(defencePrayerMultipliers, e.Defence)
}

// DefenceMagicMultiplier is the defender's magic level prayer multiplier, used
// when defending against magic.
func (e EffectivePrayers) DefenceMagicMultiplier() float64 {
	return multiplier(magicAttackPrayerMultipliers, e.DefenceMagic)
}

func firstWith(prayers []*prayer.Def, feature string) *prayer.Def {
	for _, p := range prayers {
		if p.Has(feature) {
			return p
		}
	}
	return nil
}

func overheadOf(prayers []*prayer.Def) *prayer.Def {
	for _, p := range prayers {
		if p.IsOverhead() {
			return p
		}
	}
	return nil
}

// ResolveEffectivePrayers picks the prayers that apply to an attack. Mobs never
// pray, so a mob attacker contributes no offensive prayers and a mob defender
// contributes neither defence nor overhead.
func ResolveEffectivePrayers(attacker, defender Combatant) EffectivePrayers {
	var e EffectivePrayers
	if attacker.Kind() != KindMob {
		active := attacker.ActivePrayers()
		e.Attack = firstWith(active, prayer.FeatureOffensiveAttack)
		e.Strength = firstWith(active, prayer.FeatureOffensiveStrength)
		e.Range = firstWith(active, prayer.FeatureOffensiveRange)
		e.Magic = firstWith(active, prayer.FeatureOffensiveMagic)
	}
	if defender.Kind() != KindMob {
		active := defender.ActivePrayers()
		e.Defence = firstWith(active, prayer.FeatureDefence)
		e.DefenceMagic = firstWith(active, prayer.FeatureOffensiveMagic)
		e.Overhead = overheadOf(active)
	}
	return e
}

// IsBlocked reports whether overhead fully protects against style.
func IsBlocked(style Style, overhead *prayer.Def) bool {
	if overhead == nil {
		return false
	}
	f := overhead.Feature()
	return f != "" && f == style.Family()
}
