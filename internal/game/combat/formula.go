package combat

import "math"

// EffectiveLevel is floor((floor(level*prayer) + styleBonus + 8) * void).
func EffectiveLevel(level int, prayerMultiplier float64, styleBonus int, voidMultiplier float64) int {
	boosted := int(math.Floor(float64(level) * prayerMultiplier))
	return int(math.Floor(float64(boosted+styleBonus+8) * voidMultiplier))
}

// AttackRoll is floor(effective * (bonus + 64) * gear).
func AttackRoll(effectiveLevel, bonus int, gearMultiplier float64) int {
	return int(math.Floor(float64(effectiveLevel*(bonus+64)) * gearMultiplier))
}

// MobDefenceRoll is (level + 9) * (bonus + 64). Mobs and entities defend with it.
func MobDefenceRoll(level, bonus int) int {
	return (level + 9) * (bonus + 64)
}

// PlayerDefenceLevel is the effective defence level of a praying unit.
func PlayerDefenceLevel(defence int, defenceMultiplier float64) int {
	return int(math.Floor(float64(defence)*defenceMultiplier)) + 8
}

// PlayerMagicDefenceLevel blends 70% magic with 30% defence, each boosted by its
// own prayer multiplier.
func PlayerMagicDefenceLevel(magic int, magicMultiplier float64, defence int, defenceMultiplier float64) int {
	m := math.Floor(float64(magic) * magicMultiplier)
	d := math.Floor(float64(defence) * defenceMultiplier)
	return int(math.Floor(m*0.7+d*0.3)) + 8
}

// HitChance converts an attack and defence roll into a hit probability.
// The +1 offsets keep the divisors positive for any non-negative rolls.
//
// Precondition: attackRoll >= 0 and defenceRoll >= 0.
// Postcondition: 0 <= result <= 1.
func HitChance(attackRoll, defenceRoll int) float64 {
	a := float64(attackRoll)
	d := float64(defenceRoll)
	if attackRoll < defenceRoll {
		return a / (2 * (d + 1))
	}
	return 1 - (d+1)/(2*(a+1))
}

// MaxHit is floor(floor((effective*(strength+64) + 320) / 640) * gear * overall).
// Melee passes melee strength and ranged passes ranged strength.
func MaxHit(effectiveStrength, strengthBonus int, gearMultiplier, overallMultiplier float64) int {
	base := (effectiveStrength*(strengthBonus+64) + 320) / 640
	return int(math.Floor(float64(base) * gearMultiplier * overallMultiplier))
}

// MagicMaxHit scales a spell's base damage by the magic damage multiplier.
func MagicMaxHit(baseSpellDamage int, magicDamage, gearMultiplier, overallMultiplier float64) int {
	return int(math.Floor(float64(baseSpellDamage) * magicDamage * gearMultiplier * overallMultiplier))
}
