// Package combat implements the accuracy, max hit and blocking rules used to
// resolve a single attack.
package combat

// Kind distinguishes players, mobs and inanimate entities.
type Kind int

const (
	KindMob Kind = iota
	KindPlayer
	KindEntity
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindMob:
		return "mob"
	case KindPlayer:
		return "player"
	case KindEntity:
		return "entity"
	default:
		return "unknown"
	}
}

// Style is an attack style tag.
type Style string

const (
	StyleStab  Style = "stab"
	StyleSlash Style = "slash"
	StyleCrush Style = "crush"
	StyleMagic Style = "magic"
	StyleRange Style = "range"
	// StyleHeal marks healing projectiles. It is never used to roll accuracy.
	StyleHeal Style = "heal"
)

// IsMelee reports whether s is stab, slash or crush.
func (s Style) IsMelee() bool {
	return s == StyleStab || s == StyleSlash || s == StyleCrush
}

// Family collapses the melee styles to "melee". Other styles are their own family.
func (s Style) Family() string {
	if s.IsMelee() {
		return "melee"
	}
	return string(s)
}

// Valid reports whether s is a known attack style.
func (s Style) Valid() bool {
	switch s {
	case StyleStab, StyleSlash, StyleCrush, StyleMagic, StyleRange:
		return true
	}
	return false
}

// Stats is a unit's skill levels. A unit keeps two copies: the baseline and the
// current, boosted or drained, values.
type Stats struct {
	Attack   int `yaml:"attack"`
	Strength int `yaml:"strength"`
	Defence  int `yaml:"defence"`
	Range    int `yaml:"range"`
	Magic    int `yaml:"magic"`
	Hitpoint int `yaml:"hitpoint"`
	Prayer   int `yaml:"prayer"`
}

// Clone returns an independent copy of s.
func (s Stats) Clone() Stats {
	return Stats{
		Attack:   s.Attack,
		Strength: s.Strength,
		Defence:  s.Defence,
		Range:    s.Range,
		Magic:    s.Magic,
		Hitpoint: s.Hitpoint,
		Prayer:   s.Prayer,
	}
}

// StyleBonuses holds one bonus per attack style.
type StyleBonuses struct {
	Stab  int `yaml:"stab"`
	Slash int `yaml:"slash"`
	Crush int `yaml:"crush"`
	Magic int `yaml:"magic"`
	Range int `yaml:"range"`
}

// For returns the bonus for style. Unknown styles have no bonus.
func (b StyleBonuses) For(style Style) int {
	switch style {
	case StyleStab:
		return b.Stab
	case StyleSlash:
		return b.Slash
	case StyleCrush:
		return b.Crush
	case StyleMagic:
		return b.Magic
	case StyleRange:
		return b.Range
	}
	return 0
}

func (b StyleBonuses) add(o StyleBonuses) StyleBonuses {
	return StyleBonuses{
		Stab:  b.Stab + o.Stab,
		Slash: b.Slash + o.Slash,
		Crush: b.Crush + o.Crush,
		Magic: b.Magic + o.Magic,
		Range: b.Range + o.Range,
	}
}

// OtherBonuses are the non-style equipment bonuses. MagicDamage and the crystal
// fields are multipliers.
type OtherBonuses struct {
	MeleeStrength   int     `yaml:"melee_strength"`
	RangedStrength  int     `yaml:"ranged_strength"`
	MagicDamage     float64 `yaml:"magic_damage"`
	Prayer          int     `yaml:"prayer"`
	CrystalAccuracy float64 `yaml:"crystal_accuracy"`
	CrystalDamage   float64 `yaml:"crystal_damage"`
}

// TargetBonuses are multipliers that apply only against some targets.
type TargetBonuses struct {
	Undead float64 `yaml:"undead"`
	Slayer float64 `yaml:"slayer"`
}

// Bonuses is the full equipment bonus sheet of a unit.
type Bonuses struct {
	Attack         StyleBonuses  `yaml:"attack"`
	Defence        StyleBonuses  `yaml:"defence"`
	Other          OtherBonuses  `yaml:"other"`
	TargetSpecific TargetBonuses `yaml:"target_specific"`
}

// EmptyBonuses is the bonus sheet of a unit wearing nothing. Multiplier fields
// start at 1 so that summing item bonuses onto it yields 1 plus their total.
func EmptyBonuses() Bonuses {
	return Bonuses{Other: OtherBonuses{MagicDamage: 1, CrystalAccuracy: 1, CrystalDamage: 1}}
}

// Merge returns the field-wise sum of b and o.
func (b Bonuses) Merge(o Bonuses) Bonuses {
	return Bonuses{
		Attack:  b.Attack.add(o.Attack),
		Defence: b.Defence.add(o.Defence),
		Other: OtherBonuses{
			MeleeStrength:   b.Other.MeleeStrength + o.Other.MeleeStrength,
			RangedStrength:  b.Other.RangedStrength + o.Other.RangedStrength,
			MagicDamage:     b.Other.MagicDamage + o.Other.MagicDamage,
			Prayer:          b.Other.Prayer + o.Other.Prayer,
			CrystalAccuracy: b.Other.CrystalAccuracy + o.Other.CrystalAccuracy,
			CrystalDamage:   b.Other.CrystalDamage + o.Other.CrystalDamage,
		},
		TargetSpecific: TargetBonuses{
			Undead: b.TargetSpecific.Undead + o.TargetSpecific.Undead,
			Slayer: b.TargetSpecific.Slayer + o.TargetSpecific.Slayer,
		},
	}
}

// CombatLevel computes the displayed combat level from baseline stats.
func CombatLevel(s Stats) int {
	base := 0.25 * float64(s.Defence+s.Hitpoint+s.Prayer/2)
	melee := 13.0 / 40.0 * float64(s.Attack+s.Strength)
	ranged := 13.0 / 40.0 * float64(s.Range*3/2)
	mage := 13.0 / 40.0 * float64(s.Magic*3/2)
	return int(base + max(melee, ranged, mage))
}
