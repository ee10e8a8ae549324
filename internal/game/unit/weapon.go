package unit

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/projectile"
)

// ErrUnknownWeapon is returned when a template or item names a weapon that is
// not in the catalog.
var ErrUnknownWeapon = errors.New("unknown weapon")

// Weapon performs attacks on behalf of a unit.
type Weapon interface {
	// Attack resolves one attack from attacker on target and queues the resulting
	// projectile, possibly after a launch delay.
	Attack(w World, attacker, target *Unit, b combat.AttackBonuses)
	Style() combat.Style
	AttackRange() int
	AttackSpeed() int
	// IsBlockable reports whether target's overhead prayer would block the attack.
	IsBlockable(attacker, target *Unit, b combat.AttackBonuses) bool
}

// WeaponDef is a data-driven weapon loaded from YAML.
type WeaponDef struct {
	ID    string       `yaml:"id"`
	Name  string       `yaml:"name"`
	Style combat.Style `yaml:"style"`
	Range int          `yaml:"range"`
	Speed int          `yaml:"speed"`
	// StyleBonus is the stance bonus added to effective levels.
	StyleBonus      int                `yaml:"style_bonus"`
	BaseSpellDamage int                `yaml:"base_spell_damage"`
	Projectile      projectile.Options `yaml:"projectile"`
	// LaunchDelay postpones creation of the projectile by this many ticks.
	LaunchDelay int `yaml:"launch_delay"`
	// HealFraction heals the attacker by this share of damage dealt.
	HealFraction float64 `yaml:"heal_fraction"`
}

// Validate checks that all required fields are present and consistent.
func (d *WeaponDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !d.Style.Valid() || d.Style == combat.StyleHeal {
		errs = append(errs, fmt.Errorf("style %q is not an attack style", d.Style))
	}
	if d.Range < 1 {
		errs = append(errs, fmt.Errorf("range must be >= 1, got %d", d.Range))
	}
	if d.Speed < 1 {
		errs = append(errs, fmt.Errorf("speed must be >= 1, got %d", d.Speed))
	}
	if d.Style == combat.StyleMagic && d.BaseSpellDamage < 1 {
		errs = append(errs, errors.New("magic weapons need base_spell_damage"))
	}
	if d.LaunchDelay < 0 {
		errs = append(errs, fmt.Errorf("launch_delay must be >= 0, got %d", d.LaunchDelay))
	}
	if d.HealFraction < 0 || d.HealFraction > 1 {
		errs = append(errs, fmt.Errorf("heal_fraction must be in [0, 1], got %v", d.HealFraction))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Unarmed is the weapon a player uses with nothing equipped.
var Unarmed = &WeaponDef{ID: "unarmed", Name: "Unarmed", Style: combat.StyleCrush, Range: 1, Speed: 4}

// NewWeapon wraps def as a Weapon.
func NewWeapon(def *WeaponDef) Weapon {
	return &defWeapon{def: def}
}

type defWeapon struct {
	def *WeaponDef
}

func (d *defWeapon) Style() combat.Style { return d.def.Style }
func (d *defWeapon) AttackRange() int    { return d.def.Range }
func (d *defWeapon) AttackSpeed() int    { return d.def.Speed }

func (d *defWeapon) bonuses(attacker *Unit, b combat.AttackBonuses) combat.AttackBonuses {
	if b.Style == "" {
		b.Style = d.def.Style
	}
	if b.StyleBonus == 0 {
		b.StyleBonus = d.def.StyleBonus
	}
	if b.MagicBaseSpellDamage == 0 {
		b.MagicBaseSpellDamage = d.def.BaseSpellDamage
	}
	if b.VoidMultiplier == 0 {
		b.VoidMultiplier = attacker.setMultiplier(b.Style)
	}
	return b
}

func (d *defWeapon) IsBlockable(attacker, target *Unit, b combat.AttackBonuses) bool {
	b = d.bonuses(attacker, b)
	return combat.IsBlocked(b.Style, combat.ResolveEffectivePrayers(attacker, target).Overhead)
}

func (d *defWeapon) Attack(w World, attacker, target *Unit, b combat.AttackBonuses) {
	b = d.bonuses(attacker, b)
	res := combat.ResolveAttack(attacker, target, b, w.Source())

	w.Logger().Debug("attack",
		zap.String("attacker", attacker.Name),
		zap.String("target", target.Name),
		zap.String("weapon", d.def.ID),
		zap.String("style", string(res.Style)),
		zap.Int("attack_roll", res.AttackRoll),
		zap.Int("defence_roll", res.DefenceRoll),
		zap.Int("max_hit", res.MaxHit),
		zap.Bool("blocked", res.Blocked),
		zap.Int("damage", res.Damage),
	)
	w.Record(Event{
		Type:     EventAttack,
		ActorID:  attacker.ID,
		Actor:    attacker.Name,
		TargetID: target.ID,
		Target:   target.Name,
		Style:    res.Style,
		Damage:   res.Damage,
		Blocked:  res.Blocked,
		Hit:      res.Hit,
	})

	launch := func() {
		delay := projectile.BaseDelay(res.Style, attacker.DistanceTo(target))
		target.AddProjectile(projectile.New(attacker, target, res.Damage, res.Style, delay, d.def.Projectile))
	}
	if d.def.LaunchDelay > 0 {
		w.Schedule(d.def.LaunchDelay, launch)
	} else {
		launch()
	}

	if d.def.HealFraction > 0 && res.Damage > 0 {
		healed := attacker.Heal(int(math.Floor(float64(res.Damage) * d.def.HealFraction)))
		if healed > 0 {
			w.Record(Event{Type: EventHeal, ActorID: attacker.ID, Actor: attacker.Name, Damage: healed})
		}
	}
}
