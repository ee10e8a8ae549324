package unit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// Template defines a mob type loaded from YAML content.
type Template struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Size        int            `yaml:"size"`
	CombatLevel int            `yaml:"combat_level"`
	Stats       combat.Stats   `yaml:"stats"`
	Bonuses     combat.Bonuses `yaml:"bonuses"`
	AttackStyle combat.Style   `yaml:"attack_style"`
	// MeleeIfClose is the style used instead when the target is in melee reach.
	MeleeIfClose combat.Style `yaml:"melee_if_close"`
	AttackRange  int          `yaml:"attack_range"`
	AttackSpeed  int          `yaml:"attack_speed"`
	// Weapons maps each style the mob uses to a catalog weapon ID.
	Weapons map[combat.Style]string `yaml:"weapons"`
	// StunOnSpawn is the number of ticks a freshly spawned mob is stunned.
	StunOnSpawn       int    `yaml:"stun_on_spawn"`
	RetaliateOnAnyHit bool   `yaml:"retaliate_on_any_hit"`
	Behavior          string `yaml:"behavior"`
	// Script is Lua source run by the scripted behavior.
	Script string `yaml:"script"`
}

// Validate checks that all required fields are present and consistent.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Size < 1 {
		errs = append(errs, fmt.Errorf("size must be >= 1, got %d", t.Size))
	}
	if t.Stats.Hitpoint < 1 {
		errs = append(errs, fmt.Errorf("stats.hitpoint must be >= 1, got %d", t.Stats.Hitpoint))
	}
	if t.AttackRange < 1 {
		errs = append(errs, fmt.Errorf("attack_range must be >= 1, got %d", t.AttackRange))
	}
	if t.AttackSpeed < 1 {
		errs = append(errs, fmt.Errorf("attack_speed must be >= 1, got %d", t.AttackSpeed))
	}
	if _, ok := t.Weapons[t.AttackStyle]; !ok {
		errs = append(errs, fmt.Errorf("attack_style %q has no weapon", t.AttackStyle))
	}
	if t.MeleeIfClose != "" {
		if !t.MeleeIfClose.IsMelee() {
			errs = append(errs, fmt.Errorf("melee_if_close %q is not a melee style", t.MeleeIfClose))
		}
		if _, ok := t.Weapons[t.MeleeIfClose]; !ok {
			errs = append(errs, fmt.Errorf("melee_if_close %q has no weapon", t.MeleeIfClose))
		}
	}
	for style := range t.Weapons {
		if !style.Valid() {
			errs = append(errs, fmt.Errorf("weapon style %q is unknown", style))
		}
	}
	if t.StunOnSpawn < 0 {
		errs = append(errs, fmt.Errorf("stun_on_spawn must be >= 0, got %d", t.StunOnSpawn))
	}
	if len(errs) > 0 {
		return fmt.Errorf("mob template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses and validates a single template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var t Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing mob template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTemplates reads every .yaml file in dir as a Template, keyed by ID.
//
// Postcondition: returns an error on the first unreadable, invalid or duplicate template.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mob dir %q: %w", dir, err)
	}
	out := make(map[string]*Template)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		t, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := out[t.ID]; dup {
			return nil, fmt.Errorf("loading %q: mob template %q already defined", path, t.ID)
		}
		out[t.ID] = t
	}
	return out, nil
}

// SpawnOptions tune a mob at spawn time.
type SpawnOptions struct {
	// Aggro is the initial target, usually the player.
	Aggro      *Unit
	SpawnDelay int
	// Cooldown is the initial attack delay.
	Cooldown int
	Behavior Behavior
}

// NewMob creates a mob from t at loc, resolving its weapons in c.
//
// Postcondition: returns an error wrapping ErrUnknownWeapon when t names a
// weapon c does not hold.
func NewMob(t *Template, c *Catalog, loc grid.Location, opts SpawnOptions) (*Unit, error) {
	u := newUnit(combat.KindMob, t.Name, loc, t.Size, t.Stats)
	u.template = t
	u.bonuses = combat.EmptyBonuses().Merge(t.Bonuses)
	u.attackStyle = t.AttackStyle
	u.meleeIfClose = t.MeleeIfClose
	u.attackRange = t.AttackRange
	u.attackSpeed = t.AttackSpeed
	u.RetaliateOnAnyHit = t.RetaliateOnAnyHit
	u.Stunned = t.StunOnSpawn
	u.Aggro = opts.Aggro
	u.SpawnDelay = opts.SpawnDelay
	u.AttackDelay = opts.Cooldown
	u.behavior = opts.Behavior
	for style, id := range t.Weapons {
		def, err := c.Weapon(id)
		if err != nil {
			return nil, fmt.Errorf("mob template %q: %w", t.ID, err)
		}
		u.weapons[style] = NewWeapon(def)
	}
	return u, nil
}
