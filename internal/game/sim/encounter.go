package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

// ErrUnknownTemplate is returned when an encounter spawns a mob template that
// was not loaded.
var ErrUnknownTemplate = errors.New("unknown mob template")

// ObstacleSpec places one static obstacle.
type ObstacleSpec struct {
	Name     string        `yaml:"name"`
	Location grid.Location `yaml:"location"`
	Size     int           `yaml:"size"`
	// LineOfSight lists the occluded directions; "full" blocks every direction.
	LineOfSight    []string `yaml:"line_of_sight"`
	BlocksMovement *bool    `yaml:"blocks_movement"`
	Hitpoints      int      `yaml:"hitpoints"`
}

// PlayerSpec places the player.
type PlayerSpec struct {
	Name      string        `yaml:"name"`
	Location  grid.Location `yaml:"location"`
	Equipment []string      `yaml:"equipment"`
	Prayers   []string      `yaml:"prayers"`
	Run       bool          `yaml:"run"`
	// Attack names the index of the mob the player starts attacking, if any.
	Attack *int `yaml:"attack"`
}

// MobSpec spawns one mob.
type MobSpec struct {
	Template   string        `yaml:"template"`
	Location   grid.Location `yaml:"location"`
	SpawnDelay int           `yaml:"spawn_delay"`
	Cooldown   int           `yaml:"cooldown"`
	// Passive mobs start without aggro.
	Passive bool `yaml:"passive"`
}

// Encounter describes a region and everything in it at tick zero.
type Encounter struct {
	Name      string         `yaml:"name"`
	Width     int            `yaml:"width"`
	Height    int            `yaml:"height"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Player    PlayerSpec     `yaml:"player"`
	Mobs      []MobSpec      `yaml:"mobs"`
}

// Validate checks the encounter for structural errors that do not need content.
func (e *Encounter) Validate() error {
	var errs []error
	if e.Width < 1 || e.Height < 1 {
		errs = append(errs, fmt.Errorf("region size must be positive, got %dx%d", e.Width, e.Height))
	}
	for i, o := range e.Obstacles {
		if o.Size < 1 {
			errs = append(errs, fmt.Errorf("obstacle %d: size must be >= 1", i))
		}
		if _, err := ParseMask(o.LineOfSight); err != nil {
			errs = append(errs, fmt.Errorf("obstacle %d: %w", i, err))
		}
	}
	for i, m := range e.Mobs {
		if m.Template == "" {
			errs = append(errs, fmt.Errorf("mob %d: template must not be empty", i))
		}
		if m.SpawnDelay < 0 || m.Cooldown < 0 {
			errs = append(errs, fmt.Errorf("mob %d: %w: spawn_delay and cooldown must be >= 0", i, ErrInvalidSpawn))
		}
	}
	if a := e.Player.Attack; a != nil && (*a < 0 || *a >= len(e.Mobs)) {
		errs = append(errs, fmt.Errorf("player attack index %d out of range", *a))
	}
	if len(errs) > 0 {
		return fmt.Errorf("encounter %q: %w", e.Name, errors.Join(errs...))
	}
	return nil
}

// LoadEncounterFromBytes parses and validates an encounter document.
func LoadEncounterFromBytes(data []byte) (*Encounter, error) {
	var e Encounter
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("parsing encounter: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadEncounter reads an encounter file.
func LoadEncounter(path string) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	e, err := LoadEncounterFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return e, nil
}

// BehaviorFactory builds the strategy for a mob template; it returns nil when
// the template needs none.
type BehaviorFactory func(t *unit.Template) (unit.Behavior, error)

// Content is the loaded game data an encounter is built from.
type Content struct {
	Templates map[string]*unit.Template
	Catalog   *unit.Catalog
	Prayers   *prayer.Book
	Behaviors BehaviorFactory
}

// Build creates a populated Region for e.
//
// Postcondition: returns an error wrapping ErrUnknownTemplate, ErrInvalidLocation,
// ErrInvalidSpawn or unit.ErrUnknownWeapon when content or placement is bad.
func (e *Encounter) Build(c Content, src dice.Source, logger *zap.Logger) (*Region, error) {
	r := NewRegion(e.Width, e.Height, src, logger)

	for _, spec := range e.Obstacles {
		mask, err := ParseMask(spec.LineOfSight)
		if err != nil {
			return nil, err
		}
		blocks := spec.BlocksMovement == nil || *spec.BlocksMovement
		o := NewObstacle(spec.Name, spec.Location, spec.Size, mask, blocks)
		o.Hitpoints = spec.Hitpoints
		if err := r.AddObstacle(o); err != nil {
			return nil, err
		}
	}

	equipment := unit.Equipment{}
	for _, id := range e.Player.Equipment {
		it, ok := c.Catalog.Item(id)
		if !ok {
			return nil, fmt.Errorf("player: unknown item %q", id)
		}
		equipment[it.Slot] = it
	}
	name := e.Player.Name
	if name == "" {
		name = "Player"
	}
	player, err := unit.NewPlayer(name, e.Player.Location, equipment, c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	player.Running = e.Player.Run
	book := c.Prayers
	if book == nil {
		book = prayer.Standard()
	}
	for _, id := range e.Player.Prayers {
		def, ok := book.Get(id)
		if !ok {
			return nil, fmt.Errorf("player: unknown prayer %q", id)
		}
		player.ActivatePrayer(def)
	}
	if err := r.AddUnit(player); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	for i, spec := range e.Mobs {
		t, ok := c.Templates[spec.Template]
		if !ok {
			return nil, fmt.Errorf("mob %d: %w: %q", i, ErrUnknownTemplate, spec.Template)
		}
		opts := unit.SpawnOptions{SpawnDelay: spec.SpawnDelay, Cooldown: spec.Cooldown}
		if !spec.Passive {
			opts.Aggro = player
		}
		if c.Behaviors != nil {
			b, err := c.Behaviors(t)
			if err != nil {
				return nil, fmt.Errorf("mob %d: %w", i, err)
			}
			opts.Behavior = b
		}
		m, err := unit.NewMob(t, c.Catalog, spec.Location, opts)
		if err != nil {
			return nil, fmt.Errorf("mob %d: %w", i, err)
		}
		if err := r.AddUnit(m); err != nil {
			return nil, fmt.Errorf("mob %d: %w", i, err)
		}
		if e.Player.Attack != nil && *e.Player.Attack == i {
			player.SetAggro(m)
		}
	}
	return r, nil
}
