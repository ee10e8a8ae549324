// Package prayer describes prayers, which prayers a unit has switched on, and how
// fast they drain the prayer pool.
package prayer

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Features a prayer can carry. Overhead prayers carry the style family they
// protect against.
const (
	FeatureOffensiveAttack   = "offensiveAttack"
	FeatureOffensiveStrength = "offensiveStrength"
	FeatureOffensiveRange    = "offensiveRange"
	FeatureOffensiveMagic    = "offensiveMagic"
	FeatureDefence           = "defence"
	FeatureProtectMelee      = "melee"
	FeatureProtectRange      = "range"
	FeatureProtectMagic      = "magic"
)

// GroupOverheads is the exclusive overhead slot.
const GroupOverheads = "overheads"

// Def is the static description of one prayer. It holds no active state.
type Def struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Level     int      `yaml:"level"`
	DrainRate int      `yaml:"drain_rate"`
	Features  []string `yaml:"features"`
	Groups    []string `yaml:"groups"`
}

// Feature returns the primary feature tag, or "" when the prayer has none.
func (d *Def) Feature() string {
	if len(d.Features) == 0 {
		return ""
	}
	return d.Features[0]
}

// Has reports whether the prayer carries feature.
func (d *Def) Has(feature string) bool {
	for _, f := range d.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// InGroup reports whether the prayer belongs to group.
func (d *Def) InGroup(group string) bool {
	for _, g := range d.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// IsOverhead reports whether the prayer occupies the overhead slot.
func (d *Def) IsOverhead() bool {
	return d.InGroup(GroupOverheads)
}

// Validate checks the fields every prayer needs.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("prayer: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("prayer %q: name must not be empty", d.ID)
	}
	if d.DrainRate < 0 {
		return fmt.Errorf("prayer %q: drain_rate must be >= 0", d.ID)
	}
	return nil
}

// Book holds prayer definitions in the order they were registered.
type Book struct {
	order []string
	defs  map[string]*Def
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{defs: make(map[string]*Def)}
}

// Register adds def, replacing any existing entry with the same ID in place.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (b *Book) Register(def *Def) {
	if _, ok := b.defs[def.ID]; !ok {
		b.order = append(b.order, def.ID)
	}
	b.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (b *Book) Get(id string) (*Def, bool) {
	d, ok := b.defs[id]
	return d, ok
}

// All returns every Def in registration order.
func (b *Book) All() []*Def {
	out := make([]*Def, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.defs[id])
	}
	return out
}

type bookFile struct {
	Prayers []*Def `yaml:"prayers"`
}

// LoadBook parses a YAML document with a top-level "prayers" list.
//
// Postcondition: every returned Def passes Validate.
func LoadBook(data []byte) (*Book, error) {
	var f bookFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing prayer book: %w", err)
	}
	b := NewBook()
	for _, d := range f.Prayers {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		b.Register(d)
	}
	return b, nil
}

// LoadFile reads a prayer book from path.
func LoadFile(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prayer book %q: %w", path, err)
	}
	return LoadBook(data)
}

//go:embed standard.yaml
var standardYAML []byte

// Standard returns the built-in prayer book.
func Standard() *Book {
	b, err := LoadBook(standardYAML)
	if err != nil {
		panic("prayer: embedded standard book is invalid: " + err.Error())
	}
	return b
}
