package unit

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog indexes weapons, items and set effects by ID.
type Catalog struct {
	weapons    map[string]*WeaponDef
	items      map[string]*Item
	setEffects map[string]*SetEffect
}

// NewCatalog creates an empty Catalog holding only the Unarmed weapon.
func NewCatalog() *Catalog {
	c := &Catalog{
		weapons:    make(map[string]*WeaponDef),
		items:      make(map[string]*Item),
		setEffects: make(map[string]*SetEffect),
	}
	c.weapons[Unarmed.ID] = Unarmed
	return c
}

// RegisterWeapon adds def.
//
// Precondition: def is valid.
// Postcondition: returns an error if a weapon with the same ID is already registered.
func (c *Catalog) RegisterWeapon(def *WeaponDef) error {
	if _, ok := c.weapons[def.ID]; ok {
		return fmt.Errorf("weapon %q already registered", def.ID)
	}
	c.weapons[def.ID] = def
	return nil
}

// RegisterItem adds item.
func (c *Catalog) RegisterItem(item *Item) error {
	if _, ok := c.items[item.ID]; ok {
		return fmt.Errorf("item %q already registered", item.ID)
	}
	c.items[item.ID] = item
	return nil
}

// RegisterSetEffect adds set.
func (c *Catalog) RegisterSetEffect(set *SetEffect) error {
	if _, ok := c.setEffects[set.ID]; ok {
		return fmt.Errorf("set effect %q already registered", set.ID)
	}
	c.setEffects[set.ID] = set
	return nil
}

// Weapon returns the WeaponDef for id, or an error wrapping ErrUnknownWeapon.
func (c *Catalog) Weapon(id string) (*WeaponDef, error) {
	def, ok := c.weapons[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, id)
	}
	return def, nil
}

// Item returns the Item for id, or (nil, false).
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// SetEffect returns the SetEffect for id, or (nil, false).
func (c *Catalog) SetEffect(id string) (*SetEffect, bool) {
	s, ok := c.setEffects[id]
	return s, ok
}

type catalogFile struct {
	Weapons    []*WeaponDef `yaml:"weapons"`
	Items      []*Item      `yaml:"items"`
	SetEffects []*SetEffect `yaml:"set_effects"`
}

// Load parses a catalog document and registers its weapons, items and set
// effects. Items must reference weapons and set effects that exist once the
// whole document is loaded.
func (c *Catalog) Load(data []byte) error {
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("parsing catalog: %w", err)
	}
	for _, w := range f.Weapons {
		if err := w.Validate(); err != nil {
			return err
		}
		if err := c.RegisterWeapon(w); err != nil {
			return err
		}
	}
	for _, s := range f.SetEffects {
		if err := s.Validate(); err != nil {
			return err
		}
		if err := c.RegisterSetEffect(s); err != nil {
			return err
		}
	}
	for _, it := range f.Items {
		if err := it.Validate(); err != nil {
			return err
		}
		if err := c.RegisterItem(it); err != nil {
			return err
		}
	}
	for _, it := range f.Items {
		if it.Weapon != "" {
			if _, err := c.Weapon(it.Weapon); err != nil {
				return fmt.Errorf("item %q: %w", it.ID, err)
			}
		}
		if it.SetEffect != "" {
			if _, ok := c.setEffects[it.SetEffect]; !ok {
				return fmt.Errorf("item %q: unknown set effect %q", it.ID, it.SetEffect)
			}
		}
	}
	return nil
}

// LoadFiles reads and loads each catalog file in order.
func (c *Catalog) LoadFiles(paths ...string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := c.Load(data); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return nil
}
