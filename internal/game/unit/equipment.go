package unit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/inferno/internal/game/combat"
)

// Slot identifies where an item is worn.
type Slot string

const (
	SlotHead    Slot = "head"
	SlotCape    Slot = "cape"
	SlotNeck    Slot = "neck"
	SlotAmmo    Slot = "ammo"
	SlotWeapon  Slot = "weapon"
	SlotBody    Slot = "body"
	SlotOffhand Slot = "offhand"
	SlotLegs    Slot = "legs"
	SlotGloves  Slot = "gloves"
	SlotFeet    Slot = "feet"
	SlotRing    Slot = "ring"
)

// Slots lists every slot in the order bonuses are summed.
var Slots = []Slot{
	SlotHead, SlotCape, SlotNeck, SlotAmmo, SlotWeapon, SlotBody,
	SlotOffhand, SlotLegs, SlotGloves, SlotFeet, SlotRing,
}

// Item is a wearable piece of equipment.
type Item struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Slot    Slot           `yaml:"slot"`
	Bonuses combat.Bonuses `yaml:"bonuses"`
	// Weapon is the weapon ID an item in the weapon slot attacks with.
	Weapon string `yaml:"weapon"`
	// SetEffect names the set this item belongs to.
	SetEffect string `yaml:"set_effect"`
}

// Validate checks that all required fields are present.
func (it *Item) Validate() error {
	var errs []error
	if it.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !slices.Contains(Slots, it.Slot) {
		errs = append(errs, fmt.Errorf("unknown slot %q", it.Slot))
	}
	if it.Weapon != "" && it.Slot != SlotWeapon {
		errs = append(errs, errors.New("only weapon slot items may name a weapon"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", it.ID, errors.Join(errs...))
	}
	return nil
}

// SetEffect is a bonus granted while every item of a set is worn.
type SetEffect struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
	// Family is the style family the set boosts: melee, range or magic.
	Family string `yaml:"family"`
	// Multiplier scales effective accuracy and strength levels of that family.
	Multiplier float64 `yaml:"multiplier"`
}

// Validate checks that the set is usable.
func (s *SetEffect) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if len(s.Items) == 0 {
		errs = append(errs, errors.New("items must not be empty"))
	}
	switch s.Family {
	case "melee", "range", "magic":
	default:
		errs = append(errs, fmt.Errorf("unknown family %q", s.Family))
	}
	if s.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("multiplier must be >= 1, got %v", s.Multiplier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("set effect %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

// Equipment is what a unit wears, keyed by slot.
type Equipment map[Slot]*Item

// Equip puts item into its slot on u and refreshes the derived state. The item
// previously in that slot, if any, is returned.
func (u *Unit) Equip(c *Catalog, item *Item) (*Item, error) {
	prev := u.Equipment[item.Slot]
	u.Equipment[item.Slot] = item
	if err := u.EquipmentChanged(c); err != nil {
		u.Equipment[item.Slot] = prev
		if rerr := u.EquipmentChanged(c); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}
	return prev, nil
}

// Unequip empties slot and refreshes the derived state.
func (u *Unit) Unequip(c *Catalog, slot Slot) (*Item, error) {
	prev := u.Equipment[slot]
	delete(u.Equipment, slot)
	return prev, u.EquipmentChanged(c)
}

// EquipmentChanged recomputes the cached bonuses, the complete set effects and
// the active weapon from what u wears.
//
// Postcondition: Bonuses() is EmptyBonuses() plus every worn item's bonuses.
func (u *Unit) EquipmentChanged(c *Catalog) error {
	bonuses := combat.EmptyBonuses()
	worn := make(map[string]bool, len(u.Equipment))
	var setIDs []string
	for _, slot := range Slots {
		it, ok := u.Equipment[slot]
		if !ok || it == nil {
			continue
		}
		bonuses = bonuses.Merge(it.Bonuses)
		worn[it.ID] = true
		if it.SetEffect != "" && !slices.Contains(setIDs, it.SetEffect) {
			setIDs = append(setIDs, it.SetEffect)
		}
	}

	var sets []*SetEffect
	for _, id := range setIDs {
		set, ok := c.SetEffect(id)
		if !ok {
			return fmt.Errorf("unknown set effect %q", id)
		}
		complete := true
		for _, itemID := range set.Items {
			if !worn[itemID] {
				complete = false
				break
			}
		}
		if complete {
			sets = append(sets, set)
		}
	}

	weaponID := Unarmed.ID
	if it, ok := u.Equipment[SlotWeapon]; ok && it != nil && it.Weapon != "" {
		weaponID = it.Weapon
	}
	def, err := c.Weapon(weaponID)
	if err != nil {
		return err
	}

	u.bonuses = bonuses
	u.setEffects = sets
	if u.kind == combat.KindPlayer {
		u.weapons = map[combat.Style]Weapon{playerWeaponKey: NewWeapon(def)}
	}
	return nil
}

// setMultiplier is the product of every complete set effect boosting style.
func (u *Unit) setMultiplier(style combat.Style) float64 {
	m := 1.0
	for _, s := range u.setEffects {
		if s.Family == style.Family() {
			m *= s.Multiplier
		}
	}
	return m
}
