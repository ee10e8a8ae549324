package prayer

// Controller tracks which prayers a unit has switched on.
// It is not safe for concurrent use; the caller must serialise access.
type Controller struct {
	active []*Def
}

// NewController creates a Controller with nothing active.
func NewController() *Controller {
	return &Controller{}
}

// Activate switches def on. Any active prayer sharing a group with def is switched
// off first. Activating an already active prayer is a no-op.
//
// Precondition: def must not be nil.
// Postcondition: IsActive(def.ID) is true.
func (c *Controller) Activate(def *Def) {
	if c.IsActive(def.ID) {
		return
	}
	kept := c.active[:0]
	for _, a := range c.active {
		if !sharesGroup(a, def) {
			kept = append(kept, a)
		}
	}
	c.active = append(kept, def)
}

// Deactivate switches off the prayer with id. Unknown ids are ignored.
func (c *Controller) Deactivate(id string) {
	for i, a := range c.active {
		if a.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}

// Toggle flips the prayer and reports whether it is now active.
func (c *Controller) Toggle(def *Def) bool {
	if c.IsActive(def.ID) {
		c.Deactivate(def.ID)
		return false
	}
	c.Activate(def)
	return true
}

// DeactivateAll switches every prayer off.
func (c *Controller) DeactivateAll() {
	c.active = nil
}

// IsActive reports whether the prayer with id is on.
func (c *Controller) IsActive(id string) bool {
	for _, a := range c.active {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ActivePrayers returns the active prayers in activation order.
func (c *Controller) ActivePrayers() []*Def {
	out := make([]*Def, len(c.active))
	copy(out, c.active)
	return out
}

// Overhead returns the active overhead prayer, or nil.
func (c *Controller) Overhead() *Def {
	for _, a := range c.active {
		if a.IsOverhead() {
			return a
		}
	}
	return nil
}

// DrainRate is the summed drain rate of all active prayers.
func (c *Controller) DrainRate() int {
	total := 0
	for _, a := range c.active {
		total += a.DrainRate
	}
	return total
}

func sharesGroup(a, b *Def) bool {
	for _, g := range a.Groups {
		if b.InGroup(g) {
			return true
		}
	}
	return false
}
