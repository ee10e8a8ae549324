// Package sim owns the units of one encounter and advances them tick by tick.
package sim

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

var (
	// ErrInvalidLocation is returned when a unit or obstacle would sit outside the region.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidSpawn is returned for negative spawn delays or cooldowns.
	ErrInvalidSpawn = errors.New("invalid spawn")
)

type delayedAction struct {
	remaining int
	fn        func()
}

// Region is the world an encounter runs in. It owns the unit registry, the
// static obstacles and the collision grid, and implements unit.World.
//
// Region is not safe for concurrent use.
type Region struct {
	grid      *grid.Grid
	units     []*unit.Unit
	player    *unit.Unit
	obstacles []*Obstacle
	src       dice.Source
	logger    *zap.Logger

	tick    int
	pending []delayedAction
	events  []unit.Event
}

// NewRegion creates an empty width×height region.
//
// Precondition: width and height > 0; src and logger non-nil.
func NewRegion(width, height int, src dice.Source, logger *zap.Logger) *Region {
	return &Region{
		grid:   grid.New(width, height),
		src:    src,
		logger: logger,
	}
}

// Grid returns the collision grid.
func (r *Region) Grid() *grid.Grid { return r.grid }

// Source returns the region's random source.
func (r *Region) Source() dice.Source { return r.src }

// Logger returns the region's logger.
func (r *Region) Logger() *zap.Logger { return r.logger }

// Player returns the registered player, or nil.
func (r *Region) Player() *unit.Unit { return r.player }

// CurrentTick is the number of ticks run so far.
func (r *Region) CurrentTick() int { return r.tick }

// Units returns the registered units in registration order.
func (r *Region) Units() []*unit.Unit {
	return slices.Clone(r.units)
}

// Mobs returns the registered non-player units.
func (r *Region) Mobs() []*unit.Unit {
	var out []*unit.Unit
	for _, u := range r.units {
		if !u.IsPlayer() {
			out = append(out, u)
		}
	}
	return out
}

// Obstacles returns the static obstacles.
func (r *Region) Obstacles() []*Obstacle {
	return slices.Clone(r.obstacles)
}

// AddUnit registers u.
//
// Postcondition: returns ErrInvalidLocation if u's footprint leaves the region,
// ErrInvalidSpawn if its spawn delay or cooldown is negative or a second player
// is added; u is not registered on error.
func (r *Region) AddUnit(u *unit.Unit) error {
	if !r.grid.BoxInBounds(u.Box()) {
		return fmt.Errorf("%w: %s at (%d, %d) size %d", ErrInvalidLocation, u.Name, u.Location().X, u.Location().Y, u.Size())
	}
	if u.SpawnDelay < 0 || u.AttackDelay < 0 {
		return fmt.Errorf("%w: %s spawn delay %d cooldown %d", ErrInvalidSpawn, u.Name, u.SpawnDelay, u.AttackDelay)
	}
	if slices.Contains(r.units, u) {
		return fmt.Errorf("unit %s already registered", u.ID)
	}
	if u.IsPlayer() {
		if r.player != nil {
			return fmt.Errorf("%w: region already has a player", ErrInvalidSpawn)
		}
		r.player = u
	}
	r.units = append(r.units, u)
	r.rebuild()
	r.logger.Debug("unit added",
		zap.String("unit", u.Name),
		zap.String("id", u.ID.String()),
		zap.Int("x", u.Location().X),
		zap.Int("y", u.Location().Y),
	)
	return nil
}

// RemoveUnit evicts u from the registry and the grid. Every aggro reference to
// u is cleared and its inbound projectiles are dropped.
func (r *Region) RemoveUnit(u *unit.Unit) {
	idx := slices.Index(r.units, u)
	if idx < 0 {
		return
	}
	r.units = slices.Delete(r.units, idx, idx+1)
	if r.player == u {
		r.player = nil
	}
	u.MarkRemoved()
	u.Incoming.Clear()
	for _, o := range r.units {
		if o.Aggro == u {
			o.Aggro = nil
		}
	}
	r.rebuild()
	r.logger.Debug("unit removed", zap.String("unit", u.Name), zap.String("id", u.ID.String()))
}

// AddObstacle places a static obstacle.
func (r *Region) AddObstacle(o *Obstacle) error {
	if !r.grid.BoxInBounds(grid.Footprint(o.Location(), o.Size())) {
		return fmt.Errorf("%w: obstacle %s at (%d, %d)", ErrInvalidLocation, o.Name, o.location.X, o.location.Y)
	}
	r.obstacles = append(r.obstacles, o)
	r.grid.AddStatic(o)
	return nil
}

// RemoveObstacle takes o off the grid.
func (r *Region) RemoveObstacle(o *Obstacle) {
	idx := slices.Index(r.obstacles, o)
	if idx < 0 {
		return
	}
	r.obstacles = slices.Delete(r.obstacles, idx, idx+1)
	r.grid.RemoveStatic(o)
}

// EntitiesNear returns the units whose footprint covers loc.
func (r *Region) EntitiesNear(loc grid.Location) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range r.units {
		if u.Box().Contains(loc.X, loc.Y) {
			out = append(out, u)
		}
	}
	return out
}

// CollidesWithBlockingEntities reports whether any movement-blocking unit or
// obstacle overlaps the size×size box anchored at (x, y).
func (r *Region) CollidesWithBlockingEntities(x, y, size int) bool {
	return r.grid.CollidesWith(x, y, size, nil)
}

// Moved rebuilds the grid after a unit changed position.
func (r *Region) Moved(*unit.Unit) { r.rebuild() }

// Record appends ev to the current tick's events.
func (r *Region) Record(ev unit.Event) {
	ev.Tick = r.tick
	r.events = append(r.events, ev)
}

// Schedule runs fn ticks ticks from now, at the start of the projectile phase.
// A non-positive delay runs fn at the next opportunity.
func (r *Region) Schedule(ticks int, fn func()) {
	r.pending = append(r.pending, delayedAction{remaining: max(1, ticks), fn: fn})
}

// runPending ages the delayed actions and runs the due ones in registration order.
func (r *Region) runPending() {
	var due []func()
	kept := r.pending[:0]
	for _, a := range r.pending {
		a.remaining--
		if a.remaining <= 0 {
			due = append(due, a.fn)
			continue
		}
		kept = append(kept, a)
	}
	clear(r.pending[len(kept):])
	r.pending = kept
	for _, fn := range due {
		fn()
	}
}

func (r *Region) rebuild() {
	occ := make([]grid.Occupant, 0, len(r.units))
	for _, u := range r.units {
		occ = append(occ, u)
	}
	r.grid.Rebuild(occ)
}
