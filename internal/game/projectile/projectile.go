// Package projectile holds in-flight hits. A hit is queued on its target with a
// tick countdown and applied when the countdown reaches zero.
package projectile

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
)

// Endpoint is one end of a projectile. A nil From is allowed for hits with no source.
type Endpoint interface {
	// Center is the visual centre of the unit in tile units.
	Center() (x, y float64)
	// HasDied is true once the unit starts dying, and stays true after it is
	// removed.
	HasDied() bool
}

// Options tune how a projectile behaves.
type Options struct {
	// CancelOnDeath discards the hit if its source is dying when it lands.
	CancelOnDeath bool `yaml:"cancel_on_death"`
	// Hidden projectiles are not drawn.
	Hidden bool `yaml:"hidden"`
	// ReduceDelay shortens the flight time, never below one tick.
	ReduceDelay int `yaml:"reduce_delay"`
}

// Projectile is one hit in flight.
type Projectile struct {
	From           Endpoint
	To             Endpoint
	Damage         int
	RemainingDelay int
	Style          combat.Style
	Options        Options
	// X and Y are the interpolated render position.
	X float64
	Y float64
}

// New builds a projectile that lands after baseDelay ticks less opts.ReduceDelay.
//
// Precondition: to must be non-nil.
// Postcondition: RemainingDelay >= 1.
func New(from, to Endpoint, damage int, style combat.Style, baseDelay int, opts Options) *Projectile {
	p := &Projectile{
		From:           from,
		To:             to,
		Damage:         damage,
		RemainingDelay: max(1, baseDelay-opts.ReduceDelay),
		Style:          style,
		Options:        opts,
	}
	if from != nil {
		p.X, p.Y = from.Center()
	} else {
		p.X, p.Y = to.Center()
	}
	return p
}

// BaseDelay is the flight time for style over distance tiles.
func BaseDelay(style combat.Style, distance int) int {
	switch style {
	case combat.StyleRange:
		return 1 + (3+distance)/6
	case combat.StyleMagic:
		return 1 + (1+distance)/3
	default:
		return 1
	}
}

// Landed reports whether the projectile applied (or discarded) its hit this tick.
func (p *Projectile) Landed() bool {
	return p.RemainingDelay == 0
}

// Queue is the list of projectiles inbound to one unit.
type Queue struct {
	items []*Projectile
}

// Add enqueues p.
func (q *Queue) Add(p *Projectile) {
	q.items = append(q.items, p)
}

// Len returns the number of queued projectiles, including ones that have landed
// this tick.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns the queued projectiles.
func (q *Queue) All() []*Projectile {
	return q.items
}

// Clear drops every projectile without applying it.
func (q *Queue) Clear() {
	q.items = nil
}

// Step advances every projectile by one tick. Projectiles whose countdown has
// already gone negative are purged first. Each remaining projectile moves its
// render position toward the target and counts down; when its countdown reaches
// zero land is called exactly once, unless it cancels on death and its source has
// died.
func (q *Queue) Step(land func(*Projectile)) {
	kept := q.items[:0]
	for _, p := range q.items {
		if p.RemainingDelay > -1 {
			kept = append(kept, p)
		}
	}
	clear(q.items[len(kept):])
	q.items = kept

	for _, p := range q.items {
		tx, ty := p.To.Center()
		frac := 1 / float64(p.RemainingDelay+1)
		p.X = lerp(p.X, tx, frac)
		p.Y = lerp(p.Y, ty, frac)
		p.RemainingDelay--

		if p.RemainingDelay != 0 {
			continue
		}
		if p.Options.CancelOnDeath && p.From != nil && p.From.HasDied() {
			continue
		}
		land(p)
	}
}

func lerp(from, to, frac float64) float64 {
	return from + (to-from)*frac
}

var styleColors = map[combat.Style]string{
	combat.StyleStab:  "#FF000073",
	combat.StyleSlash: "#FF000073",
	combat.StyleCrush: "#FF000073",
	combat.StyleRange: "#00FF0073",
	combat.StyleMagic: "#0000FF73",
	combat.StyleHeal:  "#9813aa73",
}

// DefaultColor is used for styles with no colour of their own.
const DefaultColor = "#D1BB7773"

// StyleColor returns the render colour for style. Unknown styles are logged at
// warn and fall back to DefaultColor.
func StyleColor(style combat.Style, logger *zap.Logger) string {
	if c, ok := styleColors[style]; ok {
		return c
	}
	logger.Warn("style is not accounted for in projectile colouring", zap.String("style", string(style)))
	return DefaultColor
}
