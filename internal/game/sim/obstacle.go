package sim

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// Obstacle is a static, non-combat occupant such as a pillar.
type Obstacle struct {
	Name     string
	location grid.Location
	size     int
	mask     grid.Mask
	blocks   bool
	// Hitpoints is informational; obstacles are never attacked.
	Hitpoints int
}

// NewObstacle creates an obstacle.
//
// Precondition: size >= 1.
func NewObstacle(name string, loc grid.Location, size int, mask grid.Mask, blocksMovement bool) *Obstacle {
	if size < 1 {
		panic("sim: obstacle size must be >= 1")
	}
	return &Obstacle{Name: name, location: loc, size: size, mask: mask, blocks: blocksMovement}
}

func (o *Obstacle) Location() grid.Location { return o.location }
func (o *Obstacle) Size() int               { return o.size }
func (o *Obstacle) LineOfSight() grid.Mask  { return o.mask }

func (o *Obstacle) Collision() grid.Collision {
	if o.blocks {
		return grid.CollisionBlockMovement
	}
	return grid.CollisionNone
}

var maskNames = map[string]grid.Mask{
	"none":  grid.MaskNone,
	"full":  grid.MaskFull,
	"north": grid.MaskNorth,
	"south": grid.MaskSouth,
	"east":  grid.MaskEast,
	"west":  grid.MaskWest,
}

// ParseMask combines named directions into a Mask.
func ParseMask(names []string) (grid.Mask, error) {
	var m grid.Mask
	for _, n := range names {
		v, ok := maskNames[strings.ToLower(n)]
		if !ok {
			return 0, fmt.Errorf("unknown line of sight mask %q", n)
		}
		m |= v
	}
	return m, nil
}
