package grid

// Mask is a directional line-of-sight occlusion bitmask carried by a tile.
type Mask int

const (
	MaskNone  Mask = 0x0
	MaskFull  Mask = 0x20000
	MaskEast  Mask = 0x1000
	MaskWest  Mask = 0x10000
	MaskNorth Mask = 0x400
	MaskSouth Mask = 0x4000
)

// Collision describes whether an occupant blocks movement through its footprint.
type Collision int

const (
	CollisionNone Collision = iota
	CollisionBlockMovement
)

// Occupant is anything that stands on the grid: units, pillars, walls.
type Occupant interface {
	Location() Location
	Size() int
	Collision() Collision
	LineOfSight() Mask
}

// Grid is the per-tile collision surface for a rectangular region.
//
// The grid has two layers. The static layer holds terrain (pillars, walls) and is
// changed only by AddStatic and RemoveStatic. The dynamic layer holds units and is
// replaced wholesale by Rebuild. Every query reflects both layers unless it says
// otherwise.
type Grid struct {
	width  int
	height int

	static  []Occupant
	dynamic []Occupant

	occlusion     []Mask
	blocking      []int
	staticBlocker []bool
}

// New creates an empty grid of width × height tiles.
//
// Precondition: width > 0 and height > 0.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic("grid: dimensions must be positive")
	}
	n := width * height
	return &Grid{
		width:         width,
		height:        height,
		occlusion:     make([]Mask, n),
		blocking:      make([]int, n),
		staticBlocker: make([]bool, n),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a tile of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// BoxInBounds reports whether every tile of b is in bounds.
func (g *Grid) BoxInBounds(b Box) bool {
	return g.InBounds(b.MinX(), b.MinY()) && g.InBounds(b.MaxX(), b.MaxY())
}

// AddStatic registers a terrain occupant and refreshes the tile layers.
func (g *Grid) AddStatic(o Occupant) {
	g.static = append(g.static, o)
	g.refresh()
}

// RemoveStatic unregisters a terrain occupant. Unknown occupants are ignored.
func (g *Grid) RemoveStatic(o Occupant) {
	for i, s := range g.static {
		if s == o {
			g.static = append(g.static[:i], g.static[i+1:]...)
			break
		}
	}
	g.refresh()
}

// Static returns the registered terrain occupants.
func (g *Grid) Static() []Occupant {
	return g.static
}

// Rebuild replaces the dynamic layer with units and recomputes every tile.
// It must be called whenever a unit moves, spawns, or is removed.
func (g *Grid) Rebuild(units []Occupant) {
	g.dynamic = append(g.dynamic[:0], units...)
	g.refresh()
}

func (g *Grid) refresh() {
	clear(g.occlusion)
	clear(g.blocking)
	clear(g.staticBlocker)
	for _, o := range g.static {
		g.stamp(o, true)
	}
	for _, o := range g.dynamic {
		g.stamp(o, false)
	}
}

func (g *Grid) stamp(o Occupant, static bool) {
	b := Footprint(o.Location(), o.Size())
	mask := o.LineOfSight()
	blocks := o.Collision() == CollisionBlockMovement
	for y := b.MinY(); y <= b.MaxY(); y++ {
		for x := b.MinX(); x <= b.MaxX(); x++ {
			if !g.InBounds(x, y) {
				continue
			}
			i := g.index(x, y)
			g.occlusion[i] |= mask
			if blocks {
				g.blocking[i]++
				if static {
					g.staticBlocker[i] = true
				}
			}
		}
	}
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// OcclusionAt returns the union of occlusion masks of every occupant covering
// (x, y). Tiles outside the grid occlude nothing.
func (g *Grid) OcclusionAt(x, y int) Mask {
	if !g.InBounds(x, y) {
		return MaskNone
	}
	return g.occlusion[g.index(x, y)]
}

// BlocksMovementAt reports whether (x, y) cannot be walked on. Tiles outside the
// grid always block.
func (g *Grid) BlocksMovementAt(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.blocking[g.index(x, y)] > 0
}

// StaticBlocksAt reports whether terrain blocks (x, y), ignoring units. Tiles
// outside the grid always block.
func (g *Grid) StaticBlocksAt(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.staticBlocker[g.index(x, y)]
}

// Occupants returns every registered occupant, terrain first.
func (g *Grid) Occupants() []Occupant {
	out := make([]Occupant, 0, len(g.static)+len(g.dynamic))
	out = append(out, g.static...)
	return append(out, g.dynamic...)
}

// OccupantsIn returns every occupant whose footprint overlaps the size×size box
// anchored at (x, y).
func (g *Grid) OccupantsIn(x, y, size int) []Occupant {
	var out []Occupant
	for _, o := range g.Occupants() {
		l := o.Location()
		if CollisionMath(x, y, size, l.X, l.Y, o.Size()) {
			out = append(out, o)
		}
	}
	return out
}

// CollidesWith reports whether any movement-blocking occupant other than ignore
// overlaps the size×size box anchored at (x, y).
func (g *Grid) CollidesWith(x, y, size int, ignore Occupant) bool {
	for _, o := range g.OccupantsIn(x, y, size) {
		if o == ignore {
			continue
		}
		if o.Collision() == CollisionBlockMovement {
			return true
		}
	}
	return false
}

// OcclusionIn returns the union of occlusion masks over the size×size box
// anchored at (x, y).
func (g *Grid) OcclusionIn(x, y, size int) Mask {
	var m Mask
	for _, o := range g.OccupantsIn(x, y, size) {
		m |= o.LineOfSight()
	}
	return m
}
