// Package grid holds tile geometry and the collision grid queried by pathing and
// line of sight.
//
// Coordinates are integer tiles. X grows east and Y grows south. A unit standing at
// (x, y) with size s occupies the square [x, x+s) × [y-s+1, y]: its location is the
// south-west corner of its footprint.
package grid

// Location is an integer tile coordinate.
type Location struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Box is the footprint of a sized occupant anchored at its south-west corner.
type Box struct {
	X    int
	Y    int
	Size int
}

// Footprint returns the box covered by an occupant of size at loc.
//
// Precondition: size >= 1.
func Footprint(loc Location, size int) Box {
	if size < 1 {
		panic("grid: footprint size must be >= 1")
	}
	return Box{X: loc.X, Y: loc.Y, Size: size}
}

// MinX is the westmost column of the box.
func (b Box) MinX() int { return b.X }

// MaxX is the eastmost column of the box.
func (b Box) MaxX() int { return b.X + b.Size - 1 }

// MinY is the northmost row of the box.
func (b Box) MinY() int { return b.Y - b.Size + 1 }

// MaxY is the southmost row of the box.
func (b Box) MaxY() int { return b.Y }

// Contains reports whether tile (x, y) lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.MinX() && x <= b.MaxX() && y >= b.MinY() && y <= b.MaxY()
}

// Clamp returns the tile of the box closest to (x, y).
//
// Postcondition: b.Contains(result.X, result.Y).
func (b Box) Clamp(x, y int) Location {
	return Location{X: clamp(x, b.MinX(), b.MaxX()), Y: clamp(y, b.MinY(), b.MaxY())}
}

// Overlaps reports whether the two boxes share at least one tile.
func (b Box) Overlaps(o Box) bool {
	return CollisionMath(b.X, b.Y, b.Size, o.X, o.Y, o.Size)
}

// Tiles returns every tile of the box, row by row from north to south.
func (b Box) Tiles() []Location {
	out := make([]Location, 0, b.Size*b.Size)
	for y := b.MinY(); y <= b.MaxY(); y++ {
		for x := b.MinX(); x <= b.MaxX(); x++ {
			out = append(out, Location{X: x, Y: y})
		}
	}
	return out
}

// CollisionMath reports whether a footprint of size s at (x, y) overlaps a
// footprint of size s2 at (x2, y2).
func CollisionMath(x, y, s, x2, y2, s2 int) bool {
	return !(x > x2+s2-1 || x+s-1 < x2 || y-s+1 > y2 || y < y2-s2+1)
}

// Chebyshev returns the king-move distance between two tiles.
func Chebyshev(a, b Location) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
