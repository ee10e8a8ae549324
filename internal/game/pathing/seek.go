package pathing

import (
	"math"

	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// MeleeTiles lists the tiles adjacent to target's footprint that a melee attacker
// can stand on. North and south tiles are listed before east and west ones.
func MeleeTiles(target grid.Box) []grid.Location {
	out := make([]grid.Location, 0, 4*target.Size)
	for xx := 0; xx < target.Size; xx++ {
		for _, yy := range [2]int{-1, target.Size} {
			out = append(out, grid.Location{X: target.X + xx, Y: target.Y - yy})
		}
	}
	for yy := 0; yy < target.Size; yy++ {
		for _, xx := range [2]int{-1, target.Size} {
			out = append(out, grid.Location{X: target.X + xx, Y: target.Y - yy})
		}
	}
	return out
}

// SeekMeleeTile picks the melee tile around target with the shortest walking path
// from from. Tiles occupied in occupied are skipped and paths are built over walk.
// Equal path lengths are broken by straight-line distance from from, and then by
// the order of MeleeTiles.
//
// Postcondition: returns ErrNoPathFound when no melee tile is reachable.
func SeekMeleeTile(walk, occupied Terrain, from grid.Location, target grid.Box) (grid.Location, error) {
	best := grid.Location{}
	bestLen := math.MaxInt
	bestDist := math.Inf(1)
	for _, tile := range MeleeTiles(target) {
		if occupied.BlocksMovementAt(tile.X, tile.Y) {
			continue
		}
		path, err := ConstructPath(walk, from, tile)
		if err != nil {
			continue
		}
		d := Dist(from.X, from.Y, tile.X, tile.Y)
		if len(path) < bestLen || (len(path) == bestLen && d < bestDist) {
			best, bestLen, bestDist = tile, len(path), d
		}
	}
	if bestLen == math.MaxInt {
		return from, ErrNoPathFound
	}
	return best, nil
}

// EscapeTile finds the nearest walkable tile other than from within a window of
// half-width ceil(size/2). It is used to step out from under a unit of the given size.
//
// Postcondition: returns ErrNoPathFound when every tile in the window is blocked.
func EscapeTile(t Terrain, from grid.Location, size int) (grid.Location, error) {
	maxDist := (size + 1) / 2
	best := from
	bestDist := math.Inf(1)
	for yy := -maxDist; yy < maxDist; yy++ {
		for xx := -maxDist; xx < maxDist; xx++ {
			x, y := from.X+xx, from.Y+yy
			if t.BlocksMovementAt(x, y) {
				continue
			}
			d := Dist(from.X, from.Y, x, y)
			if d > 0 && d < bestDist {
				best, bestDist = grid.Location{X: x, Y: y}, d
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return from, ErrNoPathFound
	}
	return best, nil
}

// NearestOpenTile redirects a click on an occupied tile. It scans a window of
// half-width ceil(size/2) around click and returns the free tile closest to the
// click, breaking ties by distance from from.
//
// Postcondition: returns ErrNoPathFound when the window holds no free tile.
func NearestOpenTile(t Terrain, click grid.Location, size int, from grid.Location) (grid.Location, error) {
	maxDist := (size + 1) / 2
	best := click
	bestClick := math.Inf(1)
	bestFrom := math.Inf(1)
	for yy := -maxDist; yy < maxDist; yy++ {
		for xx := -maxDist; xx < maxDist; xx++ {
			x, y := click.X+xx, click.Y+yy
			if t.BlocksMovementAt(x, y) {
				continue
			}
			dc := Dist(x, y, click.X, click.Y)
			df := Dist(x, y, from.X, from.Y)
			if dc < bestClick || (dc == bestClick && df < bestFrom) {
				best, bestClick, bestFrom = grid.Location{X: x, Y: y}, dc, df
			}
		}
	}
	if math.IsInf(bestClick, 1) {
		return click, ErrNoPathFound
	}
	return best, nil
}
