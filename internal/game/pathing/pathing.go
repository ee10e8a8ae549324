// Package pathing finds walkable routes across a collision grid.
//
// Paths are shortest paths on the 8-connected tile graph. A diagonal step is legal
// only when both orthogonal tiles it cuts across are walkable.
package pathing

import (
	"errors"
	"math"

	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// ErrNoPathFound is returned when the destination cannot be reached from the origin.
var ErrNoPathFound = errors.New("pathing: no path found")

// Terrain answers walkability queries. Implementations must report tiles outside
// their bounds as blocked.
type Terrain interface {
	BlocksMovementAt(x, y int) bool
}

// TerrainFunc adapts a function to the Terrain interface.
type TerrainFunc func(x, y int) bool

// BlocksMovementAt calls f(x, y).
func (f TerrainFunc) BlocksMovementAt(x, y int) bool { return f(x, y) }

// neighbours is the expansion order. Orthogonal moves come first, north and south
// ahead of east and west, so equal-cost ties favour them.
var neighbours = [8][2]int{
	{0, -1}, {0, 1}, {1, 0}, {-1, 0},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// Dist returns the Euclidean distance between two tiles.
func Dist(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Sqrt(dx*dx + dy*dy)
}

// ClosestPointTo returns the tile of target closest to (x, y).
//
// Postcondition: target.Contains(result.X, result.Y).
func ClosestPointTo(x, y int, target grid.Box) grid.Location {
	return target.Clamp(x, y)
}

// canStep reports whether a single king move from a to b is legal. The tile b must
// be walkable unless it is exempt.
func canStep(t Terrain, a, b grid.Location, exempt grid.Location) bool {
	if b != exempt && t.BlocksMovementAt(b.X, b.Y) {
		return false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx != 0 && dy != 0 {
		if t.BlocksMovementAt(a.X+dx, a.Y) || t.BlocksMovementAt(a.X, a.Y+dy) {
			return false
		}
	}
	return true
}

// ConstructPath returns the tiles walked from origin to destination, excluding the
// origin and ending at destination. Among shortest paths, each step prefers the
// tile nearest the destination in a straight line.
//
// Precondition: t reports out-of-bounds tiles as blocked so the search terminates.
// Postcondition: returns ErrNoPathFound when destination is blocked or unreachable.
// The origin tile itself need not be walkable.
func ConstructPath(t Terrain, origin, destination grid.Location) ([]grid.Location, error) {
	if origin == destination {
		return []grid.Location{}, nil
	}
	if t.BlocksMovementAt(destination.X, destination.Y) {
		return nil, ErrNoPathFound
	}

	dist := map[grid.Location]int{destination: 0}
	queue := []grid.Location{destination}
	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbours {
			next := grid.Location{X: cur.X + n[0], Y: cur.Y + n[1]}
			if _, seen := dist[next]; seen {
				continue
			}
			if !canStep(t, cur, next, origin) {
				continue
			}
			dist[next] = dist[cur] + 1
			if next == origin {
				found = true
				break
			}
			queue = append(queue, next)
		}
	}
	if !found {
		return nil, ErrNoPathFound
	}

	path := make([]grid.Location, 0, dist[origin])
	cur := origin
	for cur != destination {
		want := dist[cur] - 1
		best := grid.Location{}
		bestDist := math.Inf(1)
		for _, n := range neighbours {
			next := grid.Location{X: cur.X + n[0], Y: cur.Y + n[1]}
			d, ok := dist[next]
			if !ok || d != want || !canStep(t, cur, next, origin) {
				continue
			}
			e := Dist(next.X, next.Y, destination.X, destination.Y)
			if e < bestDist {
				best, bestDist = next, e
			}
		}
		path = append(path, best)
		cur = best
	}
	return path, nil
}

// Path advances origin up to speed tiles along the shortest path to destination and
// returns the tile reached. Movement stops before the first tile that lies inside
// aggro, when aggro is non-nil.
//
// Postcondition: when the destination is unreachable the origin is returned
// together with ErrNoPathFound; callers treat this as standing still.
func Path(t Terrain, origin, destination grid.Location, speed int, aggro *grid.Box) (grid.Location, error) {
	if speed < 1 || origin == destination {
		return origin, nil
	}
	path, err := ConstructPath(t, origin, destination)
	if err != nil {
		return origin, err
	}
	cur := origin
	for i := 0; i < speed && i < len(path); i++ {
		if aggro != nil && aggro.Contains(path[i].X, path[i].Y) {
			break
		}
		cur = path[i]
	}
	return cur, nil
}
