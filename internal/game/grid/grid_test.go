package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/inferno/internal/game/grid"
)

type block struct {
	loc  grid.Location
	size int
	col  grid.Collision
	mask grid.Mask
}

func (b *block) Location() grid.Location   { return b.loc }
func (b *block) Size() int                 { return b.size }
func (b *block) Collision() grid.Collision { return b.col }
func (b *block) LineOfSight() grid.Mask    { return b.mask }

func pillar(x, y, size int) *block {
	return &block{loc: grid.Location{X: x, Y: y}, size: size, col: grid.CollisionBlockMovement, mask: grid.MaskFull}
}

// TestFootprint_Bounds verifies the footprint covers [x, x+s) × [y-s+1, y].
func TestFootprint_Bounds(t *testing.T) {
	b := grid.Footprint(grid.Location{X: 10, Y: 20}, 3)
	assert.Equal(t, 10, b.MinX())
	assert.Equal(t, 12, b.MaxX())
	assert.Equal(t, 18, b.MinY())
	assert.Equal(t, 20, b.MaxY())
	assert.Len(t, b.Tiles(), 9)
	assert.True(t, b.Contains(12, 18))
	assert.False(t, b.Contains(13, 18))
	assert.False(t, b.Contains(10, 21))
}

func TestFootprint_PanicsOnZeroSize(t *testing.T) {
	assert.Panics(t, func() { grid.Footprint(grid.Location{}, 0) })
}

// TestBox_Clamp_InsideBox verifies Clamp always lands on a tile of the box.
func TestBox_Clamp_InsideBox(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := grid.Footprint(grid.Location{
			X: rapid.IntRange(0, 30).Draw(rt, "bx"),
			Y: rapid.IntRange(5, 30).Draw(rt, "by"),
		}, rapid.IntRange(1, 5).Draw(rt, "size"))
		p := b.Clamp(rapid.IntRange(-10, 50).Draw(rt, "x"), rapid.IntRange(-10, 50).Draw(rt, "y"))
		if !b.Contains(p.X, p.Y) {
			rt.Fatalf("clamped point %v outside %v", p, b)
		}
	})
}

// TestCollisionMath_MatchesTileOverlap verifies CollisionMath agrees with a
// tile-by-tile overlap check.
func TestCollisionMath_MatchesTileOverlap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := grid.Footprint(grid.Location{X: rapid.IntRange(0, 10).Draw(rt, "ax"), Y: rapid.IntRange(0, 10).Draw(rt, "ay")}, rapid.IntRange(1, 4).Draw(rt, "as"))
		b := grid.Footprint(grid.Location{X: rapid.IntRange(0, 10).Draw(rt, "bx"), Y: rapid.IntRange(0, 10).Draw(rt, "by")}, rapid.IntRange(1, 4).Draw(rt, "bs"))
		want := false
		for _, tile := range a.Tiles() {
			if b.Contains(tile.X, tile.Y) {
				want = true
			}
		}
		if got := grid.CollisionMath(a.X, a.Y, a.Size, b.X, b.Y, b.Size); got != want {
			rt.Fatalf("CollisionMath(%v, %v) = %v, want %v", a, b, got, want)
		}
	})
}

func TestChebyshev(t *testing.T) {
	assert.Equal(t, 4, grid.Chebyshev(grid.Location{X: 1, Y: 1}, grid.Location{X: 5, Y: 3}))
	assert.Equal(t, 0, grid.Chebyshev(grid.Location{X: 2, Y: 2}, grid.Location{X: 2, Y: 2}))
}

// TestGrid_OutOfBounds verifies out-of-bounds tiles block movement but occlude nothing.
func TestGrid_OutOfBounds(t *testing.T) {
	g := grid.New(10, 10)
	assert.True(t, g.BlocksMovementAt(-1, 0))
	assert.True(t, g.BlocksMovementAt(10, 0))
	assert.True(t, g.StaticBlocksAt(0, 10))
	assert.Equal(t, grid.MaskNone, g.OcclusionAt(-1, -1))
	assert.False(t, g.BlocksMovementAt(0, 0))
}

func TestGrid_StaticAndDynamicLayers(t *testing.T) {
	g := grid.New(20, 20)
	p := pillar(2, 5, 3)
	g.AddStatic(p)
	unit := &block{loc: grid.Location{X: 10, Y: 10}, size: 2, col: grid.CollisionBlockMovement}
	g.Rebuild([]grid.Occupant{unit})

	assert.Equal(t, grid.MaskFull, g.OcclusionAt(3, 4))
	assert.True(t, g.BlocksMovementAt(4, 3))
	assert.True(t, g.StaticBlocksAt(4, 3))

	assert.True(t, g.BlocksMovementAt(11, 9))
	assert.False(t, g.StaticBlocksAt(11, 9))
	assert.Equal(t, grid.MaskNone, g.OcclusionAt(11, 9))

	unit.loc = grid.Location{X: 15, Y: 15}
	g.Rebuild([]grid.Occupant{unit})
	assert.False(t, g.BlocksMovementAt(11, 9), "stale dynamic tile must clear on rebuild")
	assert.True(t, g.BlocksMovementAt(15, 15))

	g.RemoveStatic(p)
	assert.False(t, g.BlocksMovementAt(4, 3))
	assert.Empty(t, g.Static())
}

func TestGrid_CollidesWith_IgnoresSelf(t *testing.T) {
	g := grid.New(20, 20)
	a := &block{loc: grid.Location{X: 5, Y: 5}, size: 2, col: grid.CollisionBlockMovement}
	b := &block{loc: grid.Location{X: 8, Y: 5}, size: 1, col: grid.CollisionNone}
	g.Rebuild([]grid.Occupant{a, b})

	assert.True(t, g.CollidesWith(6, 6, 1, nil))
	assert.False(t, g.CollidesWith(6, 6, 1, a))
	assert.False(t, g.CollidesWith(8, 5, 1, nil), "non-blocking occupant never collides")

	occ := g.OccupantsIn(4, 5, 3)
	require.Len(t, occ, 1)
	assert.Same(t, a, occ[0].(*block))
}

func TestGrid_OcclusionIn_UnionsMasks(t *testing.T) {
	g := grid.New(10, 10)
	g.AddStatic(&block{loc: grid.Location{X: 1, Y: 1}, size: 1, mask: grid.MaskEast})
	g.AddStatic(&block{loc: grid.Location{X: 2, Y: 1}, size: 1, mask: grid.MaskNorth})
	assert.Equal(t, grid.MaskEast|grid.MaskNorth, g.OcclusionIn(1, 1, 2))
	assert.Equal(t, grid.MaskEast, g.OcclusionAt(1, 1))
}

func TestNew_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { grid.New(0, 5) })
}
