package behavior_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/sim"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

// fixedSource replays floats in order and panics when it runs dry.
type fixedSource struct {
	floats []float64
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *fixedSource) Intn(int) int { return 0 }

// recWorld keeps the events a behavior records outside of a scheduler tick.
type recWorld struct {
	*sim.Region
	events []unit.Event
}

func (w *recWorld) Record(ev unit.Event) { w.events = append(w.events, ev) }

const catalogYAML = `
weapons:
  - {id: claws, name: Claws, style: slash, range: 1, speed: 4}
`

func testCatalog(t testing.TB) *unit.Catalog {
	t.Helper()
	c := unit.NewCatalog()
	require.NoError(t, c.Load([]byte(catalogYAML)))
	return c
}

func digger() *unit.Template {
	return &unit.Template{
		ID:          "digger",
		Name:        "Digger",
		Size:        4,
		Stats:       combat.Stats{Attack: 210, Strength: 210, Defence: 120, Range: 120, Magic: 120, Hitpoint: 75},
		AttackStyle: combat.StyleSlash,
		AttackRange: 1,
		AttackSpeed: 4,
		Weapons:     map[combat.Style]string{combat.StyleSlash: "claws"},
		Behavior:    "dig",
	}
}

type fixture struct {
	world  *recWorld
	src    *fixedSource
	player *unit.Unit
	mob    *unit.Unit
}

func newFixture(t *testing.T, tmpl *unit.Template, floats ...float64) *fixture {
	t.Helper()
	src := &fixedSource{floats: floats}
	r := sim.NewRegion(30, 30, src, zap.NewNop())
	c := testCatalog(t)
	p, err := unit.NewPlayer("player", grid.Location{X: 15, Y: 15}, unit.Equipment{}, c)
	require.NoError(t, err)
	require.NoError(t, r.AddUnit(p))
	m, err := unit.NewMob(tmpl, c, grid.Location{X: 2, Y: 5}, unit.SpawnOptions{Aggro: p})
	require.NoError(t, err)
	require.NoError(t, r.AddUnit(m))
	return &fixture{world: &recWorld{Region: r}, src: src, player: p, mob: m}
}

func (f *fixture) block(t *testing.T, x, y int) {
	t.Helper()
	require.NoError(t, f.world.AddObstacle(sim.NewObstacle("rock", grid.Location{X: x, Y: y}, 1, grid.MaskNone, true)))
}
