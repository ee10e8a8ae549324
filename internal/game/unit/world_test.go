package unit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

// fixedSource replays floats and ints in order and panics when it runs dry.
type fixedSource struct {
	floats []float64
	ints   []int
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *fixedSource) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v >= n {
		panic("fixedSource: int out of range")
	}
	return v
}

type scheduled struct {
	ticks int
	fn    func()
}

type testWorld struct {
	g         *grid.Grid
	src       dice.Source
	player    *unit.Unit
	units     []*unit.Unit
	events    []unit.Event
	scheduled []scheduled
}

func newTestWorld(size int) *testWorld {
	return &testWorld{g: grid.New(size, size), src: dice.NewSeededSource(1)}
}

func (w *testWorld) Grid() *grid.Grid     { return w.g }
func (w *testWorld) Source() dice.Source  { return w.src }
func (w *testWorld) Logger() *zap.Logger  { return zap.NewNop() }
func (w *testWorld) Player() *unit.Unit   { return w.player }
func (w *testWorld) Moved(*unit.Unit)     { w.rebuild() }
func (w *testWorld) Record(ev unit.Event) { w.events = append(w.events, ev) }
func (w *testWorld) Schedule(n int, fn func()) {
	w.scheduled = append(w.scheduled, scheduled{ticks: n, fn: fn})
}

func (w *testWorld) add(u *unit.Unit) *unit.Unit {
	if u.IsPlayer() {
		w.player = u
	}
	w.units = append(w.units, u)
	w.rebuild()
	return u
}

func (w *testWorld) rebuild() {
	occ := make([]grid.Occupant, 0, len(w.units))
	for _, u := range w.units {
		occ = append(occ, u)
	}
	w.g.Rebuild(occ)
}

func (w *testWorld) eventsOf(typ unit.EventType) []unit.Event {
	var out []unit.Event
	for _, ev := range w.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

const catalogYAML = `
weapons:
  - id: slash_claws
    name: Claws
    style: slash
    range: 1
    speed: 4
  - id: crush_fist
    name: Fist
    style: crush
    range: 1
    speed: 4
  - id: spines
    name: Spines
    style: range
    range: 15
    speed: 4
    launch_delay: 2
    projectile:
      reduce_delay: 2
  - id: twisted_bow
    name: Twisted bow
    style: range
    range: 10
    speed: 5
  - id: blood_barrage
    name: Blood Barrage
    style: magic
    range: 10
    speed: 5
    base_spell_damage: 29
    heal_fraction: 0.25
set_effects:
  - id: void_ranger
    name: Void ranger
    items: [void_top, void_robe]
    family: range
    multiplier: 1.1
items:
  - id: bow
    name: Twisted bow
    slot: weapon
    weapon: twisted_bow
    bonuses:
      attack: {range: 70}
      other: {ranged_strength: 20}
  - id: staff
    name: Kodai wand
    slot: weapon
    weapon: blood_barrage
    bonuses:
      attack: {magic: 28}
  - id: void_top
    name: Void knight top
    slot: body
    set_effect: void_ranger
    bonuses:
      defence: {stab: 45, slash: 45}
  - id: void_robe
    name: Void knight robe
    slot: legs
    set_effect: void_ranger
    bonuses:
      defence: {stab: 30, slash: 30}
      other: {prayer: 2}
`

func testCatalog(t *testing.T) *unit.Catalog {
	t.Helper()
	c := unit.NewCatalog()
	require.NoError(t, c.Load([]byte(catalogYAML)))
	return c
}

func meleeTemplate(size int) *unit.Template {
	return &unit.Template{
		ID:          "brute",
		Name:        "Brute",
		Size:        size,
		Stats:       combat.Stats{Attack: 100, Strength: 100, Defence: 100, Range: 1, Magic: 1, Hitpoint: 50},
		AttackStyle: combat.StyleSlash,
		AttackRange: 1,
		AttackSpeed: 4,
		Weapons:     map[combat.Style]string{combat.StyleSlash: "slash_claws"},
	}
}

func newMob(t *testing.T, c *unit.Catalog, tmpl *unit.Template, loc grid.Location, opts unit.SpawnOptions) *unit.Unit {
	t.Helper()
	require.NoError(t, tmpl.Validate())
	m, err := unit.NewMob(tmpl, c, loc, opts)
	require.NoError(t, err)
	return m
}

func newPlayer(t *testing.T, c *unit.Catalog, loc grid.Location, ids ...string) *unit.Unit {
	t.Helper()
	eq := unit.Equipment{}
	for _, id := range ids {
		it, ok := c.Item(id)
		require.True(t, ok, id)
		eq[it.Slot] = it
	}
	p, err := unit.NewPlayer("player", loc, eq, c)
	require.NoError(t, err)
	return p
}

func prayerDef(t *testing.T, id string) (*prayer.Def, bool) {
	t.Helper()
	return prayer.Standard().Get(id)
}
