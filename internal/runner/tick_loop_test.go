package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/sim"
	"github.com/cory-johannsen/inferno/internal/game/unit"
	"github.com/cory-johannsen/inferno/internal/runner"
)

// idleScheduler has a player and a passive mob, so the encounter never ends.
func idleScheduler(t *testing.T) *sim.Scheduler {
	t.Helper()
	c := unit.NewCatalog()
	require.NoError(t, c.Load([]byte(`
weapons:
  - {id: claws, name: Claws, style: slash, range: 1, speed: 4}
`)))
	r := sim.NewRegion(20, 20, dice.NewSeededSource(1), zap.NewNop())
	p, err := unit.NewPlayer("player", grid.Location{X: 2, Y: 2}, unit.Equipment{}, c)
	require.NoError(t, err)
	require.NoError(t, r.AddUnit(p))
	m, err := unit.NewMob(&unit.Template{
		ID:          "idle",
		Name:        "Idle",
		Size:        1,
		Stats:       combat.Stats{Attack: 1, Strength: 1, Defence: 1, Range: 1, Magic: 1, Hitpoint: 10},
		AttackStyle: combat.StyleSlash,
		AttackRange: 1,
		AttackSpeed: 4,
		Weapons:     map[combat.Style]string{combat.StyleSlash: "claws"},
	}, c, grid.Location{X: 15, Y: 15}, unit.SpawnOptions{})
	require.NoError(t, err)
	require.NoError(t, r.AddUnit(m))
	return sim.NewScheduler(r)
}

func TestNewTickLoop_Preconditions(t *testing.T) {
	assert.Panics(t, func() { runner.NewTickLoop(nil, time.Second, nil) })
	assert.Panics(t, func() { runner.NewTickLoop(idleScheduler(t), 0, nil) })
}

func TestTickLoop_FastForwardStopsAtMaxTicks(t *testing.T) {
	loop := runner.NewTickLoop(idleScheduler(t), time.Hour, zap.NewNop())
	loop.MaxTicks = 25
	var seen []int
	loop.OnTick = func(ev sim.TickEvents) { seen = append(seen, ev.Tick) }

	res := loop.Run(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, 25, res.Ticks)
	require.Len(t, seen, 25)
	assert.Equal(t, 1, seen[0])
	assert.Equal(t, 25, seen[24])
}

func TestTickLoop_StopsWhenFinished(t *testing.T) {
	r := sim.NewRegion(10, 10, dice.NewSeededSource(1), zap.NewNop())
	loop := runner.NewTickLoop(sim.NewScheduler(r), time.Hour, nil)
	res := loop.Run(context.Background())
	assert.NoError(t, res.Err)
	assert.Equal(t, 0, res.Ticks, "no player means the encounter is already over")
}

func TestTickLoop_FastForwardHonoursCancelledContext(t *testing.T) {
	loop := runner.NewTickLoop(idleScheduler(t), time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := loop.Run(ctx)
	assert.True(t, errors.Is(res.Err, context.Canceled))
	assert.Equal(t, 0, res.Ticks)
}

func TestTickLoop_RealtimePacing(t *testing.T) {
	loop := runner.NewTickLoop(idleScheduler(t), 10*time.Millisecond, nil)
	loop.Realtime = true
	loop.MaxTicks = 3

	start := time.Now()
	res := loop.Run(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Ticks)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestTickLoop_StartCancels(t *testing.T) {
	loop := runner.NewTickLoop(idleScheduler(t), time.Hour, nil)
	loop.Realtime = true
	ctx, cancel := context.WithCancel(context.Background())
	done := loop.Start(ctx)
	cancel()

	select {
	case res := <-done:
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.Equal(t, 0, res.Ticks)
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not stop after cancel")
	}
}
