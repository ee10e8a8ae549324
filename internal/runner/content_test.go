package runner_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/config"
	"github.com/cory-johannsen/inferno/internal/game/behavior"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/sim"
	"github.com/cory-johannsen/inferno/internal/runner"
)

const contentRoot = "../../content"

func shippedContent() config.ContentConfig {
	return config.ContentConfig{
		MobsDir:     filepath.Join(contentRoot, "mobs"),
		WeaponsFile: filepath.Join(contentRoot, "weapons.yaml"),
		ItemsFile:   filepath.Join(contentRoot, "items.yaml"),
		ScriptsDir:  filepath.Join(contentRoot, "scripts"),
	}
}

func TestLoadContent_Shipped(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	content, scripts, err := runner.LoadContent(shippedContent(), roller, zap.NewNop())
	require.NoError(t, err)
	defer scripts.Close()

	assert.Len(t, content.Templates, 3)
	for _, id := range []string{"jal_im_kot", "jal_xil", "jal_ak_rek_xil"} {
		assert.Contains(t, content.Templates, id)
	}
	_, ok := content.Catalog.Item("twisted_bow")
	assert.True(t, ok)
	_, ok = content.Prayers.Get("rigour")
	assert.True(t, ok)

	b, err := content.Behaviors(content.Templates["jal_im_kot"])
	require.NoError(t, err)
	assert.IsType(t, behavior.Dig{}, b)
	b, err = content.Behaviors(content.Templates["jal_xil"])
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestLoadContent_MissingFiles(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())

	cfg := shippedContent()
	cfg.WeaponsFile = "nope.yaml"
	_, _, err := runner.LoadContent(cfg, roller, zap.NewNop())
	assert.Error(t, err)

	cfg = shippedContent()
	cfg.MobsDir = "nope"
	_, _, err = runner.LoadContent(cfg, roller, zap.NewNop())
	assert.Error(t, err)

	cfg = shippedContent()
	cfg.PrayersFile = "nope.yaml"
	_, _, err = runner.LoadContent(cfg, roller, zap.NewNop())
	assert.Error(t, err)

	cfg = shippedContent()
	cfg.ScriptsDir = "nope"
	_, _, err = runner.LoadContent(cfg, roller, zap.NewNop())
	assert.Error(t, err)
}

// runEncounter plays a shipped encounter for ticks ticks with a fixed seed and
// returns the final snapshot with per-run identifiers stripped.
func runEncounter(t *testing.T, name string, seed uint64, ticks int) sim.Snapshot {
	t.Helper()
	roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
	content, scripts, err := runner.LoadContent(shippedContent(), roller, zap.NewNop())
	require.NoError(t, err)
	defer scripts.Close()

	enc, err := sim.LoadEncounter(filepath.Join(contentRoot, "encounters", name))
	require.NoError(t, err)
	region, err := enc.Build(content, roller, zap.NewNop())
	require.NoError(t, err)

	loop := runner.NewTickLoop(sim.NewScheduler(region), time.Millisecond, zap.NewNop())
	loop.MaxTicks = ticks
	res := loop.Run(context.Background())
	require.NoError(t, res.Err)

	snap := region.Snapshot()
	for i := range snap.Units {
		snap.Units[i].ID = ""
		snap.Units[i].Aggro = ""
	}
	return snap
}

func TestShippedEncounters_Deterministic(t *testing.T) {
	for _, name := range []string{"wave_62.yaml", "pillar_stack.yaml"} {
		t.Run(name, func(t *testing.T) {
			a := runEncounter(t, name, 62, 60)
			b := runEncounter(t, name, 62, 60)
			assert.Equal(t, a, b)
			assert.LessOrEqual(t, a.Tick, 60)
			for _, u := range a.Units {
				assert.GreaterOrEqual(t, u.Hitpoint, 0)
				assert.LessOrEqual(t, u.Hitpoint, u.MaxHitpoint)
			}
		})
	}
}
