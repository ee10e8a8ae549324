package runner

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/config"
	"github.com/cory-johannsen/inferno/internal/game/behavior"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
	"github.com/cory-johannsen/inferno/internal/game/sim"
	"github.com/cory-johannsen/inferno/internal/game/unit"
	"github.com/cory-johannsen/inferno/internal/scripting"
)

// LoadContent reads the templates, catalog, prayer book and scripts named by
// cfg. The returned manager owns the Lua VMs and must be closed by the caller.
//
// Precondition: roller and logger must be non-nil.
func LoadContent(cfg config.ContentConfig, roller *dice.Roller, logger *zap.Logger) (sim.Content, *scripting.Manager, error) {
	catalog := unit.NewCatalog()
	files := []string{cfg.WeaponsFile}
	if cfg.ItemsFile != "" {
		files = append(files, cfg.ItemsFile)
	}
	if err := catalog.LoadFiles(files...); err != nil {
		return sim.Content{}, nil, fmt.Errorf("loading catalog: %w", err)
	}

	templates, err := unit.LoadTemplates(cfg.MobsDir)
	if err != nil {
		return sim.Content{}, nil, fmt.Errorf("loading mob templates: %w", err)
	}

	book := prayer.Standard()
	if cfg.PrayersFile != "" {
		if book, err = prayer.LoadFile(cfg.PrayersFile); err != nil {
			return sim.Content{}, nil, fmt.Errorf("loading prayers: %w", err)
		}
	}

	mgr := scripting.NewManager(roller, logger)
	if cfg.ScriptsDir != "" {
		if err := mgr.LoadGlobal(cfg.ScriptsDir, cfg.ScriptInstructionLimit); err != nil {
			mgr.Close()
			return sim.Content{}, nil, fmt.Errorf("loading scripts: %w", err)
		}
	}
	behaviors := behavior.Defaults(behavior.NewHost(mgr), mgr, cfg.ScriptInstructionLimit)

	logger.Info("content loaded",
		zap.Int("templates", len(templates)),
		zap.Int("prayers", len(book.All())),
		zap.String("scripts_dir", cfg.ScriptsDir),
	)
	return sim.Content{
		Templates: templates,
		Catalog:   catalog,
		Prayers:   book,
		Behaviors: behaviors.Build,
	}, mgr, nil
}
