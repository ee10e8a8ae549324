// Package config provides Viper-based configuration loading for the simulator.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SimulationConfig holds tick cadence and determinism settings.
type SimulationConfig struct {
	// TickDuration is the wall-clock length of one tick in realtime mode.
	TickDuration time.Duration `mapstructure:"tick_duration"`
	// MaxTicks stops the run after this many ticks. 0 means no limit.
	MaxTicks int `mapstructure:"max_ticks"`
	// Seed seeds the deterministic random source. 0 selects the crypto source.
	Seed uint64 `mapstructure:"seed"`
	// Realtime paces ticks at TickDuration instead of running them back to back.
	Realtime bool `mapstructure:"realtime"`
}

// ContentConfig holds the locations of YAML and Lua content.
type ContentConfig struct {
	MobsDir     string `mapstructure:"mobs_dir"`
	WeaponsFile string `mapstructure:"weapons_file"`
	ItemsFile   string `mapstructure:"items_file"`
	// PrayersFile overrides the built-in prayer book when non-empty.
	PrayersFile string `mapstructure:"prayers_file"`
	// ScriptsDir holds global Lua scripts; empty disables them.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit is the per-hook Lua opcode budget. 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File, when set, also writes logs to a rotating file.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
)

// violations collects every problem Validate finds.
type violations []string

func (v *violations) addf(format string, args ...any) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(v, "; "))
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var v violations
	c.Simulation.validate(&v)
	c.Content.validate(&v)
	c.Logging.validate(&v)
	return v.err()
}

func (s SimulationConfig) validate(v *violations) {
	if s.TickDuration <= 0 {
		v.addf("simulation.tick_duration must be > 0, got %s", s.TickDuration)
	}
	if s.MaxTicks < 0 {
		v.addf("simulation.max_ticks must be >= 0, got %d", s.MaxTicks)
	}
}

func (c ContentConfig) validate(v *violations) {
	if c.MobsDir == "" {
		v.addf("content.mobs_dir is required")
	}
	if c.WeaponsFile == "" {
		v.addf("content.weapons_file is required")
	}
	if c.ScriptInstructionLimit < 0 {
		v.addf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
}

func (l LoggingConfig) validate(v *violations) {
	if !slices.Contains(logLevels, l.Level) {
		v.addf("logging.level %q is not one of %v", l.Level, logLevels)
	}
	if !slices.Contains(logFormats, l.Format) {
		v.addf("logging.format %q is not one of %v", l.Format, logFormats)
	}
	if l.File == "" {
		return
	}
	if l.MaxSizeMB < 1 {
		v.addf("logging.max_size_mb must be >= 1 when logging.file is set, got %d", l.MaxSizeMB)
	}
	if l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		v.addf("logging.max_backups and logging.max_age_days must be >= 0")
	}
}

// Load reads the YAML file at path over the defaults. Any key can be overridden
// from the environment as SIM_<SECTION>_<KEY>, e.g. SIM_SIMULATION_SEED.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes and validates whatever v currently holds.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.tick_duration", "600ms")
	v.SetDefault("simulation.max_ticks", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.realtime", false)

	v.SetDefault("content.mobs_dir", "content/mobs")
	v.SetDefault("content.weapons_file", "content/weapons.yaml")
	v.SetDefault("content.items_file", "content/items.yaml")
	v.SetDefault("content.prayers_file", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}
