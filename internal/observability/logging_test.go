package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/inferno/internal/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		level, format string
		ok            bool
	}{
		{"debug", "console", true},
		{"info", "json", true},
		{"warn", "json", true},
		{"error", "console", true},
		{"trace", "json", false},
		{"info", "xml", false},
	}
	for _, tc := range cases {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			logger, err := NewLogger(config.LoggingConfig{Level: tc.level, Format: tc.format})
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(mustLevel(t, tc.level)))
		})
	}
}

func mustLevel(t *testing.T, s string) zapcore.Level {
	t.Helper()
	l, err := zapcore.ParseLevel(s)
	require.NoError(t, err)
	return l
}

func TestNewLogger_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	cfg := config.LoggingConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("tick")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestRotatingFile(t *testing.T) {
	cfg := config.LoggingConfig{File: "x.log", MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 7}
	lj := RotatingFile(cfg)
	assert.Equal(t, "x.log", lj.Filename)
	assert.Equal(t, 5, lj.MaxSize)
	assert.Equal(t, 2, lj.MaxBackups)
	assert.Equal(t, 7, lj.MaxAge)
}
