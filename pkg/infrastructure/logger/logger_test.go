package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "json to stdout", cfg: &Config{Level: "debug", Format: "json", Output: "stdout"}},
		{name: "empty level", cfg: &Config{Format: "console"}},
		{name: "unknown level", cfg: &Config{Level: "chatty"}, wantErr: true},
		{name: "unwritable file", cfg: &Config{Output: "/nonexistent-dir/bomx.log"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bomx.log")
	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("exploded", zap.String("product", "TABLE"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"product":"TABLE"`))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestRunIDContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, enriched := WithRunID(context.Background(), zap.New(core), "run-1")

	assert.Equal(t, "run-1", RunID(ctx))
	assert.Equal(t, "", RunID(context.Background()))
	assert.Same(t, enriched, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "run-1", logs.All()[0].ContextMap()["run_id"])
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)
	ctx, _ := WithRunID(context.Background(), zap.NewNop(), "run-2")

	query := func() (string, int64) { return "SELECT 1", 1 }
	gl.Trace(ctx, time.Now(), query, nil)
	gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)
	gl.Trace(ctx, time.Now(), query, errors.New("disk full"))
	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "SQL Query", entries[0].Message)
	assert.Equal(t, "run-2", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "SQL Error", entries[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
