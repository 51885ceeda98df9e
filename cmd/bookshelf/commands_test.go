package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Backend = config.BackendMemory
	cfg.DataFile = filepath.Join(t.TempDir(), "books.godb")
	cfg.LogLevel = "error"
	return cfg
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd, flushLogs := newRootCmd(cfg)
	defer flushLogs()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedThenQueries(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "12 books successfully inserted!")
	assert.Contains(t, out, `2. "1984" by George Orwell (1949)`)

	// the snapshot written on close is what the queries command reads
	out, err = execute(t, cfg, "queries")
	require.NoError(t, err)
	assert.Contains(t, out, "=== 1. Books in the Fiction genre ===")
	assert.Contains(t, out, "4 books matching {genre $eq Fiction}")
	assert.Contains(t, out, "=== 15. Explain a lookup by title ===")
	assert.Contains(t, out, "used index title_1")
}

func TestQueries_SingleStepWithSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataFile = ""

	out, err := execute(t, cfg, "queries", "--seed", "--step", "books-by-author")
	require.NoError(t, err)
	assert.Contains(t, out, "2 books matching {author $eq George Orwell}")
	assert.NotContains(t, out, "===")
}

func TestQueries_UnknownStep(t *testing.T) {
	_, err := execute(t, testConfig(t), "queries", "--step", "does-not-exist")
	assert.Error(t, err)
}

func TestFlushRunsAfterFailedCommand(t *testing.T) {
	before := zap.L()
	cmd, flushLogs := newRootCmd(testConfig(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"queries", "--step", "no-such-step"})

	require.Error(t, cmd.ExecuteContext(context.Background()))
	assert.NotSame(t, before, zap.L(), "logger installed before the command ran")

	flushLogs()
	assert.Same(t, before, zap.L())
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := testConfig(t)
	_, err := execute(t, cfg, "--backend", "sqlite", "--sqlite-path", ":memory:", "--collection", "library", "queries", "--seed", "--step", "books-by-genre")
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
	assert.Equal(t, "library", cfg.Collection)
}

func TestInvalidBackend(t *testing.T) {
	_, err := execute(t, testConfig(t), "--backend", "oracle", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}
