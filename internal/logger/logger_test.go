package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerCachesByName(t *testing.T) {
	require.NoError(t, Init(DefaultConfig()))

	a := GetLogger("store")
	b := GetLogger("store")
	c := GetLogger("tracker")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestFileOutputWritesComponentField(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.Format = "json"
	cfg.Path = dir
	cfg.Level = "debug"
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	log := GetLogger("repository")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.WithField("employee_id", "e-1").Info("Employee created")

	data, err := os.ReadFile(filepath.Join(dir, "repository.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"repository"`)
	assert.Contains(t, string(data), `"employee_id":"e-1"`)
	assert.Contains(t, string(data), `"message":"Employee created"`)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	assert.Equal(t, logrus.InfoLevel, GetLogger("bot").GetLevel())
}
