package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper(t *testing.T) {
	v := viper.New()
	assert.Equal(t, DefaultConfig(), FromViper(v))

	v.Set("log.level", "debug")
	v.Set("log.format", "json")
	cfg := FromViper(v)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	lg, err := New(Config{Level: "info", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	lg.Debug("hidden")
	lg.Info("translated")
	_ = lg.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"translated"`)
	assert.NotContains(t, string(b), "hidden")
}
