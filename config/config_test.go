package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.1, cfg.Alpha)
	assert.Equal(t, 0.01, cfg.Beta)
	assert.Equal(t, "lda", cfg.Model)
	assert.Equal(t, ".", cfg.OutDir)
	assert.False(t, cfg.SaveState)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beta: 0.05\nseed: 42\nmodel: sparselda\nsave_state: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Alpha)
	assert.Equal(t, 0.05, cfg.Beta)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "sparselda", cfg.Model)
	assert.True(t, cfg.SaveState)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gamma: 1\n"), 0644))

	_, err := Load(path)
	var argErr *ArgumentError
	assert.True(t, errors.As(err, &argErr))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }, false},
		{"negative beta", func(c *Config) { c.Beta = -0.01 }, false},
		{"no topics", func(c *Config) { c.Topics = 0 }, false},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }, false},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Topics = 2
			cfg.Iterations = 10
			tc.mod(cfg)

			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var argErr *ArgumentError
			assert.True(t, errors.As(err, &argErr))
		})
	}
}
