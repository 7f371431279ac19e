package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vrt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = cfg.Finalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultSQLiteDSN, cfg.DSN)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "addr: 127.0.0.1:9000\nstore: redis\ndsn: redis://localhost:6379/2\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, "redis://localhost:6379/2", cfg.DSN)
	assert.Empty(t, cfg.LogPath)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "addr: :9000\nlog: file.log\n")
	t.Setenv("VRT_ADDR", ":7000")
	t.Setenv("VRT_LOG", " env.log ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "env.log", cfg.LogPath)
	assert.Equal(t, "sqlite", cfg.Store, "unset fields keep defaults")
}

func TestLoadDoesNotValidate(t *testing.T) {
	t.Setenv("VRT_STORE", "bogus")

	cfg, err := Load("")
	require.NoError(t, err, "a later override may still fix the store")
	assert.Equal(t, "bogus", cfg.Store)

	_, err = cfg.Finalize()
	assert.ErrorContains(t, err, `invalid store "bogus"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "addr: [unterminated\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestFinalizeDefaultDSNPerStore(t *testing.T) {
	tests := []struct {
		store string
		want  string
	}{
		{"sqlite", DefaultSQLiteDSN},
		{"redis", DefaultRedisDSN},
		{"memory", ""},
	}
	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			cfg, err := Config{Addr: ":1", Store: tt.store}.Finalize()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DSN)
		})
	}
}

func TestFinalizeKeepsExplicitDSN(t *testing.T) {
	cfg, err := Config{Addr: ":1", Store: "redis", DSN: "rediss://cache:6380/1"}.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "rediss://cache:6380/1", cfg.DSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Addr: ":1", Store: "sqlite", DSN: "vrt.sqlite3"}, false},
		{"memory without dsn", Config{Addr: ":1", Store: "memory"}, false},
		{"redis url", Config{Addr: ":1", Store: "redis", DSN: "redis://localhost:6379/0"}, false},
		{"redis with sqlite path", Config{Addr: ":1", Store: "redis", DSN: "vrt.sqlite3"}, true},
		{"unknown store", Config{Addr: ":1", Store: "etcd", DSN: "x"}, true},
		{"sqlite without dsn", Config{Addr: ":1", Store: "sqlite"}, true},
		{"no addr", Config{Store: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
