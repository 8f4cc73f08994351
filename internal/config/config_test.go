package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "blog.db", cfg.SQLite.Path)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9000"
  session_secret: "file-secret"
postgres:
  dsn: "postgres://localhost/blog"
sqlite:
  path: "/tmp/blog.db"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "file-secret", cfg.Server.SessionSecret)
	assert.Equal(t, "postgres://localhost/blog", cfg.Postgres.DSN)
	assert.Equal(t, "/tmp/blog.db", cfg.SQLite.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0o600))

	t.Setenv("BLOG_ADDR", ":7000")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://env/blog")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "env-secret", cfg.Server.SessionSecret)
	assert.Equal(t, "postgres://env/blog", cfg.Postgres.DSN)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
