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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# terminal config
backend:
  host: db.local
  port: 5433
  user: pos
  password: "secret"
  database: cafe

storage:
  driver: redis
  redis_addr: "localhost:6380"

printer:
  transport: none
  spool_dir: /var/spool/pos

app:
  business_name: "Godavari Cafe"
  port: 8080
`))
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Backend.Host)
	assert.Equal(t, 5433, cfg.Backend.Port)
	assert.Equal(t, "secret", cfg.Backend.Password)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "localhost:6380", cfg.Storage.RedisAddr)
	assert.Equal(t, "none", cfg.Printer.Transport)
	assert.Equal(t, "Godavari Cafe", cfg.App.BusinessName)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.RabbitMQ.Enabled())
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backend:
  host: localhost
  user: pos
  password: pos
  database: cafe
`))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Backend.Port)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "tcp", cfg.Printer.Transport)
	assert.Equal(t, 3000, cfg.App.Port)
}

func TestLoad_InlineComments(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backend:
  host: localhost
storage:
  driver: redis       # file | redis
app:
  business_name: "Cafe # 7"
`))
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "Cafe # 7", cfg.App.BusinessName)
}

func TestLoad_MissingBackendHost(t *testing.T) {
	_, err := Load(writeConfig(t, `
app:
  port: 3000
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
