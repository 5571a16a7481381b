package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.Seed)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationDuration())
	assert.Equal(t, "und", cfg.Listing.Collation)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docflow.yaml")
	body := `
server:
  port: "9000"
storage:
  driver: postgres
database:
  host: db.internal
  name: flows
listing:
  collation: de
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("DOCFLOW_CONFIG", path)
	t.Setenv("DATABASE_NAME", "override")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("DOCFLOW_SEED", "false")
	t.Setenv("LOG_FILE", "/var/log/docflow/api.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.False(t, cfg.Storage.Seed)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "override", cfg.Database.Name)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpirationDuration())
	assert.Equal(t, "de", cfg.Listing.Collation)
	assert.Contains(t, cfg.Database.ConnectionString(), "dbname=override")
	assert.Equal(t, "/var/log/docflow/api.log", cfg.Log.File)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("DOCFLOW_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DOCFLOW_CONFIG", "")
	t.Setenv("DOCFLOW_STORAGE", "cassandra")
	_, err = Load()
	require.ErrorContains(t, err, "unknown storage driver")

	t.Setenv("DOCFLOW_STORAGE", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "soon")
	_, err = Load()
	require.ErrorContains(t, err, "JWT_EXPIRATION_HOURS")
}
