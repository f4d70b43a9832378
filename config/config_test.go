package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "DB_PATH", "UPLOAD_DRIVER", "UPLOAD_MAX_BYTES", "CONFIG_FILE", "ADMIN_ACCOUNTS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, "db.json", cfg.DBPath)
	assert.Equal(t, "local", cfg.UploadDriver)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes)
	assert.False(t, cfg.AuthEnforce)
	assert.Empty(t, cfg.AdminAccounts)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_ENFORCE", "true")
	t.Setenv("ADMIN_ACCOUNTS", "a@x.sn:hash1, b@x.sn:hash2 ,")
	t.Setenv("UPLOAD_MAX_BYTES", "notanumber")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AuthEnforce)
	assert.Equal(t, []string{"a@x.sn:hash1", "b@x.sn:hash2"}, cfg.AdminAccounts)
	assert.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes)
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "jobspace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\ncors_origins:\n  - http://localhost:5173\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_PATH", "data/db.json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "data/db.json", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	base := Config{StorageDriver: "file", DBPath: "db.json", UploadDriver: "local", UploadMaxBytes: 1}
	require.NoError(t, base.validate())

	pg := base
	pg.StorageDriver = "postgres"
	assert.Error(t, pg.validate())

	s3 := base
	s3.UploadDriver = "s3"
	assert.Error(t, s3.validate())

	unknown := base
	unknown.StorageDriver = "mongo"
	assert.Error(t, unknown.validate())
}
