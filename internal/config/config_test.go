package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8088", cfg.HTTPAddr)
	assert.Equal(t, "file", cfg.DBType)
	assert.Equal(t, "data/sleep-storage.json", cfg.FileSleep)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.False(t, cfg.S3.PathStyle)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "sleep-data")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_PATH_STYLE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "s3", cfg.DBType)
	assert.Equal(t, "sleep-data", cfg.S3.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.PathStyle)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleeptracker.yaml")
	body := "storage_backend: sqlite\nsqlite_path: /tmp/sleep.db\nhttp_addr: \":7000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("HTTP_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "/tmp/sleep.db", cfg.SQLitePath)
	assert.Equal(t, ":9999", cfg.HTTPAddr, "environment beats the config file")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown env", env: map[string]string{"APP_ENV": "moon"}},
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "floppy"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
		{name: "s3 without bucket", env: map[string]string{"STORAGE_BACKEND": "s3"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidate_BackendRequirements(t *testing.T) {
	cfg := &Config{Env: "development", LogLevel: "info", HTTPAddr: ":8088", DBType: "postgres", DBDSN: "postgres://localhost/sleep"}
	assert.NoError(t, cfg.Validate())

	cfg.DBType = "file"
	assert.Error(t, cfg.Validate())

	cfg.FileSleep = "sleep.json"
	assert.NoError(t, cfg.Validate())
}
