package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "data/telangana-crime-data.csv", cfg.Dataset.Source)
	assert.False(t, cfg.Dataset.AllowSynthetic)
	assert.Equal(t, 15*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.QueryCacheTTL)
	assert.Equal(t, "report-events-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.Len(t, cfg.Server.AllowOrigins, 3)
}

func TestLoadFile_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\nDATASET_SOURCE=https://example.org/crime.csv\nDATASET_ALLOW_SYNTHETIC=true\nADMIN_API_KEY=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ADMIN_API_KEY", "from-env")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://dash.example.org, ")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.org/crime.csv", cfg.Dataset.Source)
	assert.True(t, cfg.Dataset.AllowSynthetic)
	assert.Equal(t, "from-env", cfg.Auth.AdminAPIKey)
	assert.Equal(t, []string{"https://dash.example.org"}, cfg.Server.AllowOrigins)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "crime", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=crime sslmode=disable", cfg.GetDatabaseDSN())
}
