package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/pkg/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(logger.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.Catalog.SeedOnStart)
	assert.Equal(t, 30*24*time.Hour, cfg.Alerting.ContractLookahead())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("ROSREG_SERVER_PORT", "9090")
	t.Setenv("ROSREG_DATABASE_DRIVER", "sqlite")
	t.Setenv("ROSREG_DATABASE_PATH", "/tmp/rosreg-test.db")
	t.Setenv("ROSREG_ALERTING_CONTRACT_LOOKAHEAD_DAYS", "14")

	cfg, err := config.LoadConfig(logger.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Database.IsSQLite())
	assert.Equal(t, 14*24*time.Hour, cfg.Alerting.ContractLookahead())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ROSREG_DATABASE_DRIVER", "mysql")

	_, err := config.LoadConfig(logger.NewNoopLogger())
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "rosreg",
		Password: "secret",
		Database: "rosreg",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=rosreg password=secret dbname=rosreg sslmode=require",
		db.GetDSN())
}

func TestServerAddr(t *testing.T) {
	srv := config.ServerConfig{Host: "127.0.0.1", Port: 8443}
	assert.Equal(t, "127.0.0.1:8443", srv.Addr())
}
