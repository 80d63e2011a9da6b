// Package config loads and validates the service configuration from
// file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/rosverk/rosreg/pkg/constants"
)

// Config holds the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Export    ExportConfig    `mapstructure:"export"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"` // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	EnablePprof     bool   `mapstructure:"enable_pprof"`
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres or sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	Path            string `mapstructure:"path"` // sqlite file path
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"`  // minutes
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"` // minutes
}

// GetDSN returns the postgres connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// IsSQLite reports whether the embedded sqlite driver is selected. It is
// the zero-dependency mode used by the admin CLI and local development.
func (c *DatabaseConfig) IsSQLite() bool {
	return c.Driver == "sqlite"
}

type RedisConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Addresses    []string `mapstructure:"addresses"`
	Password     string   `mapstructure:"password"`
	DB           int      `mapstructure:"db"`
	PoolSize     int      `mapstructure:"pool_size"`
	MinIdleConns int      `mapstructure:"min_idle_conns"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	MountPath string `mapstructure:"mount_path"`
	SecretKey string `mapstructure:"secret_key"`
}

type CatalogConfig struct {
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

type AlertingConfig struct {
	ContractLookaheadDays int `mapstructure:"contract_lookahead_days"`
}

// ContractLookahead returns the contract-expiry window as a duration,
// falling back to the 30-day default when unset.
func (c *AlertingConfig) ContractLookahead() time.Duration {
	if c.ContractLookaheadDays <= 0 {
		return constants.DefaultExpiryLookahead
	}
	return time.Duration(c.ContractLookaheadDays) * 24 * time.Hour
}

type CacheConfig struct {
	DashboardTTL int `mapstructure:"dashboard_ttl"`  // seconds
	CatalogL1TTL int `mapstructure:"catalog_l1_ttl"` // seconds
	CatalogL2TTL int `mapstructure:"catalog_l2_ttl"` // seconds
}

type ExportConfig struct {
	TokenSecret string `mapstructure:"token_secret"`
	TokenTTL    int    `mapstructure:"token_ttl"` // seconds
	BlobTTL     int    `mapstructure:"blob_ttl"`  // seconds
}

type RateLimitConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DefaultRPM int  `mapstructure:"default_rpm"`
	BurstSize  int  `mapstructure:"burst_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// Validate checks the loaded configuration for values the service cannot
// start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host and database.database are required for the postgres driver")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Redis.Enabled && len(c.Redis.Addresses) == 0 {
		return fmt.Errorf("redis.addresses is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault.address is required when vault is enabled")
	}
	if c.Alerting.ContractLookaheadDays < 0 {
		return fmt.Errorf("alerting.contract_lookahead_days must not be negative")
	}
	return nil
}
