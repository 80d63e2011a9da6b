package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// LoadConfig loads the configuration from file and environment. Files are
// looked up as config.yaml in /etc/rosreg/ and the working directory;
// every key can be overridden through ROSREG_-prefixed environment
// variables (dots become underscores). When a config file is present it
// is watched, and log.level changes take effect without a restart.
func LoadConfig(log logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/rosreg/")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, constants.ErrCodeInternal, "failed to read config file")
		}
	}

	v.SetEnvPrefix("ROSREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, constants.ErrCodeInternal, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, constants.ErrCodeInternal, "invalid configuration")
	}

	if v.ConfigFileUsed() != "" && log != nil {
		watchLogLevel(v, log)
	}

	return &cfg, nil
}

// watchLogLevel re-applies log.level when the config file changes on disk.
func watchLogLevel(v *viper.Viper, log logger.Logger) {
	current := v.GetString("log.level")
	v.OnConfigChange(func(e fsnotify.Event) {
		level := v.GetString("log.level")
		if level == current {
			return
		}
		current = level
		log.SetLevel(level)
		log.Info(context.Background(), "log level changed",
			logger.String("level", level),
			logger.String("config_file", e.Name))
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("server.enable_pprof", false)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rosreg")
	v.SetDefault("database.database", "rosreg")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "rosreg.db")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", 60)
	v.SetDefault("database.max_conn_idle_time", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", constants.KafkaAuditTopic)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_key", "rosreg")

	v.SetDefault("catalog.seed_on_start", true)

	v.SetDefault("alerting.contract_lookahead_days", 30)

	v.SetDefault("cache.dashboard_ttl", 60)
	v.SetDefault("cache.catalog_l1_ttl", 300)
	v.SetDefault("cache.catalog_l2_ttl", 1800)

	v.SetDefault("export.token_ttl", 900)
	v.SetDefault("export.blob_ttl", 1800)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.default_rpm", 600)
	v.SetDefault("rate_limit.burst_size", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "rosreg")
	v.SetDefault("tracing.sample_ratio", 1.0)
}
