// Package postgres implements the repository contracts on GORM. The
// primary deployment runs against PostgreSQL; the embedded sqlite driver
// reuses the same implementation for the admin CLI and local development.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Database owns the GORM handle the repositories run on. When the
// postgres driver is active it also keeps a pgx pool open for health
// checks and pool statistics; sqlite has neither.
type Database struct {
	gormDB *gorm.DB
	pool   *pgxpool.Pool
	cfg    *config.DatabaseConfig
	logger logger.Logger
}

// NewDatabase opens the configured database, tunes the connection pool
// and verifies connectivity before returning.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*Database, error) {
	if cfg == nil {
		return nil, errors.ErrInternal.WithMessage("database configuration is nil")
	}
	log = log.WithComponent("database")

	var dialector gorm.Dialector
	if cfg.IsSQLite() {
		dialector = sqlite.Open(cfg.Path)
	} else {
		dialector = postgres.Open(cfg.GetDSN())
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		// TranslateError turns driver unique-violation errors into
		// gorm.ErrDuplicatedKey on both drivers.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error(ctx, "Failed to open database", err, logger.String("driver", cfg.Driver))
		return nil, errors.ErrDatabase.WithError(err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, errors.ErrDatabase.WithError(err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Minute)
	}
	if cfg.MaxConnIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Minute)
	}

	db := &Database{
		gormDB: gormDB,
		cfg:    cfg,
		logger: log,
	}

	if !cfg.IsSQLite() {
		pool, err := newHealthPool(ctx, cfg)
		if err != nil {
			log.Error(ctx, "Failed to create health check pool", err)
			return nil, err
		}
		db.pool = pool
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info(ctx, "Database connection established",
		logger.String("driver", cfg.Driver),
		logger.Int("max_conns", cfg.MaxConns))
	return db, nil
}

// newHealthPool opens a small pgx pool used only for Ping and Stat. The
// repositories stay on GORM; pgx exposes the pool internals GORM hides.
func newHealthPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, errors.ErrDatabase.WithError(err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 1

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, errors.ErrDatabase.WithError(err)
	}
	return pool, nil
}

// GORM returns the handle the repositories are built on.
func (db *Database) GORM() *gorm.DB {
	return db.gormDB
}

// Migrate creates or updates every register table.
func (db *Database) Migrate(ctx context.Context) error {
	err := db.gormDB.WithContext(ctx).AutoMigrate(
		&projectDBM{},
		&assetDBM{},
		&riskDBM{},
		&actionDBM{},
		&supplierDBM{},
		&reviewDBM{},
		&referenceItemDBM{},
		&riskMappingDBM{},
		&actionMappingDBM{},
		&auditLogDBM{},
	)
	if err != nil {
		db.logger.Error(ctx, "Database migration failed", err)
		return errors.ErrDatabase.WithError(err)
	}
	db.logger.Info(ctx, "Database migration completed")
	return nil
}

// Ping verifies connectivity on both handles.
func (db *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sqlDB, err := db.gormDB.DB()
	if err != nil {
		return errors.ErrDatabase.WithError(err)
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		db.logger.Error(pingCtx, "Database ping failed", err)
		return errors.ErrDatabase.WithError(err)
	}
	if db.pool != nil {
		if err := db.pool.Ping(pingCtx); err != nil {
			db.logger.Error(pingCtx, "Health pool ping failed", err)
			return errors.ErrDatabase.WithError(err)
		}
	}
	return nil
}

// HealthCheck reports connectivity and, on postgres, pool statistics.
func (db *Database) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	start := time.Now()
	if err := db.Ping(ctx); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}, err
	}

	health := map[string]interface{}{
		"status":     "healthy",
		"driver":     db.cfg.Driver,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	if db.pool != nil {
		stats := db.pool.Stat()
		health["total_connections"] = stats.TotalConns()
		health["idle_connections"] = stats.IdleConns()
		health["acquired_connections"] = stats.AcquiredConns()
		health["acquire_count"] = stats.AcquireCount()
	}
	return health, nil
}

// Stats returns the health pool statistics, or nil on sqlite.
func (db *Database) Stats() *pgxpool.Stat {
	if db.pool == nil {
		return nil
	}
	return db.pool.Stat()
}

// Close shuts down both handles. Safe to call on a partially
// initialized Database.
func (db *Database) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if sqlDB, err := db.gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			db.logger.Error(context.Background(), "Failed to close database", err)
			return
		}
	}
	db.logger.Info(context.Background(), "Database connection closed")
}
