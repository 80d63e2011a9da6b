//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	postgresinfra "github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// startPostgres runs a throwaway postgres container and returns a
// migrated Database on it. Shared by every repository test in the suite.
func startPostgres(t *testing.T) *postgresinfra.Database {
	t.Helper()
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("Skipping Docker-dependent tests")
	}

	ctx := context.Background()
	dbName := "rosreg_test"
	dbUser := "rosreg"
	dbPassword := "rosreg"

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(context.Background()))
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Int(),
		User:     dbUser,
		Password: dbPassword,
		Database: dbName,
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}

	db, err := postgresinfra.NewDatabase(ctx, cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRiskRepository(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	log := logger.NewNoopLogger()

	projectRepo := postgresinfra.NewProjectRepository(db.GORM(), log)
	riskRepo := postgresinfra.NewRiskRepository(db.GORM(), log)

	project := models.NewProject("Core network assessment", "", "netops")
	require.NoError(t, projectRepo.Create(ctx, project))

	high := models.NewRisk(project.ID, "Fiber cut on main route", constants.RiskTypeTechnical,
		models.Assessment{Likelihood: 4, Consequence: 5})
	low := models.NewRisk(project.ID, "Stale runbook", constants.RiskTypeOperational,
		models.Assessment{Likelihood: 1, Consequence: 2})
	require.NoError(t, riskRepo.Create(ctx, high))
	require.NoError(t, riskRepo.Create(ctx, low))

	t.Run("round trip preserves assessments", func(t *testing.T) {
		got, err := riskRepo.GetByID(ctx, high.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fiber cut on main route", got.Title)
		assert.Equal(t, models.Rating(4), got.Current.Likelihood)
		assert.Equal(t, models.Rating(5), got.Current.Consequence)
		assert.Nil(t, got.Target)
		assert.Equal(t, constants.RiskStatusIdentified, got.Status)
	})

	t.Run("update persists the target assessment", func(t *testing.T) {
		high.SetTarget(models.Assessment{Likelihood: 2, Consequence: 3}, time.Now().UTC())
		require.NoError(t, riskRepo.Update(ctx, high))

		got, err := riskRepo.GetByID(ctx, high.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Target)
		assert.Equal(t, models.Rating(2), got.Target.Likelihood)
	})

	t.Run("score bounds filter the high band", func(t *testing.T) {
		minScore := constants.HighBandFloor
		risks, total, err := riskRepo.List(ctx, repository.RiskFilter{MinScore: &minScore}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, risks, 1)
		assert.Equal(t, high.ID, risks[0].ID)
	})

	t.Run("closed risks leave the live set but stay listable", func(t *testing.T) {
		low.Close(time.Now().UTC())
		require.NoError(t, riskRepo.Update(ctx, low))

		live, err := riskRepo.ListLive(ctx)
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, high.ID, live[0].ID)

		_, total, err := riskRepo.List(ctx, repository.RiskFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		_, total, err = riskRepo.List(ctx, repository.RiskFilter{IncludeClosed: true}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("soft delete hides the record", func(t *testing.T) {
		require.NoError(t, riskRepo.SoftDelete(ctx, high.ID))

		_, err := riskRepo.GetByID(ctx, high.ID)
		assert.True(t, errors.IsNotFound(err))

		live, err := riskRepo.ListLive(ctx)
		require.NoError(t, err)
		assert.Empty(t, live)
	})
}
