package postgres_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/infrastructure/catalog"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// newSqliteDB opens a migrated throwaway sqlite database. The repository
// suite in tests/integration runs the same contracts against a real
// postgres container; this covers the embedded driver in plain test runs.
func newSqliteDB(t *testing.T) *postgres.Database {
	t.Helper()
	ctx := context.Background()

	db, err := postgres.NewDatabase(ctx, &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "rosreg.db"),
	}, logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestRiskRoundTrip(t *testing.T) {
	db := newSqliteDB(t)
	ctx := context.Background()
	log := logger.NewNoopLogger()

	projectRepo := postgres.NewProjectRepository(db.GORM(), log)
	riskRepo := postgres.NewRiskRepository(db.GORM(), log)

	project := models.NewProject("Radio access modernisation", "", "radio-team")
	require.NoError(t, projectRepo.Create(ctx, project))

	risk := models.NewRisk(project.ID, "Legacy BSC out of vendor support", constants.RiskTypeTechnical,
		models.Assessment{Likelihood: 3, Consequence: 4})
	risk.Description = "Spare parts only available from brokers."
	risk.Owner = "ola.hansen"
	require.NoError(t, riskRepo.Create(ctx, risk))

	t.Run("fields survive the round trip", func(t *testing.T) {
		got, err := riskRepo.GetByID(ctx, risk.ID)
		require.NoError(t, err)
		assert.Equal(t, "Legacy BSC out of vendor support", got.Title)
		assert.Equal(t, "Spare parts only available from brokers.", got.Description)
		assert.Equal(t, "ola.hansen", got.Owner)
		assert.Equal(t, constants.RiskTypeTechnical, got.Type)
		assert.Equal(t, models.Rating(3), got.Current.Likelihood)
		assert.Equal(t, models.Rating(4), got.Current.Consequence)
		assert.Nil(t, got.Target)
		assert.Nil(t, got.LastReviewedAt)
	})

	t.Run("reassessment stamps the review date", func(t *testing.T) {
		risk.Reassess(models.Assessment{Likelihood: 2, Consequence: 4}, time.Now().UTC())
		require.NoError(t, riskRepo.Update(ctx, risk))

		got, err := riskRepo.GetByID(ctx, risk.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Rating(2), got.Current.Likelihood)
		require.NotNil(t, got.LastReviewedAt)
	})

	t.Run("clearing the target writes the null columns", func(t *testing.T) {
		risk.SetTarget(models.Assessment{Likelihood: 1, Consequence: 4}, time.Now().UTC())
		require.NoError(t, riskRepo.Update(ctx, risk))

		got, err := riskRepo.GetByID(ctx, risk.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Target)

		// Update selects every column, so a nil target must survive the
		// write instead of being skipped as a zero value.
		risk.ClearTarget(time.Now().UTC())
		require.NoError(t, riskRepo.Update(ctx, risk))

		got, err = riskRepo.GetByID(ctx, risk.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Target)
	})
}

func TestCatalogSeedIdempotent(t *testing.T) {
	db := newSqliteDB(t)
	ctx := context.Background()
	repo := postgres.NewReferenceRepository(db.GORM(), logger.NewNoopLogger())

	require.NoError(t, repo.UpsertCatalog(ctx, catalog.NSMCatalog()))
	require.NoError(t, repo.UpsertCatalog(ctx, catalog.EkomCatalog()))

	// Re-seeding generates fresh candidate IDs, but the identity index
	// keeps the existing rows and refreshes them in place.
	require.NoError(t, repo.UpsertCatalog(ctx, catalog.NSMCatalog()))

	nsm, err := repo.ListByFramework(ctx, constants.FrameworkNSM)
	require.NoError(t, err)
	assert.Len(t, nsm, 24)

	ekom, err := repo.ListByFramework(ctx, constants.FrameworkEkom)
	require.NoError(t, err)
	require.Len(t, ekom, 10)

	t.Run("codes sort naturally", func(t *testing.T) {
		assert.Equal(t, "2-1", ekom[0].Code)
		assert.Equal(t, "2-2", ekom[1].Code, "2-10 must not sort between 2-1 and 2-2")
		assert.Equal(t, "2-10", ekom[9].Code)
	})
}

func TestDuplicateMappingRejected(t *testing.T) {
	db := newSqliteDB(t)
	ctx := context.Background()
	log := logger.NewNoopLogger()

	referenceRepo := postgres.NewReferenceRepository(db.GORM(), log)
	projectRepo := postgres.NewProjectRepository(db.GORM(), log)
	riskRepo := postgres.NewRiskRepository(db.GORM(), log)

	require.NoError(t, referenceRepo.UpsertCatalog(ctx, catalog.NSMCatalog()))
	items, err := referenceRepo.ListByFramework(ctx, constants.FrameworkNSM)
	require.NoError(t, err)

	project := models.NewProject("Mapping fixtures", "", "compliance")
	require.NoError(t, projectRepo.Create(ctx, project))
	risk := models.NewRisk(project.ID, "Unhardened jump host", constants.RiskTypeTechnical,
		models.Assessment{Likelihood: 3, Consequence: 3})
	require.NoError(t, riskRepo.Create(ctx, risk))

	require.NoError(t, referenceRepo.MapRisk(ctx, models.NewRiskMapping(items[0].ID, risk.ID, "covers access control")))

	err = referenceRepo.MapRisk(ctx, models.NewRiskMapping(items[0].ID, risk.ID, "second attempt"))
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	// A different pair is not a duplicate.
	require.NoError(t, referenceRepo.MapRisk(ctx, models.NewRiskMapping(items[1].ID, risk.ID, "")))

	mappings, err := referenceRepo.ListMappingsForRisk(ctx, risk.ID)
	require.NoError(t, err)
	assert.Len(t, mappings, 2)
}

func TestLiveMappedExcludesClosedRisks(t *testing.T) {
	db := newSqliteDB(t)
	ctx := context.Background()
	log := logger.NewNoopLogger()

	referenceRepo := postgres.NewReferenceRepository(db.GORM(), log)
	projectRepo := postgres.NewProjectRepository(db.GORM(), log)
	riskRepo := postgres.NewRiskRepository(db.GORM(), log)

	require.NoError(t, referenceRepo.UpsertCatalog(ctx, catalog.EkomCatalog()))
	items, err := referenceRepo.ListByFramework(ctx, constants.FrameworkEkom)
	require.NoError(t, err)

	project := models.NewProject("Coverage fixtures", "", "compliance")
	require.NoError(t, projectRepo.Create(ctx, project))
	risk := models.NewRisk(project.ID, "No backup power at node", constants.RiskTypeTechnical,
		models.Assessment{Likelihood: 2, Consequence: 5})
	require.NoError(t, riskRepo.Create(ctx, risk))

	require.NoError(t, referenceRepo.MapRisk(ctx, models.NewRiskMapping(items[0].ID, risk.ID, "")))

	mapped, err := referenceRepo.LiveMappedReferenceIDs(ctx, constants.FrameworkEkom)
	require.NoError(t, err)
	assert.Contains(t, mapped, items[0].ID)

	risk.Close(time.Now().UTC())
	require.NoError(t, riskRepo.Update(ctx, risk))

	// The mapping row still exists, but a closed risk no longer carries
	// coverage.
	mapped, err = referenceRepo.LiveMappedReferenceIDs(ctx, constants.FrameworkEkom)
	require.NoError(t, err)
	assert.Empty(t, mapped)

	mappings, err := referenceRepo.ListMappingsForRisk(ctx, risk.ID)
	require.NoError(t, err)
	assert.Len(t, mappings, 1)
}
