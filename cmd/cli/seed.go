package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rosverk/rosreg/internal/infrastructure/audit"
	"github.com/rosverk/rosreg/internal/infrastructure/catalog"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/memory"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the NSM and ekom reference catalogs",
	Long: `Upserts the built-in reference catalogs into the database. Existing
entries are updated in place, so the command is safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := adminLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		referenceRepo := postgres.NewReferenceRepository(db.GORM(), log)
		auditRepo := postgres.NewAuditRepository(db.GORM(), log)
		auditService := audit.NewAuditService(auditRepo, nil, nil, log)
		source := catalog.NewSource(referenceRepo, memory.NewCache(), 0, 0, log)

		seeder := catalog.NewSeeder(referenceRepo, source, auditService, log)
		if err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed catalogs: %w", err)
		}

		fmt.Println("Reference catalogs seeded.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
