package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosverk/rosreg/internal/application/dto"
	appservice "github.com/rosverk/rosreg/internal/application/service"
	domainservice "github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/internal/infrastructure/audit"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/memory"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a register export to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		scope, _ := cmd.Flags().GetString("scope")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("the --out flag is required")
		}

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

		gormDB := db.GORM()
		riskRepo := postgres.NewRiskRepository(gormDB, log)
		actionRepo := postgres.NewActionRepository(gormDB, log)
		supplierRepo := postgres.NewSupplierRepository(gormDB, log)
		auditRepo := postgres.NewAuditRepository(gormDB, log)
		auditService := audit.NewAuditService(auditRepo, nil, nil, log)

		// The export pipeline normally parks the artifact in redis behind
		// a download token; for a file on disk an in-process cache and an
		// immediate download do the same job.
		exportSvc := appservice.NewExportAppService(
			riskRepo, actionRepo, supplierRepo,
			domainservice.NewDefaultClassifier(),
			auditService, memory.NewCache(), nil,
			cfg.Export.TokenSecret, 0, 0, log,
		)

		registered, err := exportSvc.RegisterExport(ctx, &dto.ExportRequest{Format: format, Scope: scope})
		if err != nil {
			return fmt.Errorf("render export: %w", err)
		}
		artifact, err := exportSvc.Download(ctx, registered.Token)
		if err != nil {
			return fmt.Errorf("fetch export: %w", err)
		}

		if err := os.WriteFile(out, artifact.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Wrote %s export (%d bytes) to %s\n", format, len(artifact.Content), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "csv", "export format (csv, pdf or json)")
	exportCmd.Flags().String("scope", "full", "export scope (risks, actions, suppliers or full)")
	exportCmd.Flags().String("out", "", "output file path")
}
