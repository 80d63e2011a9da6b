package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	domainservice "github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate the alerting rules and print active alerts",
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

		gormDB := db.GORM()
		riskRepo := postgres.NewRiskRepository(gormDB, log)
		actionRepo := postgres.NewActionRepository(gormDB, log)
		supplierRepo := postgres.NewSupplierRepository(gormDB, log)
		reviewRepo := postgres.NewReviewRepository(gormDB, log)

		snap := domainservice.AlertSnapshot{}
		if snap.Risks, err = riskRepo.ListLive(ctx); err != nil {
			return fmt.Errorf("load risks: %w", err)
		}
		if snap.Actions, err = actionRepo.ListAll(ctx); err != nil {
			return fmt.Errorf("load actions: %w", err)
		}
		if snap.Suppliers, err = supplierRepo.ListAll(ctx); err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		if snap.Reviews, err = reviewRepo.ListPending(ctx); err != nil {
			return fmt.Errorf("load reviews: %w", err)
		}

		ruleSet := domainservice.NewRuleSet(cfg.Alerting.ContractLookahead())
		alerts := ruleSet.Evaluate(snap, time.Now().UTC())

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%-24s %-8s %-10s %s\n", "RULE", "SEVERITY", "SUBJECT", "MESSAGE")
		for _, alert := range alerts {
			fmt.Printf("%-24s %-8s %-10s %s\n",
				alert.Rule, alert.Severity, alert.SubjectType, alert.Message)
		}
		fmt.Printf("\n%d active alert(s).\n", len(alerts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
}
