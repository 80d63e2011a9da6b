package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/rosverk/rosreg/pkg/constants"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report catalog entries without live risk coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		framework, _ := cmd.Flags().GetString("framework")
		if !validFramework(framework) {
			return fmt.Errorf("framework must be one of: nsm, ekom")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.IsSQLite() {
			return fmt.Errorf("the gaps report requires a postgres database")
		}

		ctx := cmd.Context()
		pool, err := pgxpool.New(ctx, cfg.Database.GetDSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		return printGapsReport(ctx, pool, framework)
	},
}

func validFramework(value string) bool {
	for _, known := range constants.ValidFrameworks {
		if constants.Framework(value) == known {
			return true
		}
	}
	return false
}

// printGapsReport lists every catalog entry of the framework that no
// live risk covers, with the coverage percentage on top.
func printGapsReport(ctx context.Context, pool *pgxpool.Pool, framework string) error {
	var total, mapped int
	err := pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1
				FROM risk_mappings rm
				JOIN risks r ON r.id = rm.risk_id
				WHERE rm.reference_id = ri.id
				  AND r.deleted_at IS NULL
				  AND r.status <> $2
			))
		FROM reference_items ri
		WHERE ri.framework = $1`,
		framework, string(constants.RiskStatusClosed),
	).Scan(&total, &mapped)
	if err != nil {
		return fmt.Errorf("coverage query: %w", err)
	}

	coverage := 0.0
	if total > 0 {
		coverage = float64(mapped) / float64(total) * 100
	}
	fmt.Printf("Framework: %s\n", framework)
	fmt.Printf("Coverage:  %d/%d (%.1f%%)\n\n", mapped, total, coverage)

	rows, err := pool.Query(ctx, `
		SELECT ri.code, ri.title, ri.category
		FROM reference_items ri
		WHERE ri.framework = $1
		  AND NOT EXISTS (
			SELECT 1
			FROM risk_mappings rm
			JOIN risks r ON r.id = rm.risk_id
			WHERE rm.reference_id = ri.id
			  AND r.deleted_at IS NULL
			  AND r.status <> $2
		  )
		ORDER BY ri.code`,
		framework, string(constants.RiskStatusClosed),
	)
	if err != nil {
		return fmt.Errorf("gaps query: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var code, title, category string
		if err := rows.Scan(&code, &title, &category); err != nil {
			return fmt.Errorf("scan gap row: %w", err)
		}
		if category != "" {
			fmt.Printf("  %-12s %s (%s)\n", code, title, category)
		} else {
			fmt.Printf("  %-12s %s\n", code, title)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read gap rows: %w", err)
	}

	if count == 0 {
		fmt.Println("  No gaps. Every catalog entry is covered by a live risk.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(gapsCmd)
	gapsCmd.Flags().String("framework", "nsm", "framework to report on (nsm or ekom)")
}
