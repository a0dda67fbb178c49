package cli

import (
	"fmt"
	"strings"

	"github.com/pankajredekar/catalogseed/internal/report"
	"github.com/pankajredekar/catalogseed/internal/runlog"
	"github.com/spf13/cobra"
)

const latestRuns = 10

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog counts without seeding",
	Long:  "Prints the category and item counts, the top categories by item count and, when run recording is enabled, the latest runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := connectDB(cfg.DatabaseURL, logLevel)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer closeDB(db)

		ctx := cmd.Context()
		summary, err := report.NewReporter(db).Summary(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report.Print(out, summary)

		if !cfg.RecordRuns {
			return nil
		}

		ledger, err := runlog.NewLedger(db, cfg.RunTable)
		if err != nil {
			return err
		}
		if err := ledger.Initialize(ctx); err != nil {
			return err
		}
		runs, err := ledger.Latest(ctx, latestRuns)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
		fmt.Fprintln(out, "Recorded Runs")
		fmt.Fprintln(out, strings.Repeat("=", 60))
		if len(runs) == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		for _, r := range runs {
			fmt.Fprintf(out, "  %s  %s  seed=%d categories=%d items=%d\n",
				r.FinishedAt.Format("2006-01-02 15:04:05"), r.RunID, r.Seed, r.Categories, r.Items)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
