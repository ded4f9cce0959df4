// Package sync implements the command that ingests Revolut transactions
package sync

import (
	"errors"
	"fmt"

	"fjacquet/revol-ver/cmd/common"
	"fjacquet/revol-ver/cmd/root"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/validation"

	"github.com/spf13/cobra"
)

// Options holds the flag values of the sync command.
var Options = validation.Options{}

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch Revolut transactions and store the new ones",
	Long: `Fetch Revolut transactions from the web API or from a static JSON dump,
skip those already in the database and write the rest to the database and/or
an export file.`,
	Example: `  revol-ver sync --period month --date 2024.02
  revol-ver sync -p all -s file -o excel --dont-deduplicate`,
	RunE: syncFunc,
}

func init() {
	flags := Cmd.Flags()
	flags.StringVarP(&Options.Period, "period", "p", models.PeriodMonth, "Period to sync: month or all")
	flags.StringVarP(&Options.Source, "source", "s", models.SourceWebRequest, "Input source: web_request or file")
	flags.StringVarP(&Options.Date, "date", "d", "", "Target month as YYYY.MM (required with --period month)")
	flags.StringVarP(&Options.Output, "output", "o", models.OutputAll, "Output target: db, excel or all")
	flags.BoolVar(&Options.DontDeduplicate, "dont-deduplicate", false, "Do not skip transactions already in the database (excel output only)")
}

func syncFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("application is not initialized")
	}
	cfg := c.GetConfig()
	log := c.GetLogger()

	plan, err := validation.ValidateOptions(Options, cfg.Location())
	if err != nil {
		return err
	}

	src, err := c.Source(plan.Source, plan.Period)
	if err != nil {
		return err
	}

	log.Info("Sync started",
		logging.F(logging.FieldPeriod, plan.Period.Label()),
		logging.F(logging.FieldSource, plan.Source))

	summary, err := common.ProcessSync(cmd.Context(), common.SyncDeps{
		Ingester: c.GetPipeline(),
		Source:   src,
		Writer:   c.GetWriter(),
		OpenStore: func() (common.TransactionStore, common.RunRecorder, error) {
			txRepo, runRepo, err := c.Repositories()
			if err != nil {
				return nil, nil, err
			}
			return txRepo, runRepo, nil
		},
		DatabaseExists: c.DatabaseExists,
		Logger:         log,
	}, plan)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

func printSummary(cmd *cobra.Command, summary *common.SyncSummary) {
	out := cmd.OutOrStdout()
	stats := summary.Result.Stats
	_, _ = fmt.Fprintf(out, "%d transactions: %d accepted, %d duplicates, %d out of period, %d invalid\n",
		stats.Total, stats.Accepted, stats.Duplicates, stats.OutOfPeriod, stats.Invalid)
	for _, failure := range summary.Result.Invalid {
		_, _ = fmt.Fprintf(out, "  invalid record #%d (%s): %v\n", failure.Index, failure.RecordID, failure.Err)
	}
	if summary.Inserted > 0 {
		_, _ = fmt.Fprintf(out, "Saved %d transactions to the database (%d stored)\n", summary.Inserted, summary.StoredTotal)
	}
	if summary.ExportPath != "" {
		_, _ = fmt.Fprintf(out, "Exported to %s\n", summary.ExportPath)
	}
}
