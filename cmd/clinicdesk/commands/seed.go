package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/clinicdesk-ai/internal/app/bootstrap"
	"github.com/wolfman30/clinicdesk-ai/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo patients, appointments and feedback",
	Long: `Seed the record stores with a small demo data set.

With DATABASE_URL set the rows are written to Postgres (run migrations
first). Without it the in-memory stores are seeded and only the counts
are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		loc := cfg.Location()

		records, err := bootstrap.BuildRecords(cmd.Context(), cfg.DatabaseURL, loc, logger)
		if err != nil {
			return err
		}
		defer records.Close()

		res, err := seed.New(records.Patients, records.Appointments, records.Feedback, records.Log, logger).
			Run(cmd.Context(), time.Now().In(loc))
		if err != nil {
			return err
		}
		target := "memory"
		if records.Persistent {
			target = "postgres"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d patients, %d appointments, %d feedback, %d messages\n",
			target, res.Patients, res.Appointments, res.Feedback, res.Messages)
		return nil
	},
}
