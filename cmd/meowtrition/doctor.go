package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the database for dangling references and stale state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.Doctor(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Healthy() {
				fmt.Fprintf(out, "All %d checks passed.\n", report.ChecksRun)
				return nil
			}
			fmt.Fprintf(out, "Found %d issues across %d checks:\n", len(report.Issues), report.ChecksRun)
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "  %s\t%s\n", issue.Check, issue.Detail)
			}
			return fmt.Errorf("found %d issues", len(report.Issues))
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
