package meowtrition

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all data to a JSON or YAML archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			format := exportFormat
			if format == "" {
				// An explicit preference wins over extension inference.
				pref, err := service.GetConfig(sqldb, "export_format")
				if err != nil {
					return err
				}
				format = pref
			}
			if err := service.Export(sqldb, args[0], format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an archive, remapping ids to fresh ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.Import(sqldb, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Imported %d cats, %d foods, %d plans, %d logs, %d weight entries, %d posts\n",
				stats.Cats, stats.Foods, stats.Plans, stats.Logs, stats.Weights, stats.Posts)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Archive format: json or yaml (default inferred from extension)")

	rootCmd.AddCommand(exportCmd, importCmd)
}
