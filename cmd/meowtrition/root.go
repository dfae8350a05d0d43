package meowtrition

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/app"
	"github.com/VeraMao/meowtrition-v2/internal/logging"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meowtrition",
	Short: "meowtrition plans and tracks your cat's feeding from the terminal",
	Long:  "meowtrition is a local-first cat nutrition CLI: calorie targets, portion plans, mixed dry/wet feeding, weight tracking, and feeding logs.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.LoadEnv()
		logging.Init(verbose)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}
