package meowtrition

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VeraMao/meowtrition-v2/internal/service"
)

var backupDir string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the database to a timestamped backup with a checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		dir := backupDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(path), "backups")
		}
		dest, err := service.CreateBackup(path, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", dest)
		return nil
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	rootCmd.AddCommand(backupCmd)
}
