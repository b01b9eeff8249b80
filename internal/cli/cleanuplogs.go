package cli

import (
	"github.com/spf13/cobra"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/config"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

var cleanupDryRun bool

var cleanupLogsCmd = &cobra.Command{
	Use:   "cleanup-logs",
	Short: "Delete run log folders older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg, "")

		stats := logger.Cleanup(logsBaseDir, cfg.LogRetentionDays, cleanupDryRun)
		if cleanupDryRun {
			logger.Log.Infof("Would remove %d folders, freeing %d bytes.", stats.DeletedDirs, stats.FreedBytes)
		} else {
			logger.Log.Infof("Removed %d folders, freed %d bytes.", stats.DeletedDirs, stats.FreedBytes)
		}
		return nil
	},
}

func init() {
	cleanupLogsCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report what would be removed without deleting anything")
}
