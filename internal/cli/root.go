package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "postrejections",
	Short:         "Posts payment rejections into the IDX practice management system",
	Long:          "An unattended bot that reads rejection worklists from CSV files and posts them into the IDX payment posting screens through a browser session.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(runCmd, scheduleCmd, initDBCmd, cleanupLogsCmd)
}
