package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/config"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run posting sessions on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg, "")

		// Every trigger gets its own run folder and a fresh session so a
		// wedged browser never carries over to the next day.
		sched := scheduler.NewPostingScheduler(cfg.CronSpec, func(ctx context.Context) error {
			runFolder, err := logger.RunFolder(logsBaseDir)
			if err != nil {
				runFolder = ""
			}
			logger.Init(cfg, runFolder)

			sess, err := newSession(ctx, cfg, runFolder)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Run(ctx); err != nil {
				return err
			}
			sess.alert("Posting run completed.")
			return nil
		})
		if err := sched.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		sched.Stop()
		return nil
	},
}
