package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/config"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/database"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the rejections table and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg, "")

		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		repo := database.NewPostgresRejectionRepository(db)
		if err := repo.CreateSchema(cmd.Context()); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
		logger.Log.Info("Database schema is up to date.")
		return nil
	},
}
