package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DaniellePashayan/post-rejections-idx/internal/app"
	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/alert"
	"github.com/DaniellePashayan/post-rejections-idx/internal/idx"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/config"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/database"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/input"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/notify"
)

const logsBaseDir = "logs"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one posting session immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		runFolder, err := logger.RunFolder(logsBaseDir)
		if err != nil {
			runFolder = ""
		}
		logger.Init(cfg, runFolder)
		if runFolder != "" {
			logger.Log.Infof("Logging to %s", runFolder)
		}

		sess, err := newSession(cmd.Context(), cfg, runFolder)
		if err != nil {
			return err
		}
		defer sess.Close()

		// Fatal outcomes are alerted by the orchestrator itself; only the
		// completion notice is sent from here.
		if err := sess.Run(cmd.Context()); err != nil {
			return err
		}
		sess.alert("Posting run completed.")
		return nil
	},
}

// session bundles everything one posting run needs: the database, the
// browser, the screen navigators wired into the orchestrator, and the
// alert channel.
type session struct {
	db       *sql.DB
	driver   *browser.PlaywrightDriver
	orch     *app.Orchestrator
	notifier alert.Notifier
}

func newSession(ctx context.Context, cfg *config.AppConfig, runFolder string) (*session, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	repo := database.NewPostgresRejectionRepository(db)
	if err := repo.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring database schema: %w", err)
	}

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.AlertChatID)
	if err != nil {
		logger.Log.Warnf("Alerts disabled: %v", err)
		notifier = alert.Nop{}
	}

	drv, err := browser.NewPlaywrightDriver(browser.Options{Headless: cfg.Production()})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	modals := idx.NewModalInterceptor(drv)
	shots := browser.NewScreenshotSink(drv, runFolder)
	loginPage := idx.NewLoginPage(drv, cfg.IDXLoginURL)
	settings := idx.NewSettingsScreen(drv)
	nav := idx.NewNavMenu(drv)
	batch := idx.NewBatchScreen(drv)
	posting := idx.NewPostingScreen(drv)

	processor := app.NewProcessor(
		repo,
		idx.NewPatientSelector(drv, modals),
		posting,
		idx.NewPaycodeLookup(drv),
		idx.NewLineItemScreen(drv),
		idx.NewRejectionsSubScreen(drv),
		idx.NewBulkScreen(drv),
		batch,
		modals,
		shots,
	)
	loader := input.NewLoader(cfg.InputDir, cfg.FileNameOverride, repo)
	orch := app.NewOrchestrator(
		repo, loader, loginPage, settings, nav, batch, posting,
		processor, notifier, cfg.IDXUsername, cfg.IDXPassword,
	)

	return &session{db: db, driver: drv, orch: orch, notifier: notifier}, nil
}

func (s *session) Run(ctx context.Context) error {
	defer s.orch.Shutdown()
	return s.orch.Run(ctx)
}

func (s *session) Close() {
	if err := s.driver.Close(); err != nil {
		logger.Log.Warnf("Failed to close browser: %v", err)
	}
	if err := s.db.Close(); err != nil {
		logger.Log.Warnf("Failed to close database: %v", err)
	}
}

func (s *session) alert(body string) {
	if err := s.notifier.Send("Post Rejections", body); err != nil {
		logger.Log.Errorf("Failed to send alert: %v", err)
	}
}
