package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/alert"
	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/idx"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

type InputSource interface {
	Discover(now time.Time) ([]string, error)
	Load(ctx context.Context, path string) error
	Archive(path string) error
}

type LoginScreen interface {
	Navigate() error
	Login(username, password string) error
}

type GroupSwitcher interface {
	EnsureGroup(target int) error
	Logout() error
}

type Navigator interface {
	IsActive(option string) bool
	Select(option string) error
}

type GroupReader interface {
	CurrentGroup() (int, error)
}

type RecordProcessor interface {
	Process(ctx context.Context, rec *rejection.Rejection, batchNumber string) (bool, error)
}

// recoveryThreshold is the number of consecutive record failures that
// triggers a full session recovery.
const recoveryThreshold = 3

// Orchestrator runs a full posting session: discover input files, load
// them into the store, and for every (file, group) partition with pending
// records drive each record through the processor. It owns session-level
// concerns the processor never sees, the failure streak and the recovery
// that resets it among them.
type Orchestrator struct {
	repo      rejection.Repository
	input     InputSource
	login     LoginScreen
	settings  GroupSwitcher
	nav       Navigator
	batch     BatchOpener
	posting   GroupReader
	processor RecordProcessor
	notifier  alert.Notifier

	username string
	password string
	groups   []int

	batchNumber string
}

func NewOrchestrator(
	repo rejection.Repository,
	input InputSource,
	login LoginScreen,
	settings GroupSwitcher,
	nav Navigator,
	batch BatchOpener,
	posting GroupReader,
	processor RecordProcessor,
	notifier alert.Notifier,
	username, password string,
) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		input:     input,
		login:     login,
		settings:  settings,
		nav:       nav,
		batch:     batch,
		posting:   posting,
		processor: processor,
		notifier:  notifier,
		username:  username,
		password:  password,
		groups:    idx.Groups(),
	}
}

// Run executes one complete posting session. Every fatal outcome is
// reported through the notifier exactly once, here.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.run(ctx); err != nil {
		o.alert(fmt.Sprintf("Posting run failed: %v", err))
		return err
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context) error {
	files, err := o.input.Discover(time.Now())
	if err != nil {
		return fmt.Errorf("discovering input files: %w", err)
	}
	if len(files) == 0 {
		logger.Log.Warn("No input files found for today, nothing to do.")
		return fmt.Errorf("no input files found")
	}

	if err := o.login.Navigate(); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	if err := o.login.Login(o.username, o.password); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	for _, path := range files {
		if err := o.input.Load(ctx, path); err != nil {
			logger.Log.Errorf("Failed to load %s: %v", path, err)
			continue
		}
		fileName := filepath.Base(path)

		for _, group := range o.groups {
			recs, err := o.repo.ListPending(ctx, fileName, group)
			if err != nil {
				return fmt.Errorf("listing pending records for %s group %d: %w", fileName, group, err)
			}
			if len(recs) == 0 {
				continue
			}
			logger.Log.Infof("Processing %d records for %s in group %d", len(recs), fileName, group)
			if err := o.processPartition(ctx, group, recs); err != nil {
				return err
			}
			o.maybeArchive(ctx, path, fileName, group)
		}
	}

	return nil
}

// processPartition drives all pending records of one (file, group)
// partition sequentially through the processor.
func (o *Orchestrator) processPartition(ctx context.Context, group int, recs []*rejection.Rejection) error {
	if err := o.ensureContext(group); err != nil {
		return err
	}

	streak := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}

		posted, err := o.processor.Process(ctx, rec, o.batchNumber)
		if err != nil {
			return fmt.Errorf("fatal error on invoice %d: %w", rec.InvoiceNumber, err)
		}
		if posted {
			streak = 0
			continue
		}

		streak++
		if streak < recoveryThreshold {
			continue
		}
		logger.Log.Warnf("%d consecutive failures, rebuilding the session.", streak)
		if err := o.recoverSession(group); err != nil {
			return fmt.Errorf("recovering session: %w", err)
		}
		streak = 0
	}
	return nil
}

// ensureContext puts the session into the given group with an open batch
// on the payment posting screen. Switching groups is skipped when the
// screen header already shows the right one.
func (o *Orchestrator) ensureContext(group int) error {
	current, err := o.posting.CurrentGroup()
	if err != nil || current != group {
		if err := o.settings.EnsureGroup(group); err != nil {
			return fmt.Errorf("switching to group %d: %w", group, err)
		}
	}
	if !o.nav.IsActive(idx.DestinationPaymentPosting) {
		if err := o.nav.Select(idx.DestinationPaymentPosting); err != nil {
			return fmt.Errorf("opening payment posting: %w", err)
		}
	}
	number, err := o.batch.Open()
	if err != nil {
		return fmt.Errorf("opening batch for group %d: %w", group, err)
	}
	o.batchNumber = number
	return nil
}

// recoverSession tears the session down and rebuilds it from scratch:
// logout, fresh login, group selection, and a new batch.
func (o *Orchestrator) recoverSession(group int) error {
	if err := o.settings.Logout(); err != nil {
		logger.Log.Warnf("Logout during recovery failed: %v", err)
	}
	if err := o.login.Navigate(); err != nil {
		return err
	}
	if err := o.login.Login(o.username, o.password); err != nil {
		return err
	}
	if err := o.settings.EnsureGroup(group); err != nil {
		return err
	}
	if err := o.nav.Select(idx.DestinationPaymentPosting); err != nil {
		return err
	}
	number, err := o.batch.Open()
	if err != nil {
		return err
	}
	o.batchNumber = number
	return nil
}

// maybeArchive moves the input file aside once the partition that just
// drained has no unposted records left. Archive tolerates a file that an
// earlier partition already moved.
func (o *Orchestrator) maybeArchive(ctx context.Context, path, fileName string, group int) {
	n, err := o.repo.CountUnposted(ctx, fileName, group)
	if err != nil {
		logger.Log.Errorf("Failed to count unposted records for %s: %v", fileName, err)
		return
	}
	if n > 0 {
		logger.Log.Warnf("%d records in %s group %d remain unposted, leaving the file in place.", n, fileName, group)
		return
	}
	if err := o.input.Archive(path); err != nil {
		logger.Log.Errorf("Failed to archive %s: %v", path, err)
		return
	}
	logger.Log.Infof("Archived %s", fileName)
}

// Shutdown logs the session out. Failures are logged, not returned; the
// session is being discarded either way.
func (o *Orchestrator) Shutdown() {
	if err := o.settings.Logout(); err != nil {
		logger.Log.Warnf("Logout failed: %v", err)
	}
}

func (o *Orchestrator) alert(body string) {
	logger.Log.Error(body)
	if err := o.notifier.Send("Post Rejections", body); err != nil {
		logger.Log.Errorf("Failed to send alert: %v", err)
	}
}
