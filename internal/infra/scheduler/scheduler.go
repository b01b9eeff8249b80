package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

// RunFunc executes one complete posting session.
type RunFunc func(ctx context.Context) error

// runTimeout bounds a single scheduled session. A run that exceeds it is
// stuck in the browser somewhere; the context cancellation lets the next
// trigger start clean.
const runTimeout = 4 * time.Hour

// PostingScheduler fires the posting run on a cron spec and guards against
// overlapping sessions when a run outlasts the interval.
type PostingScheduler struct {
	cronEngine *cron.Cron
	cronSpec   string
	run        RunFunc

	mu      sync.Mutex
	running bool
}

func NewPostingScheduler(cronSpec string, run RunFunc) *PostingScheduler {
	return &PostingScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		cronSpec:   cronSpec,
		run:        run,
	}
}

func (s *PostingScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		if !s.tryAcquire() {
			logger.Log.Warn("Previous posting run still in progress, skipping this trigger.")
			return
		}
		defer s.release()

		logger.Log.Infof("Cron trigger fired (%s), starting posting run.", s.cronSpec)
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.run(ctx); err != nil {
			logger.Log.Errorf("Scheduled posting run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	logger.Log.Infof("Posting scheduler started with spec %q.", s.cronSpec)
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (s *PostingScheduler) Stop() {
	logger.Log.Info("Stopping posting scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	logger.Log.Info("Posting scheduler stopped.")
}

func (s *PostingScheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *PostingScheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
