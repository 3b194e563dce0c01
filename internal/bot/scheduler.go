package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler manages one-shot publication triggers using the gocron library.
// Each trigger re-invokes a callback with a scheduled post id; pending
// triggers are rebuilt from the database on startup, so the scheduler
// itself keeps no durable state.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	mu        sync.Mutex
	running   bool
}

// NewScheduler creates a new scheduler instance using gocron.
func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
	}, nil
}

// RegisterAt registers a one-shot trigger that invokes job with postID at
// or after runAt. The job runs out-of-band from any admin session.
func (s *Scheduler) RegisterAt(runAt time.Time, postID int64, job func(ctx context.Context, postID int64)) error {
	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(runAt)),
		gocron.NewTask(
			func(ctx context.Context, id int64) {
				s.logger.Info("Running scheduled post trigger", "post_id", id)
				startTime := time.Now()
				job(ctx, id)
				s.logger.Info("Finished scheduled post trigger", "post_id", id, "duration", time.Since(startTime))
			},
			context.Background(),
			postID,
		),
		gocron.WithName(fmt.Sprintf("scheduled-post-%d", postID)),
	)
	if err != nil {
		s.logger.Error("Failed to register trigger", "post_id", postID, "run_at", runAt, "error", err)
		return fmt.Errorf("failed to register trigger for post %d: %w", postID, err)
	}

	s.logger.Info("Registered trigger", "post_id", postID, "run_at", runAt)
	return nil
}

// Start begins the scheduler's internal ticking.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	s.logger.Debug("Stopping scheduler gracefully (waiting for jobs)...")
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
