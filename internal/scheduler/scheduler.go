// Package scheduler refreshes the raw layer from the ANSM site at fixed
// times of day.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"nephila/thesaurus/internal/logging"
)

// DefaultTimes are the daily refresh times.
const DefaultTimes = "06:00;18:00"

// ErrRunInProgress is returned by RunOnce while another refresh runs.
var ErrRunInProgress = errors.New("refresh already in progress")

// Refresher performs one refresh.
type Refresher interface {
	Refresh(ctx context.Context) (Summary, error)
}

// Scheduler runs a Refresher daily at the configured times. Runs never
// overlap.
type Scheduler struct {
	refresher Refresher
	times     string
	logger    logging.Logger
	scheduler *gocron.Scheduler
	running   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler creates a scheduler. times is a ";" separated list of HH:MM
// values in local time.
func NewScheduler(refresher Refresher, times string, logger logging.Logger) *Scheduler {
	if times == "" {
		times = DefaultTimes
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Scheduler{
		refresher: refresher,
		times:     times,
		logger:    logger,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the daily job and starts the scheduler in the background.
// When runNow is set a refresh is performed first and its failure aborts
// the start.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if runNow {
		if err := s.RunOnce(s.ctx); err != nil {
			s.logger.WithError(err).Error("Failed to perform initial refresh")
			return fmt.Errorf("initial refresh failed: %w", err)
		}
	}

	_, err := s.scheduler.Every(1).Days().At(s.times).Do(func() {
		if err := s.RunOnce(s.ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.logger.WithError(err).Error("Scheduled refresh failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule refresh")
		return fmt.Errorf("failed to schedule refresh at %q: %w", s.times, err)
	}

	s.scheduler.StartAsync()
	if _, next := s.scheduler.NextRun(); !next.IsZero() {
		s.logger.Info("Scheduler started",
			logging.Field{Key: "times", Value: s.times},
			logging.Field{Key: "next_run", Value: next.Format(time.RFC3339)})
	}
	return nil
}

// Stop stops the scheduler and cancels a refresh in progress.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	if s.cancel != nil {
		s.cancel()
	}
}

// RunOnce performs a refresh unless one is already running.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Info("Refresh already in progress, skipping...")
		return ErrRunInProgress
	}
	defer s.running.Store(false)

	s.logger.Info("Starting thesaurus refresh")
	sum, err := s.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Thesaurus refresh completed",
		logging.Field{Key: logging.FieldURL, Value: sum.PDFURL},
		logging.Field{Key: "interactions", Value: sum.Interactions},
		logging.Field{Key: "class_memberships", Value: sum.ClassMemberships},
		logging.Field{Key: logging.FieldDuration, Value: sum.Duration.String()})
	return nil
}
