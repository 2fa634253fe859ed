// Package scheduler runs the periodic fleet-wide cache refresh: one
// independent refresh per user with a linked account, on a cron interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mailmind-backend/internal/account/repository"
	"mailmind-backend/internal/mailcache/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages the periodic refresh cycle.
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	interval  time.Duration
	service   *usecase.Service
	accounts  repository.AccountRepository
	log       *logrus.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.RWMutex
}

func NewScheduler(interval time.Duration, service *usecase.Service, accounts repository.AccountRepository, log *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(),
		interval: interval,
		service:  service,
		accounts: accounts,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the periodic refresh.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval)
	entryID, err := s.cron.AddFunc(schedule, s.refreshAll)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	s.log.Infof("Scheduler started with interval: %s", s.interval)
	return nil
}

// Stop cancels in-flight refreshes and waits for the cron runner to drain.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.cancel()
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		s.log.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		s.log.Warn("Scheduler stop timeout, forcing shutdown")
	}

	s.isRunning = false
	return nil
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// refreshAll launches one refresh per user. Users are independent; a
// failure for one never blocks the others.
func (s *Scheduler) refreshAll() {
	s.wg.Add(1)
	defer s.wg.Done()

	s.mu.RLock()
	if !s.isRunning {
		s.mu.RUnlock()
		return
	}
	s.mu.RUnlock()

	start := time.Now()
	userIDs, err := s.accounts.ListUserIDs(s.ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to list users for refresh")
		return
	}

	var users sync.WaitGroup
	for _, userID := range userIDs {
		users.Add(1)
		go func(userID string) {
			defer users.Done()
			if err := s.service.Refresh(s.ctx, userID); err != nil {
				s.log.WithField("userId", userID).WithError(err).Error("refresh failed")
			}
		}(userID)
	}
	users.Wait()

	s.log.Infof("Refresh cycle for %d users completed in %v", len(userIDs), time.Since(start))
}

// RunOnce triggers one refresh cycle outside the cron schedule.
func (s *Scheduler) RunOnce() {
	s.refreshAll()
}

// GetNextRun returns the time of the next scheduled run.
func (s *Scheduler) GetNextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Wait blocks until in-flight refresh cycles finish.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
