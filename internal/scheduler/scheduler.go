// Package scheduler runs periodic market scans on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TradeScout/internal/scanner"
)

// Scheduler triggers scans on a cron expression (with seconds field).
type Scheduler struct {
	cron *cron.Cron
	scan *scanner.Scanner
	ctx  context.Context
}

// New creates a scheduler bound to a scan session.
func New(ctx context.Context, scan *scanner.Scanner) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		scan: scan,
		ctx:  ctx,
	}
}

// Register adds the periodic scan job.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron loop. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes a scan immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Info().Msg("running scheduled scan")
	if _, err := s.scan.RunScan(s.ctx); err != nil {
		if errors.Is(err, scanner.ErrScanInProgress) {
			log.Warn().Msg("scheduled scan skipped, previous scan still running")
			return
		}
		log.Error().Err(err).Msg("scheduled scan failed")
	}
}
