package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/patelfin/lendbook/pkg/ledger"
)

// Scheduler periodically revalues the ledger. Accrued interest is a function
// of wall-clock time, so displayed balances drift between mutations unless
// the recalculation is rerun.
type Scheduler struct {
	cron   *cron.Cron
	ledger *ledger.Ledger
	logger *zap.Logger
}

// NewScheduler creates a scheduler over the given ledger.
func NewScheduler(l *ledger.Ledger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		ledger: l,
		logger: logger,
	}
}

// Start registers the revaluation job and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.ledger.Revalue()
		s.logger.Debug("ledger revalued")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
