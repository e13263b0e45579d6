package batch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"ms-checkin/internal/logger"
)

// Scheduler owns the cron lifecycle for background jobs. Jobs are
// registered explicitly and the whole scheduler is started and stopped
// from main.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: log,
	}
}

// RegisterIssuer schedules the daily issuance run.
func (s *Scheduler) RegisterIssuer(spec string, issuer *Issuer) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := issuer.Run(context.Background()); err != nil {
			s.logger.Error("BATCH", fmt.Sprintf("[%s] run failed: %v", jobName, err))
		}
	})
	if err != nil {
		return fmt.Errorf("register issuer job: %w", err)
	}
	s.logger.LogBatch(jobName, fmt.Sprintf("scheduled with spec %q", spec))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the trigger clock and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
