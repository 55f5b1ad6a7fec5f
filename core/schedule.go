package core

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DailySweepSpec runs the clean-up every day at 01:00 in the cron's location.
const DailySweepSpec = "0 1 * * *"

// Sweeper is anything with an idempotent, argument-free clean-up.
type Sweeper interface {
	Sweep()
}

var _ cron.Job = SweepJob{}

// SweepJob runs a Sweeper as a cron job.
type SweepJob struct {
	Sweeper Sweeper
	Logger  *zap.Logger
}

func (j SweepJob) Run() {
	if j.Logger != nil {
		j.Logger.Info("running clean on expiring media links")
	}
	j.Sweeper.Sweep()
}

// ScheduleSweep registers sweeper on c. An empty spec means DailySweepSpec.
// Starting and stopping c is left to the caller.
func ScheduleSweep(c *cron.Cron, spec string, sweeper Sweeper, logger *zap.Logger) (cron.EntryID, error) {
	if spec == "" {
		spec = DailySweepSpec
	}
	return c.AddJob(spec, SweepJob{Sweeper: sweeper, Logger: logger})
}
