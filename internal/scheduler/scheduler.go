// Package scheduler triggers the daily pipeline run at a fixed hour UTC.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Submitter enqueues a pipeline run; an empty date means today.
type Submitter interface {
	Submit(date string) bool
}

// Scheduler owns the cron loop for the daily run.
type Scheduler struct {
	cron *cron.Cron
	runs Submitter
	hour int
	log  *logrus.Logger
}

// New builds a scheduler that fires once per day at the given UTC hour.
func New(runs Submitter, hour int, log *logrus.Logger) (*Scheduler, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("scheduler: hour %d out of range", hour)
	}

	s := &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		runs: runs,
		hour: hour,
		log:  log,
	}

	spec := fmt.Sprintf("0 %d * * *", hour)
	if _, err := s.cron.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("scheduler: register daily job: %w", err)
	}
	return s, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.log.WithField("hour_utc", s.hour).Info("daily scheduler started")
	s.cron.Start()
}

// Stop halts the cron loop and waits for a running trigger to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) fire() {
	// An empty date resolves to today inside the run.
	if !s.runs.Submit("") {
		s.log.Warn("daily run dropped, queue full")
		return
	}
	s.log.Info("daily run queued")
}
