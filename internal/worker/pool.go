// Package worker runs pipeline invocations in the background so HTTP and
// scheduler triggers return immediately.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paarad/03-coincerto/internal/core/services"
)

// Runner executes one pipeline run. Satisfied by services.Pipeline.
type Runner interface {
	Run(ctx context.Context, opts services.RunOptions) (services.RunResult, error)
}

// Pool manages background workers for queued pipeline runs.
type Pool struct {
	runner  Runner
	log     *logrus.Logger
	jobs    chan string
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewPool creates a worker pool with the given worker count and queue size
// and starts its workers.
func NewPool(runner Runner, log *logrus.Logger, workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		runner:  runner,
		log:     log,
		jobs:    make(chan string, queueSize),
		timeout: 10 * time.Minute,
	}
	p.start(workers)
	return p
}

func (p *Pool) start(workers int) {
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for date := range p.jobs {
				p.runOne(date)
			}
		}()
	}
}

// Stop waits for in-flight runs to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a run without blocking. An empty date means today.
// It reports false when the queue is full.
func (p *Pool) Submit(date string) bool {
	select {
	case p.jobs <- date:
		return true
	default:
		p.log.WithField("date", date).Warn("run queue full, dropping run")
		return false
	}
}

func (p *Pool) runOne(date string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	result, err := p.runner.Run(ctx, services.RunOptions{Date: date})
	if err != nil {
		p.log.WithError(err).WithField("date", date).Error("pipeline run failed")
		return
	}
	p.log.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"date":      result.Track.Date,
		"has_audio": result.HasAudio,
		"has_image": result.HasImage,
		"has_mint":  result.HasMint,
	}).Info("pipeline run finished")
}
