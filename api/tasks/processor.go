/* processor.go
 * Contains the Processor, which drains a Queue on a fixed interval using a gocron scheduler
 * Authors: Zachary Bower
 */

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type Processor struct {
	queue     Queue
	handler   Handler
	timeout   time.Duration
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewProcessor creates a processor that drains queue every interval. Each drain is bounded by timeout
// Preconditions: Receives the queue, the handler to run on each task, and positive interval and timeout durations
// Postconditions: Returns the processor with its job registered but not running, or an error if the job is invalid
func NewProcessor(queue Queue, handler Handler, interval time.Duration, timeout time.Duration) (*Processor, error) {
	if queue == nil || handler == nil {
		return nil, fmt.Errorf("processor requires a queue and a handler")
	}
	if interval <= 0 || timeout <= 0 {
		return nil, fmt.Errorf("processor interval and timeout must be positive")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Processor{
		queue:     queue,
		handler:   handler,
		timeout:   timeout,
		scheduler: sched,
		ctx:       ctx,
		cancel:    cancel,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.drainOnce),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to register drain job: %w", err)
	}
	return p, nil
}

// Start begins draining on the configured interval
func (p *Processor) Start() {
	p.scheduler.Start()
	logrus.Info("task processor started")
}

// Stop cancels any in-flight drain, waits for the scheduler to finish and runs a final drain so queued tasks are not lost
func (p *Processor) Stop() error {
	p.cancel()
	if err := p.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}

	p.queue.Close()
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if _, err := p.queue.Drain(ctx, p.handler); err != nil {
		logrus.WithError(err).Warn("final task drain reported errors")
	}
	logrus.Info("task processor stopped")
	return nil
}

// RunOnce drains the queue immediately
func (p *Processor) RunOnce(ctx context.Context) (int, error) {
	return p.queue.Drain(ctx, p.handler)
}

func (p *Processor) drainOnce() {
	if p.queue.Len() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	processed, err := p.queue.Drain(ctx, p.handler)
	entry := logrus.WithField("processed", processed)
	if err != nil {
		entry.WithError(err).Warn("task drain completed with errors")
		return
	}
	entry.Debug("task drain completed")
}
