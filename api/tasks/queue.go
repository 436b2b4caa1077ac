/* queue.go
 * Contains the background task queue. Tasks are submitted by request handlers and drained later by the Processor,
 * so slow side effects (e.g. Discord notifications) never block a request
 * Authors: Zachary Bower
 */

package tasks

import (
	"context"
	"errors"
	"fmt"
	"gaming-companion/api/shared"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// KindSummaryNotification posts the refreshed summary for (UserID, GameType) to the notification webhook
const KindSummaryNotification = "summary_notification"

// DefaultMaxAttempts is used when NewMemoryQueue is given a non positive limit
const DefaultMaxAttempts = 3

var ErrQueueClosed = errors.New("task queue is closed")

type Task struct {
	ID        string
	Kind      string
	UserID    string
	Username  string
	GameType  shared.GameType
	Attempts  int
	CreatedAt time.Time
}

// Handler executes a single task. A returned error causes the task to be retried on a later drain
type Handler func(ctx context.Context, task Task) error

// Queue is the interface the facade submits to. It is injected so tests and alternative backends can replace it
type Queue interface {
	Submit(task Task) error
	Drain(ctx context.Context, handler Handler) (int, error)
	Len() int
	Close()
}

// MemoryQueue is a mutex guarded FIFO. Tasks that fail are requeued until they reach maxAttempts
type MemoryQueue struct {
	mu          sync.Mutex
	pending     []Task
	maxAttempts int
	closed      bool
}

var _ Queue = (*MemoryQueue)(nil)

func NewMemoryQueue(maxAttempts int) *MemoryQueue {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &MemoryQueue{maxAttempts: maxAttempts}
}

// Submit adds a task to the back of the queue
// Preconditions: Receives the task to queue. ID and CreatedAt are filled in when empty
// Postconditions: Task is queued, or ErrQueueClosed is returned if Close has been called
func (q *MemoryQueue) Submit(task Task) error {
	if task.Kind == "" {
		return fmt.Errorf("task kind cannot be empty")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.pending = append(q.pending, task)
	return nil
}

// Drain runs handler over every task queued at the time of the call
// Preconditions: Receives context and the handler to run
// Postconditions: Returns the number of tasks that succeeded and the combined errors of those that failed. Failed tasks
// are requeued unless they have used all their attempts. Tasks left unprocessed because ctx was cancelled are requeued
func (q *MemoryQueue) Drain(ctx context.Context, handler Handler) (int, error) {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	var result *multierror.Error
	var retry []Task
	processed := 0

	for i, task := range batch {
		if ctx.Err() != nil {
			retry = append(retry, batch[i:]...)
			result = multierror.Append(result, ctx.Err())
			break
		}

		task.Attempts++
		if err := handler(ctx, task); err != nil {
			result = multierror.Append(result, fmt.Errorf("task %s (%s): %w", task.ID, task.Kind, err))
			if task.Attempts < q.maxAttempts {
				retry = append(retry, task)
			} else {
				logrus.WithFields(logrus.Fields{
					"task":     task.ID,
					"kind":     task.Kind,
					"attempts": task.Attempts,
				}).WithError(err).Error("dropping task after final attempt")
			}
			continue
		}
		processed++
	}

	if len(retry) > 0 {
		q.mu.Lock()
		q.pending = append(retry, q.pending...)
		q.mu.Unlock()
	}

	return processed, result.ErrorOrNil()
}

func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops the queue accepting tasks. Tasks already queued can still be drained
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
