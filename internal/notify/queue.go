package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
)

// ErrQueueClosed is returned by Close when called twice.
var ErrQueueClosed = errors.New("notification queue closed")

const sendTimeout = 30 * time.Second

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Queue is a bounded in-process outbox drained by worker goroutines.
// Enqueue never blocks: when the buffer is full the message is dropped and logged.
type Queue struct {
	sender  Sender
	log     *zap.Logger
	metrics metrics.Recorder

	mu     sync.RWMutex
	ch     chan Message
	closed bool
	wg     sync.WaitGroup
}

// NewQueue creates a queue holding at most size pending messages.
func NewQueue(sender Sender, size int, log *zap.Logger, m metrics.Recorder) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		sender:  sender,
		log:     log,
		metrics: m,
		ch:      make(chan Message, size),
	}
}

// Start launches n workers.
func (q *Queue) Start(n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

// Enqueue schedules msg for delivery and reports whether it was accepted.
func (q *Queue) Enqueue(msg Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop(msg, "queue closed")
		return false
	}

	select {
	case q.ch <- msg:
		return true
	default:
		q.drop(msg, "queue full")
		return false
	}
}

// Close stops accepting messages and waits for workers to drain the buffer
// or for ctx to expire.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for msg := range q.ch {
		q.deliver(msg)
	}
}

func (q *Queue) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := q.sender.Send(ctx, msg); err != nil {
		q.log.Warn("notification failed",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		q.metrics.RecordNotification(string(msg.Kind), metrics.OutcomeFailed)
		return
	}
	q.metrics.RecordNotification(string(msg.Kind), metrics.OutcomeSent)
}

func (q *Queue) drop(msg Message, reason string) {
	q.log.Warn("notification dropped",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("reason", reason),
	)
	q.metrics.RecordNotification(string(msg.Kind), metrics.OutcomeDropped)
}
