package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("mail queue is full")
	ErrQueueClosed = errors.New("mail queue is closed")
)

type sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type QueueOptions struct {
	Workers       int
	Buffer        int
	RatePerSecond int
	SendTimeout   time.Duration
}

type message struct {
	to, subject, body string
}

// Queue hands mail to a fixed set of workers so requests never wait on the relay.
// Send only enqueues; delivery errors are logged by the workers.
type Queue struct {
	next    sender
	workers int
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan message
	wg     sync.WaitGroup
	rate   <-chan time.Time
	ticker *time.Ticker
}

func NewQueue(next sender, opts QueueOptions, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Buffer < 0 {
		opts.Buffer = 0
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}

	q := &Queue{
		next:    next,
		workers: opts.Workers,
		timeout: opts.SendTimeout,
		logger:  logger,
		jobs:    make(chan message, opts.Buffer),
	}
	if opts.RatePerSecond > 0 {
		q.ticker = time.NewTicker(time.Second / time.Duration(opts.RatePerSecond))
		q.rate = q.ticker.C
	}
	return q
}

func (q *Queue) Send(_ context.Context, to, subject, body string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- message{to: to, subject: subject, body: body}:
		return nil
	default:
		q.logger.Warn("mail dropped", zap.String("to", to), zap.String("subject", subject), zap.Error(ErrQueueFull))
		return ErrQueueFull
	}
}

// Run starts the workers. They stop when ctx is done or after Close drains the queue.
func (q *Queue) Run(ctx context.Context) {
	q.wg.Add(q.workers)
	for i := 0; i < q.workers; i++ {
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-q.jobs:
					if !ok {
						return
					}
					if q.rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-q.rate:
						}
					}
					q.deliver(ctx, m)
				}
			}
		}()
	}
}

func (q *Queue) deliver(ctx context.Context, m message) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
	defer cancel()

	if err := q.next.Send(sendCtx, m.to, m.subject, m.body); err != nil {
		q.logger.Warn("mail delivery failed", zap.String("to", m.to), zap.String("subject", m.subject), zap.Error(err))
		return
	}
	q.logger.Debug("mail delivered", zap.String("to", m.to), zap.String("subject", m.subject))
}

// Close stops accepting mail and waits for queued messages to go out.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	if q.ticker != nil {
		q.ticker.Stop()
	}
}
