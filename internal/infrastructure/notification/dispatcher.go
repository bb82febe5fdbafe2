package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
	"github.com/iho/memledger/internal/infrastructure/metrics"
)

// ErrDispatcherClosed is returned by Close when called twice.
var ErrDispatcherClosed = errors.New("notification dispatcher already closed")

// Notifier delivers a single notification to its recipient.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Recorder receives delivery outcomes.
type Recorder interface {
	RecordNotification(outcome string)
}

// Config for Dispatcher.
type Config struct {
	Notifier      Notifier
	Logger        zerolog.Logger
	Metrics       Recorder
	Workers       int           // Number of delivery goroutines
	QueueSize     int           // Pending deliveries before new ones are dropped
	MaxRetries    int           // Retries after the first failed attempt
	RetryInterval time.Duration // Initial backoff interval
	Timeout       time.Duration // Per-attempt deadline
}

// Dispatcher delivers transfer notifications on a pool of background workers.
// Dispatch never blocks and delivery failures never reach the caller.
type Dispatcher struct {
	notifier      Notifier
	logger        zerolog.Logger
	metrics       Recorder
	maxRetries    int
	retryInterval time.Duration
	timeout       time.Duration

	queue  chan domain.Notification
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher and starts its workers.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Notifier == nil {
		cfg.Notifier = NewLogNotifier(cfg.Logger)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopRecorder{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		notifier:      cfg.Notifier,
		logger:        cfg.Logger.With().Str("component", "notification_dispatcher").Logger(),
		metrics:       cfg.Metrics,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		timeout:       cfg.Timeout,
		queue:         make(chan domain.Notification, cfg.QueueSize),
		ctx:           ctx,
		cancel:        cancel,
	}

	for range cfg.Workers {
		d.wg.Add(1)
		go d.work()
	}

	return d
}

// Dispatch schedules the debit and credit messages of a committed transfer.
func (d *Dispatcher) Dispatch(transferID string, sender, receiver domain.Account, amount decimal.Decimal) {
	for _, n := range domain.TransferNotifications(transferID, sender, receiver, amount) {
		d.enqueue(n)
	}
}

func (d *Dispatcher) enqueue(n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(n, "dispatcher closed")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.drop(n, "queue full")
	}
}

func (d *Dispatcher) drop(n domain.Notification, reason string) {
	d.metrics.RecordNotification(metrics.NotificationDropped)
	d.logger.Warn().
		Str("transfer_id", n.TransferID).
		Str("account_id", n.Account.ID).
		Str("reason", reason).
		Msg("notification dropped")
}

// Close stops accepting notifications and waits for queued ones to be
// delivered. If ctx expires first, in-flight attempts are cancelled and
// ctx.Err() is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	logger := d.logger.With().
		Str("transfer_id", n.TransferID).
		Str("account_id", n.Account.ID).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			d.metrics.RecordNotification(metrics.NotificationFailed)
			logger.Error().Interface("panic", r).Msg("notification delivery panicked")
		}
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.retryInterval
	b.MaxInterval = 10 * d.retryInterval
	b.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++

		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, n); err != nil {
			logger.Debug().Err(err).Int("attempt", attempt).Msg("notification attempt failed")
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.maxRetries)), d.ctx))

	if err != nil {
		d.metrics.RecordNotification(metrics.NotificationFailed)
		logger.Warn().Err(err).Int("attempts", attempt).Msg("notification delivery failed")
		return
	}

	d.metrics.RecordNotification(metrics.NotificationDelivered)
	logger.Debug().Int("attempts", attempt).Msg("notification delivered")
}

type nopRecorder struct{}

func (nopRecorder) RecordNotification(string) {}

