package services

import (
	"context"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

type orderExpirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// ExpiryWorker periodically expires pending orders that were never followed up
type ExpiryWorker struct {
	logger   *gecho.Logger
	orders   orderExpirer
	interval time.Duration
	maxAge   time.Duration
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

const (
	DefaultExpiryInterval = 10 * time.Minute
	DefaultPendingMaxAge  = 72 * time.Hour
)

// NewExpiryWorker replaces non-positive durations with the defaults
func NewExpiryWorker(logger *gecho.Logger, orders orderExpirer, interval, maxAge time.Duration) *ExpiryWorker {
	if interval <= 0 {
		logger.Warn("Invalid expiry interval, using default",
			gecho.Field("interval", interval),
			gecho.Field("default", DefaultExpiryInterval),
		)
		interval = DefaultExpiryInterval
	}
	if maxAge <= 0 {
		logger.Warn("Invalid pending order max age, using default",
			gecho.Field("max_age", maxAge),
			gecho.Field("default", DefaultPendingMaxAge),
		)
		maxAge = DefaultPendingMaxAge
	}

	return &ExpiryWorker{
		logger:   logger,
		orders:   orders,
		interval: interval,
		maxAge:   maxAge,
		done:     make(chan struct{}),
	}
}

func (w *ExpiryWorker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop signals the worker and waits for a running sweep to finish
func (w *ExpiryWorker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
}

func (w *ExpiryWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *ExpiryWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	n, err := w.orders.ExpireStale(ctx, w.maxAge)
	if err != nil {
		w.logger.Error("Failed to expire pending orders", gecho.Field("error", err))
		return
	}
	if n > 0 {
		w.logger.Info("Expired pending orders", gecho.Field("count", n))
	}
}
