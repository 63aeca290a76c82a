// Package notify fans a finished lead record out to the configured sinks.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jenli/leadbot/core/logger"
	"github.com/jenli/leadbot/internal/lead"
)

// Sink delivers one record to a single destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, rec lead.Record) error
}

const defaultDeliveryTimeout = 10 * time.Second

// Options wire the notifier. Nil sinks are skipped.
type Options struct {
	// Admin is delivered synchronously so the user-facing ack follows
	// the admin alert.
	Admin Sink
	// Async sinks run in their own goroutines and never block the
	// conversation.
	Async []Sink
	// Timeout bounds each individual delivery.
	Timeout time.Duration
}

// Notifier applies every configured sink to each record, best effort.
// Failures are logged and swallowed.
type Notifier struct {
	admin   Sink
	async   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

// New builds a Notifier from its options.
func New(opts Options) *Notifier {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	async := make([]Sink, 0, len(opts.Async))
	for _, s := range opts.Async {
		if s != nil {
			async = append(async, s)
		}
	}
	return &Notifier{admin: opts.Admin, async: async, timeout: timeout}
}

// Notify delivers rec to every configured sink. The admin sink is
// awaited; the rest run detached from the caller's context so user
// replies are never held up by a slow endpoint.
func (n *Notifier) Notify(ctx context.Context, rec lead.Record) {
	if n.admin != nil {
		n.deliver(ctx, n.admin, rec)
	}
	for _, sink := range n.async {
		sink := sink
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.deliver(context.WithoutCancel(ctx), sink, rec)
		}()
	}
}

// Drain waits for in-flight async deliveries, used at shutdown.
func (n *Notifier) Drain() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, sink Sink, rec lead.Record) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	err := sink.Deliver(ctx, rec)

	attrs := []slog.Attr{
		slog.String("sink", sink.Name()),
		slog.String("status", logger.Status(err)),
		slog.String("outcome", rec.Event),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		logger.Event(ctx, "notify", slog.LevelWarn, "lead.deliver", attrs...)
		return
	}
	logger.Event(ctx, "notify", slog.LevelInfo, "lead.deliver", attrs...)
}
