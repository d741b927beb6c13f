package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/metrics"
)

var ErrClosed = errors.New("telemetry dispatcher is closed")

// Reporter is what request-path code uses to report errors and events.
// Implementations must never block the caller.
type Reporter interface {
	CaptureError(ctx context.Context, name string, err error, attrs map[string]any)
	Publish(ctx context.Context, name, key string, payload any)
}

// Sink delivers reports to a backend.
type Sink interface {
	Send(ctx context.Context, r Report) error
	Close() error
}

type item struct {
	report  Report
	flushed chan struct{}
}

// Dispatcher queues reports and delivers them to every sink from a single
// worker goroutine. When the queue is full, reports are dropped.
type Dispatcher struct {
	service     string
	queue       chan item
	sinks       []Sink
	log         *logger.Logger
	metrics     *metrics.Metrics
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type Options struct {
	Service     string
	QueueSize   int
	SendTimeout time.Duration
	Log         *logger.Logger
	Metrics     *metrics.Metrics
}

func NewDispatcher(opts Options, sinks ...Sink) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 5 * time.Second
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}

	d := &Dispatcher{
		service:     opts.Service,
		queue:       make(chan item, opts.QueueSize),
		sinks:       sinks,
		log:         opts.Log,
		metrics:     opts.Metrics,
		sendTimeout: opts.SendTimeout,
		done:        make(chan struct{}),
	}

	go d.run()
	return d
}

func (d *Dispatcher) CaptureError(ctx context.Context, name string, err error, attrs map[string]any) {
	r := Report{
		Kind:       KindError,
		Name:       name,
		Attributes: attrs,
		RequestID:  logger.RequestID(ctx),
	}
	if err != nil {
		r.Error = err.Error()
		r.Message = err.Error()
	}
	d.Enqueue(r)
}

func (d *Dispatcher) Publish(ctx context.Context, name, key string, payload any) {
	d.Enqueue(Report{
		Kind:      KindEvent,
		Name:      name,
		Key:       key,
		Payload:   payload,
		RequestID: logger.RequestID(ctx),
	})
}

// Enqueue adds r to the queue without blocking. It reports false when the
// report was dropped.
func (d *Dispatcher) Enqueue(r Report) bool {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.Service == "" {
		r.Service = d.service
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.count(r.Kind, "dropped")
		return false
	}

	select {
	case d.queue <- item{report: r}:
		d.count(r.Kind, "queued")
		return true
	default:
		d.count(r.Kind, "dropped")
		d.log.Warn("Telemetry queue full, dropping report", "kind", r.Kind, "name", r.Name)
		return false
	}
}

// Flush blocks until every report queued before the call has been handed
// to the sinks, or ctx is done.
func (d *Dispatcher) Flush(ctx context.Context) error {
	marker := item{flushed: make(chan struct{})}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	select {
	case d.queue <- marker:
		d.mu.RUnlock()
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-marker.flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue, stops the worker and closes the sinks.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for it := range d.queue {
		if it.flushed != nil {
			close(it.flushed)
			continue
		}
		d.deliver(it.report)
	}
}

func (d *Dispatcher) deliver(r Report) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := s.Send(ctx, r)
		cancel()

		if err != nil {
			d.count(r.Kind, "failed")
			d.log.Warn("Telemetry delivery failed", "kind", r.Kind, "name", r.Name, "error", err)
			continue
		}
		d.count(r.Kind, "delivered")
	}
}

func (d *Dispatcher) count(kind, status string) {
	if d.metrics != nil {
		d.metrics.TelemetryReports.WithLabelValues(kind, status).Inc()
	}
}

// Nop discards everything. Used when telemetry is disabled.
type Nop struct{}

func (Nop) CaptureError(context.Context, string, error, map[string]any) {}
func (Nop) Publish(context.Context, string, string, any)                {}
