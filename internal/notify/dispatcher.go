package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sink is one delivery channel (inbox table, pub/sub, ...).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Effect) error
}

// Dispatcher queues effects and delivers them from a background worker.
type Dispatcher struct {
	queue   chan Effect
	sinks   []Sink
	retries int
	backoff time.Duration
	timeout time.Duration
	log     *log.Entry
}

// NewDispatcher builds a dispatcher with a bounded queue of size entries.
// Each sink gets up to retries extra attempts per effect.
func NewDispatcher(size, retries int, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if retries < 0 {
		retries = 0
	}
	return &Dispatcher{
		queue:   make(chan Effect, size),
		sinks:   sinks,
		retries: retries,
		backoff: 200 * time.Millisecond,
		timeout: 10 * time.Second,
		log:     log.WithField("component", "notify"),
	}
}

// Dispatch enqueues effects without blocking. When the queue is full the
// effect is dropped and logged.
func (d *Dispatcher) Dispatch(effects ...Effect) {
	for _, e := range effects {
		if e.At.IsZero() {
			e.At = time.Now().UTC()
		}
		select {
		case d.queue <- e:
		default:
			d.log.WithFields(log.Fields{
				"userID": e.UserID,
				"event":  e.Event,
			}).Warn("notification queue full, dropping effect")
		}
	}
}

// Run delivers queued effects until ctx is cancelled, then drains whatever
// is already queued before returning.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("notification worker started")
	for {
		select {
		case e := <-d.queue:
			// Shutdown must not cut off an effect that is mid-retry.
			d.deliver(context.WithoutCancel(ctx), e)
		case <-ctx.Done():
			d.drain()
			d.log.Info("notification worker stopped")
			return nil
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-d.queue:
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

// deliver hands e to every sink, bounding all attempts by d.timeout.
func (d *Dispatcher) deliver(parent context.Context, e Effect) {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	for _, sink := range d.sinks {
		var err error
		for attempt := 0; attempt <= d.retries; attempt++ {
			if attempt > 0 {
				select {
				case <-time.After(d.backoff * time.Duration(attempt)):
				case <-ctx.Done():
				}
			}
			if err = sink.Deliver(ctx, e); err == nil {
				break
			}
		}
		if err != nil {
			d.log.WithError(err).WithFields(log.Fields{
				"sink":   sink.Name(),
				"userID": e.UserID,
				"event":  e.Event,
			}).Error("failed to deliver notification")
		}
	}
}
