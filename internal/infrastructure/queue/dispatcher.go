package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/clearport/clearance-system/internal/core/domain"
	"github.com/clearport/clearance-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit-trail entries to a fixed set of workers using
// consistent hashing on the subject, so entries for the same subject are
// written in the order they were enqueued. Writes happen off the request
// path; a full buffer drops the entry rather than blocking a handler.
type Dispatcher struct {
	workers []chan domain.ActivityEntry
	service ports.ActivityService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEntry, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues one entry to the worker responsible for its subject.
func (d *Dispatcher) Record(entry domain.ActivityEntry) {
	select {
	case d.workers[d.shardIndex(entry.Subject)] <- entry:
	default:
		d.log.Warn().Str("subject", entry.Subject).Msg("activity buffer full, entry dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEntry) {
	for {
		select {
		case <-ctx.Done():
			d.log.Debug().Int("worker_id", id).Msg("activity worker stopped")
			return
		case entry := <-ch:
			if err := d.service.Process(ctx, entry); err != nil {
				d.log.Warn().Err(err).
					Str("action", entry.Action).
					Str("subject", entry.Subject).
					Msg("failed to record activity entry")
			}
		}
	}
}
