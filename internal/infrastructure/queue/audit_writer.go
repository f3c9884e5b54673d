package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/teamskills/skills-matrix-api/internal/api/metrics"
	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditWriter persists audit entries asynchronously through a fixed set
// of workers, sharded by actor id so one actor's entries keep their
// order. Writes are best-effort: a full buffer or a failed insert never
// reaches the caller, but both are logged and counted.
type AuditWriter struct {
	workers []chan *domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditWriter creates an AuditWriter with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditWriter(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &AuditWriter{
		workers: make([]chan *domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan *domain.AuditEntry, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled; entries already buffered at that point are dropped with a
// log signal.
func (w *AuditWriter) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an entry to the worker responsible for its actor.
// Never blocks: when the worker's buffer is full the entry is dropped,
// logged, and counted.
func (w *AuditWriter) Enqueue(entry *domain.AuditEntry) {
	idx := w.shardIndex(entry.ActorID)
	select {
	case w.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(w.workers[idx])))
	default:
		metrics.AuditWriteFailuresTotal.WithLabelValues("queue_full").Inc()
		w.log.Error().
			Str("actor_id", entry.ActorID).
			Str("action", string(entry.Action)).
			Msg("audit buffer full, entry dropped")
	}
}

// shardIndex maps an actor id deterministically to a worker index.
func (w *AuditWriter) shardIndex(actorID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actorID))
	return int(h.Sum32()) % len(w.workers)
}

func (w *AuditWriter) runWorker(ctx context.Context, id int, ch <-chan *domain.AuditEntry) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			if n := len(ch); n > 0 {
				w.log.Warn().Int("pending", n).Int("worker_id", id).Msg("audit worker stopping with entries pending")
			}
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := w.repo.Insert(ctx, entry); err != nil {
				metrics.AuditWriteFailuresTotal.WithLabelValues("insert_failed").Inc()
				w.log.Warn().Err(err).
					Str("actor_id", entry.ActorID).
					Str("action", string(entry.Action)).
					Int("worker_id", id).
					Msg("audit write failed")
			} else {
				metrics.AuditWritesTotal.WithLabelValues(string(entry.Action)).Inc()
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		}
	}
}
