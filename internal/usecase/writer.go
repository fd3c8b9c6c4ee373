package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/polyglot/internal/repository"
)

const writeTimeout = 5 * time.Second

// Writer persists store snapshots in the background. Mutating operations
// enqueue and return immediately; one goroutine drains the pending set, and
// a newer value for a key replaces the older one before it is written, so
// each key converges on its last write. Failures are logged and retained in
// Err instead of propagating to the mutation path.
type Writer struct {
	store repository.KVStore
	log   logrus.FieldLogger

	mu       sync.Mutex
	cond     *sync.Cond
	pending  map[string][]byte
	inflight bool
	closed   bool
	lastErr  error
}

func NewWriter(store repository.KVStore, log logrus.FieldLogger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	w := &Writer{
		store:   store,
		log:     log,
		pending: make(map[string][]byte),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Enqueue schedules value to be written under key, replacing any pending
// value for the same key.
func (w *Writer) Enqueue(key string, value []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.pending[key] = value
	w.cond.Broadcast()
}

// Flush blocks until everything enqueued so far has been written.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.pending) > 0 || w.inflight {
		w.cond.Wait()
	}
}

// Err returns the most recent persistence failure, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Close flushes outstanding writes and stops the background goroutine.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.cond.Broadcast()
	for len(w.pending) > 0 || w.inflight {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

func (w *Writer) run() {
	for {
		w.mu.Lock()
		for len(w.pending) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.pending) == 0 && w.closed {
			w.mu.Unlock()
			return
		}
		batch := w.pending
		w.pending = make(map[string][]byte)
		w.inflight = true
		w.mu.Unlock()

		var failure error
		for key, value := range batch {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := w.store.Set(ctx, key, value)
			cancel()
			if err != nil {
				failure = err
				w.log.WithError(err).WithField("key", key).Error("persist failed")
			}
		}

		w.mu.Lock()
		if failure != nil {
			w.lastErr = failure
		}
		w.inflight = false
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}
