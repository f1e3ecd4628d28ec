// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// failed writes. Tests override this to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

const (
	defaultQueueSize  = 256
	defaultMaxRetries = 3
)

// observation is one evaluation's worth of persistence writes.
type observation struct {
	concepts      []types.Concept
	relationships []types.Relationship
}

// AsyncWriter decouples the compliance/fusion path from store I/O. Enqueue
// never blocks: observations go to a buffered queue drained by a single
// goroutine, and when the queue is full the observation is logged and
// dropped. Failed batches retry with exponential backoff before being
// dropped, so a transient store outage neither fails nor delays the
// user-facing response.
type AsyncWriter struct {
	recorder   Recorder
	queue      chan observation
	done       chan struct{}
	maxRetries int

	mu     sync.Mutex
	closed bool
}

// NewAsyncWriter starts the background writer over recorder. Queue size
// and retry count default when non-positive.
func NewAsyncWriter(recorder Recorder, cfg types.StoreConfig) *AsyncWriter {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	w := &AsyncWriter{
		recorder:   recorder,
		queue:      make(chan observation, queueSize),
		done:       make(chan struct{}),
		maxRetries: maxRetries,
	}
	go w.run()
	return w
}

// Enqueue dispatches one evaluation's concepts and relationships for
// persistence. It returns immediately; delivery is best effort. After
// Close the observation is logged and dropped rather than sent, so
// evaluations still in flight during shutdown stay safe.
func (w *AsyncWriter) Enqueue(concepts []types.Concept, relationships []types.Relationship) {
	if len(concepts) == 0 && len(relationships) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		fmt.Fprintf(os.Stderr, "warning: persistence writer closed, dropping %d concepts, %d relationships\n",
			len(concepts), len(relationships))
		return
	}

	select {
	case w.queue <- observation{concepts: concepts, relationships: relationships}:
	default:
		fmt.Fprintf(os.Stderr, "warning: persistence queue full, dropping %d concepts, %d relationships\n",
			len(concepts), len(relationships))
	}
}

// Close stops accepting observations, drains the queue, and waits for the
// writer goroutine to finish. Safe to call more than once.
func (w *AsyncWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	<-w.done
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for obs := range w.queue {
		w.write(obs)
	}
}

// write persists one observation, retrying transient failures with
// exponential backoff: RetryBaseDelay, 2x, 4x, ... After exhausting
// retries the observation is logged and dropped.
func (w *AsyncWriter) write(obs observation) {
	for attempt := 0; ; attempt++ {
		err := w.writeOnce(obs)
		if err == nil {
			return
		}

		if attempt >= w.maxRetries {
			fmt.Fprintf(os.Stderr, "warning: persistence failed after %d attempts, dropping batch: %v\n",
				attempt+1, err)
			return
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		time.Sleep(backoff)
	}
}

func (w *AsyncWriter) writeOnce(obs observation) error {
	ctx := context.Background()
	if err := w.recorder.RecordConcepts(ctx, obs.concepts); err != nil {
		return fmt.Errorf("recording concepts: %w", err)
	}
	if err := w.recorder.RecordRelationships(ctx, obs.relationships); err != nil {
		return fmt.Errorf("recording relationships: %w", err)
	}
	return nil
}
