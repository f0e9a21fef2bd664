// Package sweep runs the background worker that evicts expired workflow
// and interview sessions. Stores already drop expired sessions lazily on
// access; the worker bounds how long an untouched session holds memory.
package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store is any session store that can drop its expired entries.
type Store interface {
	Sweep() int
}

type target struct {
	name  string
	store Store
}

// Worker periodically sweeps the registered stores.
type Worker struct {
	interval time.Duration
	targets  []target
	logger   *zap.Logger
}

func NewWorker(interval time.Duration, logger *zap.Logger) *Worker {
	return &Worker{interval: interval, logger: logger}
}

// Register adds a named store to the sweep rotation.
func (w *Worker) Register(name string, store Store) {
	w.targets = append(w.targets, target{name: name, store: store})
}

// Run sweeps on every tick until the context is canceled. It blocks, so
// callers start it in a goroutine.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sweep worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			w.sweepAll()
		case <-ctx.Done():
			w.logger.Info("sweep worker shutting down")
			return
		}
	}
}

func (w *Worker) sweepAll() {
	for _, t := range w.targets {
		if removed := t.store.Sweep(); removed > 0 {
			w.logger.Info("swept expired sessions",
				zap.String("store", t.name),
				zap.Int("removed", removed),
			)
		}
	}
}
