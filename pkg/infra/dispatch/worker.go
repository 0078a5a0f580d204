package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	DefaultQueueSize   = 1000
	DefaultWorkers     = 4
	DefaultTaskTimeout = 5 * time.Second
)

type Task func(ctx context.Context)

// Worker runs fire-and-forget tasks on a fixed pool. Enqueue never blocks;
// when the queue is full the task is dropped.
type Worker interface {
	StartWorkers(n int)
	Enqueue(kind string, task Task) bool
	Shutdown(ctx context.Context) error
}

type worker struct {
	logger      *logrus.Logger
	taskChan    chan queuedTask
	taskTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type queuedTask struct {
	kind string
	run  Task
}

func NewWorker(logger *logrus.Logger, queueSize int, taskTimeout time.Duration) Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}
	return &worker{
		logger:      logger,
		taskChan:    make(chan queuedTask, queueSize),
		taskTimeout: taskTimeout,
	}
}

func (w *worker) StartWorkers(n int) {
	if n <= 0 {
		n = DefaultWorkers
	}
	w.logger.WithField("workers", n).Info("starting dispatch workers")
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for task := range w.taskChan {
				w.run(task)
			}
		}()
	}
}

func (w *worker) run(task queuedTask) {
	ctx, cancel := context.WithTimeout(context.Background(), w.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			w.logger.WithFields(logrus.Fields{
				"kind":  task.kind,
				"panic": r,
			}).Error("dispatch task panicked")
		}
	}()
	task.run(ctx)
}

func (w *worker) Enqueue(kind string, task Task) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.taskChan <- queuedTask{kind: kind, run: task}:
		return true
	default:
		prometheus.DispatchDroppedTotal.WithLabelValues(kind).Inc()
		w.logger.WithField("kind", kind).Warn("dispatch queue is full, dropping task")
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to drain or ctx
// to expire.
func (w *worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.taskChan)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("dispatch workers stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
