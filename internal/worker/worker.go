// Package worker runs long-lived engine tasks, such as a search, on one
// dedicated goroutine.
//
// At most one task is installed or running at a time. Each task gets its own
// stop flag; launching a new task raises the flag of whatever was installed
// before it, so a stop request is never lost to a later launch. Task bodies
// never overlap: the next body starts only after the previous one returns.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mattjoyce/ucikit/internal/events"
	"github.com/mattjoyce/ucikit/internal/log"
)

// ErrClosed is returned by Launch after Shutdown.
var ErrClosed = errors.New("worker is shut down")

// StopSignal reports whether the running task has been asked to stop.
type StopSignal func() bool

// Task is a unit of background work. It must poll stop and return promptly
// once stop reports true.
type Task func(stop StopSignal)

type job struct {
	id   string
	body Task
	stop atomic.Bool
}

// Worker owns the task slot and the goroutine that drains it.
type Worker struct {
	mu      sync.Mutex
	cond    *sync.Cond
	started bool
	kill    bool
	pending *job
	running *job
	done    chan struct{}

	events  *events.Hub
	logger  *slog.Logger
	onFault func(error)
}

// New creates an idle worker. The goroutine starts on the first Launch or
// Awake. hub may be nil.
func New(hub *events.Hub) *Worker {
	w := &Worker{
		done:   make(chan struct{}),
		events: hub,
		logger: log.WithComponent("worker"),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// SetFaultHandler routes panics raised by task bodies. Without one, the panic
// is logged and the worker keeps serving.
func (w *Worker) SetFaultHandler(h func(error)) {
	w.mu.Lock()
	w.onFault = h
	w.mu.Unlock()
}

// Awake starts the goroutine without installing a task.
func (w *Worker) Awake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensureStartedLocked()
}

// Launch stops whatever is installed or running and installs task as the next
// one to run. It does not wait for the previous task to finish. The returned
// id tags the task in logs and lifecycle events.
func (w *Worker) Launch(task Task) (string, error) {
	if task == nil {
		return "", fmt.Errorf("launch: nil task")
	}
	j := &job{id: uuid.NewString(), body: task}

	w.mu.Lock()
	if w.kill {
		w.mu.Unlock()
		return "", ErrClosed
	}
	w.ensureStartedLocked()
	w.publishStoppingLocked(w.raiseLocked())
	if w.pending != nil {
		w.logger.Debug("replacing pending task", "task_id", w.pending.id, "replacement", j.id)
	}
	w.pending = j
	w.events.Publish(events.TaskQueued, j.id)
	w.cond.Broadcast()
	w.mu.Unlock()

	return j.id, nil
}

// RequestStop raises the stop flag of the installed or running task and
// returns immediately.
func (w *Worker) RequestStop() {
	w.mu.Lock()
	w.publishStoppingLocked(w.raiseLocked())
	w.mu.Unlock()
}

// IsRunning reports whether a task is installed or executing.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil || w.running != nil
}

// WaitIdle blocks until no task is installed or executing.
func (w *Worker) WaitIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for (w.pending != nil || w.running != nil) && w.started && !w.kill {
		w.cond.Wait()
	}
}

// Shutdown stops the current task, tells the goroutine to exit and waits for
// it. A pending task that has not started is discarded. Safe to call twice.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	w.publishStoppingLocked(w.raiseLocked())
	w.kill = true
	started := w.started
	w.cond.Broadcast()
	w.mu.Unlock()

	if started {
		<-w.done
	}
	w.logger.Debug("worker stopped")
}

func (w *Worker) ensureStartedLocked() {
	if w.started {
		return
	}
	w.started = true
	go w.loop()
	w.logger.Debug("worker started")
}

// raiseLocked sets the stop flag of every installed task and returns their ids.
func (w *Worker) raiseLocked() []string {
	var ids []string
	for _, j := range []*job{w.running, w.pending} {
		if j != nil && !j.stop.Swap(true) {
			ids = append(ids, j.id)
		}
	}
	return ids
}

// publishStoppingLocked runs under w.mu, which run also holds when it
// publishes TaskFinished, so a task's stopping event precedes its finish.
func (w *Worker) publishStoppingLocked(ids []string) {
	for _, id := range ids {
		w.events.Publish(events.TaskStopping, id)
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	w.mu.Lock()
	for {
		for w.pending == nil && !w.kill {
			w.cond.Wait()
		}
		if w.kill {
			w.pending = nil
			w.cond.Broadcast()
			w.mu.Unlock()
			return
		}

		j := w.pending
		w.pending = nil
		w.running = j
		w.mu.Unlock()

		w.run(j)

		w.mu.Lock()
		w.running = nil
		w.cond.Broadcast()
	}
}

func (w *Worker) run(j *job) {
	logger := log.WithTask(j.id)
	logger.Debug("task started")
	w.events.Publish(events.TaskStarted, j.id)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("task %s panicked: %v", j.id, r)
			w.mu.Lock()
			h := w.onFault
			w.mu.Unlock()
			if h != nil {
				h(err)
			} else {
				logger.Error("task panicked", "error", err)
			}
		}
		logger.Debug("task finished", "stopped", j.stop.Load())
		w.mu.Lock()
		w.events.Publish(events.TaskFinished, j.id)
		w.mu.Unlock()
	}()

	j.body(j.stop.Load)
}
