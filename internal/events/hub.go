package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Kind names a worker lifecycle transition.
type Kind string

const (
	TaskQueued   Kind = "task.queued"
	TaskStarted  Kind = "task.started"
	TaskStopping Kind = "task.stopping"
	TaskFinished Kind = "task.finished"
)

type Event struct {
	ID     int64     `json:"id"`
	Kind   Kind      `json:"kind"`
	TaskID string    `json:"task_id"`
	At     time.Time `json:"at"`
}

// Hub is an in-memory pub/sub with a small ring buffer for late subscribers.
type Hub struct {
	nextID atomic.Int64

	mu    sync.Mutex
	ring  []Event
	start int
	size  int

	subs      map[int]chan Event
	nextSubID int
}

func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 64
	}
	return &Hub{
		ring: make([]Event, capacity),
		subs: make(map[int]chan Event),
	}
}

// Publish records an event and fans it out. A nil Hub drops events.
func (h *Hub) Publish(kind Kind, taskID string) {
	if h == nil {
		return
	}
	ev := Event{
		ID:     h.nextID.Add(1),
		Kind:   kind,
		TaskID: taskID,
		At:     time.Now().UTC(),
	}

	h.mu.Lock()
	h.pushLocked(ev)
	for _, ch := range h.subs {
		// Don't let slow subscribers block the worker.
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

// Subscribe returns a channel of future events and a cancel func that closes it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSubID
	h.nextSubID++
	ch := make(chan Event, 128)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// SnapshotSince returns buffered events with ID > lastID, oldest-first.
// If lastID is 0, the full ring buffer snapshot is returned.
func (h *Hub) SnapshotSince(lastID int64) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, 0, h.size)
	for i := 0; i < h.size; i++ {
		ev := h.ring[(h.start+i)%len(h.ring)]
		if lastID == 0 || ev.ID > lastID {
			out = append(out, ev)
		}
	}
	return out
}

func (h *Hub) pushLocked(ev Event) {
	capacity := len(h.ring)
	if h.size < capacity {
		h.ring[(h.start+h.size)%capacity] = ev
		h.size++
		return
	}

	// Overwrite oldest.
	h.ring[h.start] = ev
	h.start = (h.start + 1) % capacity
}
