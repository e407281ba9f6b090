package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	h := NewHub(8)
	ch, cancel := h.Subscribe()

	h.Publish(TaskQueued, "a")
	h.Publish(TaskStarted, "a")

	first := <-ch
	second := <-ch
	assert.Equal(t, TaskQueued, first.Kind)
	assert.Equal(t, TaskStarted, second.Kind)
	assert.Equal(t, "a", second.TaskID)
	assert.Less(t, first.ID, second.ID)

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel closes the channel")
	cancel()
}

func TestRingOverwritesOldest(t *testing.T) {
	h := NewHub(2)
	h.Publish(TaskQueued, "a")
	h.Publish(TaskStarted, "a")
	h.Publish(TaskFinished, "a")

	snap := h.SnapshotSince(0)
	require.Len(t, snap, 2)
	assert.Equal(t, TaskStarted, snap[0].Kind)
	assert.Equal(t, TaskFinished, snap[1].Kind)

	since := h.SnapshotSince(snap[0].ID)
	require.Len(t, since, 1)
	assert.Equal(t, TaskFinished, since[0].Kind)
}

func TestNilHubDropsEvents(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(TaskStarted, "x") })
}
