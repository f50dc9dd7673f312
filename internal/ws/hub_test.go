package ws

import (
	"testing"

	"github.com/filescope/filescope/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelA()
	defer cancelB()

	h.Publish(types.ProgressEvent{Type: "transfer.progress", TransferID: "t1"})

	evA := <-a
	evB := <-b
	assert.Equal(t, "t1", evA.TransferID)
	assert.Equal(t, "t1", evB.TransferID)
}

func TestHubSlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(types.ProgressEvent{Type: "transfer.progress"})
	}

	// The buffer holds what it holds; the overflow is gone and Publish
	// never blocked to deliver it.
	assert.Len(t, ch, subscriberBuffer)
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.Subscribers())

	cancel()
	assert.Equal(t, 0, h.Subscribers())

	_, open := <-ch
	assert.False(t, open, "channel closes on unsubscribe")

	// Publishing after unsubscribe must not panic.
	assert.NotPanics(t, func() {
		h.Publish(types.ProgressEvent{Type: "transfer.done"})
	})

	// Double cancel is harmless.
	assert.NotPanics(t, cancel)
}
