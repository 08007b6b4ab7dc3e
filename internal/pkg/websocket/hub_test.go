package websocket

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishLocationChangeReachesListeners(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	events := make(chan *Event, 1)
	hub.AddListener(events)
	defer hub.RemoveListener(events)

	hub.PublishLocationChange(42, -37.32, -59.13)

	select {
	case event := <-events:
		assert.Equal(t, EventLocationChanged, event.Event)

		change, ok := event.Data.(LocationChange)
		require.True(t, ok)
		assert.Equal(t, int64(42), change.ID)
		assert.Equal(t, -37.32, change.Latitude)
		assert.Equal(t, -59.13, change.Longitude)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestRemovedListenerStopsReceiving(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	events := make(chan *Event, 1)
	hub.AddListener(events)
	hub.RemoveListener(events)

	hub.PublishLocationChange(42, -37.32, -59.13)

	select {
	case <-events:
		t.Fatal("removed listener still received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowListenerDoesNotBlockBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	// Unbuffered with no reader, every send to it would block
	stalled := make(chan *Event)
	hub.AddListener(stalled)
	defer hub.RemoveListener(stalled)

	done := make(chan struct{})
	go func() {
		hub.PublishLocationChange(1, 0, 0)
		hub.PublishLocationChange(2, 0, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled listener")
	}
}

func TestClientCountStartsEmpty(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	assert.Equal(t, 0, hub.ClientCount())
}
