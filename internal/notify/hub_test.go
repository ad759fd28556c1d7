package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_NotifyReachesSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Notify("blog")

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, "blog", ev1.Collection)
	assert.Equal(t, ev1.ID, ev2.ID)
	assert.NotEmpty(t, ev1.ID)
	assert.False(t, ev1.OccurredAt.IsZero())
}

func TestHub_NotifyWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()
	hub.Notify("blog")
}

func TestHub_FullSubscriberDropsEvents(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	for range subscriberBuffer + 5 {
		hub.Notify("blog")
	}

	// The buffer holds at most subscriberBuffer events; the rest were
	// dropped without blocking Notify.
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)

	hub.Notify("blog")
}
