package publisher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribedClientOnly(t *testing.T) {
	h := New()
	chA, unsubA := h.Subscribe("clientA")
	defer unsubA()
	chB, unsubB := h.Subscribe("clientB")
	defer unsubB()

	h.Publish(Event{Type: EventRequestStart, ClientID: "clientA", RequestID: "r1"})

	select {
	case ev := <-chA:
		assert.Equal(t, "r1", ev.RequestID)
	case <-time.After(time.Second):
		t.Fatal("expected event on clientA")
	}

	select {
	case <-chB:
		t.Fatal("clientB should not receive clientA's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishWithNoObserversDoesNotBlock(t *testing.T) {
	h := New()
	done := make(chan struct{})
	go func() {
		h.Publish(Event{Type: EventRequestEnd, ClientID: "nobody"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no observers")
	}
}

func TestPublishDropsWhenObserverQueueFull(t *testing.T) {
	h := New()
	ch, unsub := h.Subscribe("clientA")
	defer unsub()

	for i := 0; i < eventQueueSize+10; i++ {
		h.Publish(Event{Type: EventRequestStart, ClientID: "clientA"})
	}

	require.Len(t, ch, eventQueueSize)
}

func TestUnsubscribeRemovesObserverAndClosesChannel(t *testing.T) {
	h := New()
	ch, unsub := h.Subscribe("clientA")
	assert.Equal(t, 1, h.ObserverCount("clientA"))

	unsub()
	assert.Equal(t, 0, h.ObserverCount("clientA"))

	_, ok := <-ch
	assert.False(t, ok)
}
