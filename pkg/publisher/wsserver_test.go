package publisher

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSServerStreamsPublishedEvents(t *testing.T) {
	hub := New()
	srv := httptest.NewServer(NewWSServer(hub))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/observe?clientId=c1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	// Give the server a moment to register the subscription before
	// publishing, since Accept/Subscribe happen asynchronously from Dial
	// returning.
	deadline := time.Now().Add(time.Second)
	for hub.ObserverCount("c1") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ObserverCount("c1"))

	hub.Publish(Event{Type: EventRequestStart, ClientID: "c1", RequestID: "r1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "REQUEST_START")
	assert.Contains(t, string(data), "r1")
}

func TestWSServerMissingClientIDRejected(t *testing.T) {
	hub := New()
	srv := httptest.NewServer(NewWSServer(hub))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/observe"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}
