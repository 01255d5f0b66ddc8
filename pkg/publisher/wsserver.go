package publisher

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/devproxy/rewriteproxy/pkg/logging"
)

// WSServer upgrades GET /api/observe?clientId=X to a WebSocket that streams
// the Hub's REQUEST_START/REQUEST_END events for that client, live.
type WSServer struct {
	hub *Hub
	log *slog.Logger
}

// NewWSServer wraps hub with an HTTP handler exposing it over WebSocket.
func NewWSServer(hub *Hub) *WSServer {
	return &WSServer{hub: hub, log: logging.Nop()}
}

// SetLogger sets the operational logger.
func (s *WSServer) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	} else {
		s.log = logging.Nop()
	}
}

// ServeHTTP implements http.Handler.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "clientId query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Observer UIs are typically served from a different origin
		// (localhost dev server) than the proxy itself.
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "observer closed") }()

	ch, unsubscribe := s.hub.Subscribe(clientID)
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				s.log.Debug("observer write failed, closing", "clientId", clientID, "error", err)
				return
			}
		}
	}
}
