package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/argus/pkg/logger"
)

const clientSendBuffer = 16

// Event is one realtime push frame.
type Event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub broadcasts freshly published cycle results to connected
// websocket clients. Slow clients are dropped rather than allowed to
// back-pressure the broadcast.
type Hub struct {
	logger  *logger.Logger
	metrics *Metrics

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan Event

	// done is closed when Run exits so attach/detach never blocks on
	// a stopped hub.
	done chan struct{}

	upgrader websocket.Upgrader
}

type wsClient struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates a realtime hub.
func NewHub(log *logger.Logger, metrics *Metrics) *Hub {
	return &Hub{
		logger:     log,
		metrics:    metrics,
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Run owns the client set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*wsClient]bool)
	defer func() {
		close(h.done)
		for client := range clients {
			close(client.send)
			client.conn.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			clients[client] = true
			h.metrics.ClientConnected()
		case client := <-h.unregister:
			if clients[client] {
				delete(clients, client)
				close(client.send)
				h.metrics.ClientDisconnected()
			}
		case event := <-h.broadcast:
			for client := range clients {
				select {
				case client.send <- event:
				default:
					delete(clients, client)
					close(client.send)
					h.metrics.ClientDisconnected()
					h.logger.Debug("Dropped slow realtime client")
				}
			}
		}
	}
}

// Broadcast pushes an event to every connected client. Never blocks
// the publisher: when the hub is saturated the event is dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	select {
	case h.broadcast <- Event{Event: event, Payload: payload, Timestamp: time.Now()}:
	default:
		h.logger.Warn("Realtime broadcast queue full, dropping event")
	}
}

// ServeWS upgrades the connection and attaches it to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, send: make(chan Event, clientSendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writeLoop(client)
	go h.readLoop(client)
}

func (h *Hub) writeLoop(client *wsClient) {
	for event := range client.send {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.WithError(err).Error("Failed to encode realtime event")
			continue
		}
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	client.conn.Close()
}

// readLoop drains client frames so pings are answered and closes are
// noticed.
func (h *Hub) readLoop(client *wsClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
