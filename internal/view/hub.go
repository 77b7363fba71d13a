package view

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wormgrid/server/internal/engine"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
)

const (
	writeTimeout  = 5 * time.Second
	sendQueueSize = 8
)

// Hub fans committed tick frames out to connected spectators. Clients
// register under a player id via GET /ws?player=<uuid>; slow clients drop
// frames rather than stall the game loop.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	player uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}, 8),
	}
}

// ServeHTTP upgrades a spectator connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	player, err := uuid.Parse(r.URL.Query().Get("player"))
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{player: player, conn: conn, send: make(chan []byte, sendQueueSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info("viewer connected", zap.String("player", player.String()))

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Broadcast renders and queues one frame per connected client. Called from
// the game loop after each commit; never blocks on the network.
func (h *Hub) Broadcast(v *world.View, result *engine.TickResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	frames := make(map[uuid.UUID][]byte, len(h.clients))
	for c := range h.clients {
		payload, ok := frames[c.player]
		if !ok {
			raw, err := json.Marshal(BuildFrame(v, result, c.player))
			if err != nil {
				h.log.Error("marshal frame", zap.Error(err))
				continue
			}
			payload = raw
			frames[c.player] = raw
		}
		select {
		case c.send <- payload:
		default:
			// Client cannot keep up; skip this frame for it.
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer h.drop(c)
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// readLoop discards inbound messages; the view channel is one-way. It
// exists to notice closes promptly.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.drop(c)
	}
}
