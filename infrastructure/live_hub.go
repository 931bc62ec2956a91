package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tambola/events"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	clientSendBuffer = 64
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
)

// LiveMessage is the frame pushed to websocket subscribers
type LiveMessage struct {
	Type   events.EventType `json:"type"`
	GameID int64            `json:"gameId"`
	Data   events.Event     `json:"data"`
}

type liveClient struct {
	conn   *websocket.Conn
	send   chan []byte
	gameID int64 // 0 receives every game
	once   sync.Once
}

func (c *liveClient) close() {
	c.once.Do(func() { close(c.send) })
}

// LiveHub fans committed game events out to websocket clients. A client
// that cannot keep up is disconnected instead of slowing the broadcast.
type LiveHub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*liveClient]struct{}
}

// NewLiveHub creates an empty hub
func NewLiveHub() *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*liveClient]struct{}),
	}
}

// Attach subscribes the hub to every event on the bus
func (h *LiveHub) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(_ context.Context, event events.Event) {
		h.Broadcast(event)
	})
}

// ClientCount returns the number of connected clients
func (h *LiveHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues event for every client subscribed to its game
func (h *LiveHub) Broadcast(event events.Event) {
	data, err := json.Marshal(LiveMessage{Type: event.Type(), GameID: event.Game(), Data: event})
	if err != nil {
		log.WithError(err).Error("Failed to encode live event")
		return
	}

	var slow []*liveClient
	h.mu.RLock()
	for c := range h.clients {
		if c.gameID != 0 && c.gameID != event.Game() {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.WithField("remote", c.conn.RemoteAddr().String()).Warn("Dropping slow live client")
		h.unregister(c)
	}
}

// ServeHTTP upgrades the request to a websocket. The optional game query
// parameter limits the stream to one game.
func (h *LiveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var gameID int64
	if raw := r.URL.Query().Get("game"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}
		gameID = id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := &liveClient{
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
		gameID: gameID,
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	log.WithFields(log.Fields{
		"remote": conn.RemoteAddr().String(),
		"gameId": gameID,
	}).Debug("Live client connected")

	go h.writePump(client)
	go h.readPump(client)
}

func (h *LiveHub) unregister(c *liveClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// readPump discards client frames and detects disconnects
func (h *LiveHub) readPump(c *liveClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LiveHub) writePump(c *liveClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
