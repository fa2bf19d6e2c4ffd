package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tilepath/internal/config"
)

const (
	// wsWriteWait is the time allowed to write one message
	wsWriteWait = 10 * time.Second

	// wsSendBuffer is the per-client outgoing queue length
	wsSendBuffer = 32
)

// wsRequest is one path query sent over the socket.
type wsRequest struct {
	ID     string    `json:"id" validate:"max=64"`
	From   *pointDTO `json:"from" validate:"required"`
	To     *pointDTO `json:"to" validate:"required"`
	Smooth *bool     `json:"smooth"`
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	id     string
	conn   *websocket.Conn
	ip     string
	send   chan []byte
	closed chan struct{} // closed by the hub when the client is dropped
}

// QueryHub serves path queries over WebSocket connections with DoS protection.
// Every text message is a query; every reply carries the query's id.
type QueryHub struct {
	pf              PathfinderInterface
	smoothByDefault bool
	maxTotal        int
	maxMessageBytes int64

	clients    map[string]*wsClient
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	sockets  *SocketSlots
	upgrader websocket.Upgrader
}

// NewQueryHub creates a hub. Call Run before accepting connections.
func NewQueryHub(pf PathfinderInterface, limits config.ResourceLimits, origins OriginPolicy, smoothByDefault bool) *QueryHub {
	h := &QueryHub{
		pf:              pf,
		smoothByDefault: smoothByDefault,
		maxTotal:        limits.MaxWSConnectionsTotal,
		maxMessageBytes: limits.MaxBodyBytes,
		clients:         make(map[string]*wsClient),
		register:        make(chan *wsClient),
		unregister:      make(chan *wsClient),
		done:            make(chan struct{}),
		sockets:         NewSocketSlots(limits.MaxWSConnectionsPerIP),
	}
	if h.maxMessageBytes <= 0 {
		h.maxMessageBytes = 64 * 1024
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origins.Allowed(origin) {
				return true
			}

			// Log rejected origin for security monitoring
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run processes registrations until Stop is called.
func (h *QueryHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client %s connected from %s (%d total)", client.id, client.ip, count)
			UpdateWSConnections(count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				h.sockets.Release(client.ip)
				delete(h.clients, client.id)
				close(client.closed)
			}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client %s disconnected (%d remaining)", client.id, count)
			UpdateWSConnections(count)

		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				h.sockets.Release(client.ip)
				close(client.closed)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return
		}
	}
}

// Stop disconnects every client and ends Run.
func (h *QueryHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *QueryHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *QueryHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.maxTotal > 0 && h.ClientCount() >= h.maxTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", h.maxTotal)
		RecordConnectionRejected("ws_total_limit")
		writeError(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.sockets.Acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		writeError(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.sockets.Release(ip)
		return
	}
	conn.SetReadLimit(h.maxMessageBytes)

	client := &wsClient{
		id:     uuid.NewString(),
		conn:   conn,
		ip:     ip,
		send:   make(chan []byte, wsSendBuffer),
		closed: make(chan struct{}),
	}

	select {
	case h.register <- client:
	case <-h.done:
		h.sockets.Release(ip)
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

// readPump answers queries until the connection fails.
func (h *QueryHub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		IncrementWSMessages("in")

		reply, err := json.Marshal(h.answer(message))
		if err != nil {
			continue
		}

		select {
		case c.send <- reply:
		case <-c.closed:
			return
		default:
			// Client is not reading; drop it rather than buffer without bound
			log.Printf("⚠️ WebSocket client %s too slow, disconnecting", c.id)
			return
		}
	}
}

// writePump drains the send queue until the hub drops the client, then
// closes the connection.
func (h *QueryHub) writePump(c *wsClient) {
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			IncrementWSMessages("out")
		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// answer runs one query message.
func (h *QueryHub) answer(message []byte) PathResponse {
	var req wsRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return PathResponse{Error: "invalid request: " + err.Error()}
	}
	if err := requestValidate.Struct(&req); err != nil {
		return PathResponse{ID: req.ID, Error: validationError(err).Error()}
	}

	smooth := h.smoothByDefault
	if req.Smooth != nil {
		smooth = *req.Smooth
	}

	start := time.Now()
	res := h.pf.FindPath(req.From.point(), req.To.point())
	RecordQuery(res, time.Since(start))

	resp := newPathResponse(h.pf, res, smooth)
	resp.ID = req.ID
	return resp
}
