package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/monitoring"
)

// EventsHub manages WebSocket connections for the live monitoring stream
type EventsHub struct {
	// Registered clients
	clients map[*eventClient]bool

	// Register requests from clients
	register chan *eventClient

	// Unregister requests from clients
	unregister chan *eventClient

	// Outbound messages for all clients
	broadcast chan []byte

	// Stop channel
	stopChan chan struct{}

	logger *logrus.Logger
	mu     sync.RWMutex
}

// eventClient represents a WebSocket client connection
type eventClient struct {
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	clientID string
	hub      *EventsHub
	lastPing time.Time
}

// EventMessage represents a message sent over the event stream
type EventMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	// Event stream message types
	MessageTypeMetricsSnapshot = "metrics_snapshot"
	MessageTypeDatasetReloaded = "dataset_reloaded"
	MessageTypeSystemAlert     = "system_alert"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// NewEventsHub creates a new events hub
func NewEventsHub(logger *logrus.Logger) *EventsHub {
	return &EventsHub{
		clients:    make(map[*eventClient]bool),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		broadcast:  make(chan []byte, 256),
		stopChan:   make(chan struct{}),
		logger:     logger,
	}
}

// Start runs the events hub
func (h *EventsHub) Start() {
	h.logger.Info("Starting events hub")

	go h.cleanupRoutine()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.stopChan:
			h.logger.Info("Events hub stopping")
			return
		}
	}
}

// Stop stops the events hub and closes all client connections
func (h *EventsHub) Stop() {
	close(h.stopChan)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = make(map[*eventClient]bool)
}

// HandleWebSocket handles WebSocket connection requests
func (h *EventsHub) HandleWebSocket(w http.ResponseWriter, r *http.Request, clientID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &eventClient{
		conn:     conn,
		send:     make(chan []byte, 256),
		clientID: clientID,
		hub:      h,
		lastPing: time.Now(),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastMetrics broadcasts a metrics snapshot to all clients
func (h *EventsHub) BroadcastMetrics(summary monitoring.Summary) {
	h.broadcastToAll(&EventMessage{
		Type:      MessageTypeMetricsSnapshot,
		Data:      summary,
		Timestamp: time.Now(),
	})
}

// BroadcastDatasetReloaded announces that a new catalog snapshot is live
func (h *EventsHub) BroadcastDatasetReloaded(movieCount int) {
	h.broadcastToAll(&EventMessage{
		Type:      MessageTypeDatasetReloaded,
		Data:      map[string]interface{}{"movies": movieCount},
		Timestamp: time.Now(),
	})
}

// BroadcastSystemAlert broadcasts a system-wide alert
func (h *EventsHub) BroadcastSystemAlert(level string, message string) {
	h.broadcastToAll(&EventMessage{
		Type: MessageTypeSystemAlert,
		Data: map[string]interface{}{
			"level":   level, // "info", "warning", "error"
			"message": message,
		},
		Timestamp: time.Now(),
	})
}

// registerClient registers a new client
func (h *EventsHub) registerClient(client *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Infof("Event stream client connected: client=%s", client.clientID)

	welcomeMsg := &EventMessage{
		Type:      "connected",
		Data:      map[string]interface{}{"client_id": client.clientID},
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(welcomeMsg); err == nil {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// unregisterClient unregisters a client
func (h *EventsHub) unregisterClient(client *eventClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Infof("Event stream client disconnected: client=%s", client.clientID)
	}
}

// broadcastMessage delivers a raw message to every connected client
func (h *EventsHub) broadcastMessage(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// broadcastToAll queues a message for every connected client
func (h *EventsHub) broadcastToAll(message *EventMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Errorf("Failed to marshal event message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("Broadcast channel full, dropping message")
	}
}

// cleanupRoutine periodically cleans up inactive connections
func (h *EventsHub) cleanupRoutine() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.cleanupInactiveClients()
		case <-h.stopChan:
			return
		}
	}
}

// cleanupInactiveClients removes clients that haven't pinged recently
func (h *EventsHub) cleanupInactiveClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Minute)

	for client := range h.clients {
		if client.lastPing.Before(cutoff) {
			h.logger.Infof("Cleaning up inactive event stream client: client=%s", client.clientID)
			close(client.send)
			client.conn.Close()
			delete(h.clients, client)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClientID generates an identifier for an anonymous client
func NewClientID() string {
	return fmt.Sprintf("client_%d", time.Now().UnixNano())
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// readPump pumps messages from the WebSocket connection to the hub
func (c *eventClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait)) // Ignore deadline errors
	c.conn.SetPongHandler(func(string) error {
		c.lastPing = time.Now()
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait)) // Ignore deadline errors
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *eventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait)) // Ignore deadline errors
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{}) // Ignore close message errors
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message) // Ignore write errors in websocket

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'}) // Ignore write errors
				_, _ = w.Write(<-c.send)     // Ignore write errors
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait)) // Ignore deadline errors
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage handles incoming messages from the client
func (c *eventClient) handleMessage(message []byte) {
	var msg map[string]interface{}
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.logger.Warnf("Invalid WebSocket message from client %s: %v", c.clientID, err)
		return
	}

	msgType, ok := msg["type"].(string)
	if !ok {
		return
	}

	switch msgType {
	case "ping":
		c.lastPing = time.Now()

	case "subscribe":
		if topics, ok := msg["topics"].([]interface{}); ok {
			c.hub.logger.Debugf("Client %s subscribing to topics: %v", c.clientID, topics)
		}
	}
}
