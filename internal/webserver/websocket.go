package webserver

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"go.uber.org/zap"
)

// WSMessage is the envelope every overlay event travels in.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WSClient represents one connected overlay page.
type WSClient struct {
	conn        *websocket.Conn
	send        chan []byte
	clientID    string
	connectedAt time.Time
}

// WSHub manages all WebSocket connections.
type WSHub struct {
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan WSMessage
	mu         sync.RWMutex
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// overlay runs from OBS browser sources with arbitrary origins
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var wsHub = &WSHub{
	clients:    make(map[*WSClient]bool),
	register:   make(chan *WSClient),
	unregister: make(chan *WSClient),
	broadcast:  make(chan WSMessage, 256),
}

var wsHubOnce sync.Once

// StartWSHub starts the hub loop once.
func StartWSHub() {
	wsHubOnce.Do(func() {
		go wsHub.run()
	})
}

func (h *WSHub) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()

			logger.Info("WebSocket client connected",
				zap.String("clientId", client.clientID),
				zap.Int("total_clients", total))

			sendInitialState(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				remaining := len(h.clients)
				h.mu.Unlock()

				logger.Info("WebSocket client disconnected",
					zap.String("clientId", client.clientID),
					zap.Int("remaining_clients", remaining))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				logger.Error("Failed to marshal WebSocket message", zap.Error(err))
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// client buffer full, disconnect it
					go func(c *WSClient) {
						h.unregister <- c
						c.conn.Close()
					}(client)
				}
			}
			h.mu.RUnlock()

		case <-ticker.C:
			h.mu.RLock()
			for client := range h.clients {
				if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					go func(c *WSClient) {
						h.unregister <- c
						c.conn.Close()
					}(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// sendInitialState pushes the connected envelope plus the current segment
// list, playback status and history so a late-joining overlay renders
// correctly without waiting for the next event.
func sendInitialState(client *WSClient) {
	enqueue := func(msgType string, data interface{}) {
		payload, err := json.Marshal(data)
		if err != nil {
			logger.Error("Failed to marshal initial state", zap.Error(err), zap.String("type", msgType))
			return
		}
		raw, err := json.Marshal(WSMessage{Type: msgType, Data: payload})
		if err != nil {
			return
		}
		select {
		case client.send <- raw:
		default:
		}
	}

	enqueue("connected", map[string]string{"clientId": client.clientID})

	if segmentMirror != nil {
		enqueue("segments-updated", segmentMirror.Snapshot())
	}
	if wheelMachine != nil {
		enqueue("wheel-status", wheelMachine.Status())
		enqueue("spin-history", wheelMachine.History())
	}
}

// BroadcastWSMessage sends a message to all connected clients.
func BroadcastWSMessage(msgType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to marshal WebSocket broadcast data", zap.Error(err))
		return
	}

	msg := WSMessage{
		Type: msgType,
		Data: jsonData,
	}

	select {
	case wsHub.broadcast <- msg:
		logger.Debug("WebSocket message queued for broadcast",
			zap.String("message_type", msgType))
	default:
		logger.Warn("WebSocket broadcast channel full, message dropped",
			zap.String("message_type", msgType))
	}
}

// handleWS upgrades the connection and registers the client.
func handleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = generateClientID()
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	client := &WSClient{
		conn:        conn,
		send:        make(chan []byte, 256),
		clientID:    clientID,
		connectedAt: time.Now(),
	}

	wsHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *WSClient) readPump() {
	defer func() {
		wsHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("WebSocket read error", zap.Error(err))
			}
			break
		}

		logger.Debug("Received WebSocket message from client",
			zap.String("clientId", c.clientID),
			zap.String("message", string(message)))
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func generateClientID() string {
	return fmt.Sprintf("ws-%d-%d", time.Now().UnixNano(), rand.Int63())
}

// RegisterWebSocketRoute registers the /ws endpoint and starts the hub.
func RegisterWebSocketRoute(mux *http.ServeMux) {
	mux.HandleFunc("/ws", handleWS)

	StartWSHub()
}
