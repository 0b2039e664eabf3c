package ws

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// RefreshEvent tells a connected board that some mutation landed and its
// local copy of the project should be refreshed.
type RefreshEvent struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	ProjectID string `json:"project_id"`
}

// Hub tracks open board connections per project.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]bool)}
}

// Default is the hub the handlers broadcast through.
var Default = NewHub()

func (h *Hub) register(projectID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[*websocket.Conn]bool)
	}
	h.clients[projectID][conn] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(projectID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if clients, exists := h.clients[projectID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, projectID)
		}
	}
	h.mu.Unlock()
}

// BroadcastRefresh notifies every board watching the project. A failed write
// drops that connection.
func (h *Hub) BroadcastRefresh(projectID uint, action string) {
	h.mu.RLock()
	clients, exists := h.clients[projectID]
	if !exists || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	conns := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := RefreshEvent{
		Type:      "refresh",
		Action:    action,
		ProjectID: strconv.FormatUint(uint64(projectID), 10),
	}

	for _, conn := range conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			h.unregister(projectID, conn)
			conn.Close()
		}
	}
}

// Serve runs the read loop for one board connection until it closes.
func (h *Hub) Serve(projectID uint, conn *websocket.Conn) {
	h.register(projectID, conn)

	defer func() {
		h.unregister(projectID, conn)
		conn.Close()
		log.Printf("Board connection closed for project %d", projectID)
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err := conn.WriteJSON(RefreshEvent{
		Type:      "connected",
		Action:    "connected",
		ProjectID: strconv.FormatUint(uint64(projectID), 10),
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for project %d: %v", projectID, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for project %d: %v", projectID, err)
			}
			break
		}
	}
}
