package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/meetcircle/connections-api/api"
	"github.com/meetcircle/connections-api/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks the live websocket connection per person. A person opens at most
// one connection; a newer one replaces the older.
type Hub struct {
	TicketSecret string

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewHub creates an empty connection hub.
func NewHub(ticketSecret string) *Hub {
	return &Hub{
		TicketSecret: ticketSecret,
		clients:      make(map[string]*websocket.Conn),
	}
}

// ConnectionsHandler upgrades `GET /ws/connections?ticket=` to a websocket.
// Browsers cannot set an Authorization header on the upgrade request, so the
// client presents a short-lived ticket minted by `GET /auth/ws-ticket`.
func (h *Hub) ConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		config.ErrorStatus("ticket is required", http.StatusUnauthorized, w, nil)
		return
	}
	personID, err := api.VerifyWSTicket(ticket, h.TicketSecret)
	if err != nil {
		config.ErrorStatus("invalid ticket", http.StatusUnauthorized, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	if prev, ok := h.clients[personID]; ok {
		prev.Close()
	}
	h.clients[personID] = conn
	h.mu.Unlock()
	zap.S().Infow("websocket connected", "personId", personID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.drop(personID, conn)
		zap.S().Infow("websocket disconnected", "personId", personID)
		return nil
	})

	// drain reads to surface closes; the server never expects client frames
	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.drop(personID, conn)
			conn.Close()
			break
		}
	}
}

// Notify pushes an event to one person if they are connected. Delivery is
// best-effort; a write failure drops the connection.
func (h *Hub) Notify(personID, event string, data interface{}) {
	if h == nil {
		return
	}
	h.mu.Lock()
	conn, ok := h.clients[personID]
	h.mu.Unlock()
	if !ok {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		zap.S().Warnw("websocket write failed", "personId", personID, "event", event, "error", err)
		h.drop(personID, conn)
		conn.Close()
	}
}

func (h *Hub) drop(personID string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[personID] == conn {
		delete(h.clients, personID)
	}
	h.mu.Unlock()
}
