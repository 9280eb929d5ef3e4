package messaging

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Event types
const (
	EventBookingStatus = "booking_status"
	EventPresenceJoin  = "presence_join"
	EventPresenceLeave = "presence_leave"
)

// Event is one message pushed to websocket clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type room struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// Hub fans booking events out to the websocket clients watching each booking.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*room

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Hub) room(bookingID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[bookingID]; ok {
		return r
	}
	r := &room{clients: make(map[*websocket.Conn]bool)}
	h.rooms[bookingID] = r
	return r
}

func (h *Hub) lookup(bookingID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[bookingID]
}

// Broadcast publishes evt to every client watching bookingID.
func (h *Hub) Broadcast(bookingID string, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[ws] marshal %s: %v", evt.Type, err)
		return
	}
	r := h.lookup(bookingID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		_ = c.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(r.clients, c)
			_ = c.Close()
		}
	}
}

// BroadcastStatus publishes a booking_status event.
func (h *Hub) BroadcastStatus(bookingID, status string) {
	h.Broadcast(bookingID, Event{
		Type: EventBookingStatus,
		Data: echo.Map{"booking_id": bookingID, "status": status},
	})
}

// Subscribers returns how many clients watch bookingID.
func (h *Hub) Subscribers(bookingID string) int {
	r := h.lookup(bookingID)
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (h *Hub) register(bookingID string, c *websocket.Conn) {
	r := h.room(bookingID)
	r.mu.Lock()
	r.clients[c] = true
	r.mu.Unlock()
}

func (h *Hub) unregister(bookingID string, c *websocket.Conn) {
	r := h.lookup(bookingID)
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.clients, c)
	empty := len(r.clients) == 0
	r.mu.Unlock()

	if empty {
		h.mu.Lock()
		if h.rooms[bookingID] == r {
			delete(h.rooms, bookingID)
		}
		h.mu.Unlock()
	}
}

// Serve upgrades the request and streams bookingID's events until the
// client disconnects. Callers check that userID may watch the booking.
func (h *Hub) Serve(c echo.Context, bookingID, userID string) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.register(bookingID, ws)
	h.Broadcast(bookingID, Event{Type: EventPresenceJoin, Data: echo.Map{"user_id": userID}})

	// Read loop (discard client messages; protocol is server push)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			h.unregister(bookingID, ws)
			_ = ws.Close()
			h.Broadcast(bookingID, Event{Type: EventPresenceLeave, Data: echo.Map{"user_id": userID}})
			break
		}
	}
	return nil
}
