package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/quizdash/quizdash-backend/internal"
)

// Client wraps one websocket connection. Writes are serialized through Mu
// because gorilla/websocket allows only one concurrent writer.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
	}
}

// SafeWriteJSON writes v to the connection under the client's write lock.
func (c *Client) SafeWriteJSON(v any) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Hub tracks live connections and their broadcast rooms, one room per game
// PIN. It implements the engine's Gateway contract.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Client
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Client),
		rooms: make(map[string]map[string]*Client),
	}
}

// Register makes a freshly-upgraded connection addressable.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c
}

// Unregister drops a connection and removes it from every room.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
	for pin, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, pin)
		}
	}
}

// JoinRoom seats a registered connection in the room for pin.
func (h *Hub) JoinRoom(connID, pin string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[pin]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[pin] = members
	}
	members[connID] = c
}

// LeaveRoom removes a connection from the room for pin. Unknown rooms and
// members are no-ops.
func (h *Hub) LeaveRoom(connID, pin string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[pin]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, pin)
	}
}

// Broadcast sends msg to every member of the room for pin. The member list
// is snapshotted under the lock and writes happen outside it, so a slow
// client never blocks the hub.
func (h *Hub) Broadcast(pin string, msg internal.Message[any]) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[pin]))
	for _, c := range h.rooms[pin] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if err := c.SafeWriteJSON(msg); err != nil {
			log.Printf("[Hub.Broadcast] Room %s: write to conn %s failed: %v", pin, c.ID, err)
		}
	}
}

// Send delivers msg to a single connection.
func (h *Hub) Send(connID string, msg internal.Message[any]) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.SafeWriteJSON(msg); err != nil {
		log.Printf("[Hub.Send] Write to conn %s failed: %v", connID, err)
	}
}

// RoomSize returns the number of connections in the room for pin.
func (h *Hub) RoomSize(pin string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[pin])
}
