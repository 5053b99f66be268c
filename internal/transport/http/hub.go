package http

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// EventGateway is the connection-group broadcast capability used to fan out
// coordinator results. Group keys are session PINs. The coordinator never
// calls it while holding a session lock; handlers broadcast returned payloads.
type EventGateway interface {
	AddToGroup(connID, group string)
	SendToConnection(connID, event string, payload any)
	SendToGroup(group, event string, payload any)
}

type outEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan outEvent

	mu     sync.Mutex
	closed bool
}

func (c *client) enqueue(ev outEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- ev:
	default:
		// a slow client must not block fan-out for the rest of the group
		log.Printf("ws: dropping %s event for slow connection %s", ev.Event, c.id)
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub implements EventGateway over gorilla websockets. It mints a connection
// id per attached socket and tracks group membership keyed by PIN.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*client
	groups map[string]map[string]*client
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*client),
		groups: make(map[string]map[string]*client),
	}
}

func (h *Hub) attach(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outEvent, 16),
	}

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()

	go func() {
		for ev := range c.send {
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("ws: write to %s failed: %v", c.id, err)
				return
			}
		}
	}()

	return c
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	delete(h.conns, c.id)
	for group, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()

	c.close()
}

func (h *Hub) AddToGroup(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.groups[group] == nil {
		h.groups[group] = make(map[string]*client)
	}
	h.groups[group][connID] = c
}

func (h *Hub) SendToConnection(connID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.enqueue(outEvent{Event: event, Payload: payload})
}

func (h *Hub) SendToGroup(group, event string, payload any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.groups[group]))
	for _, c := range h.groups[group] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(outEvent{Event: event, Payload: payload})
	}
}
