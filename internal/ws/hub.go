package ws

import (
	"context"
	"encoding/json"
	"sync"

	"grapebd/g2g/internal/realtime"

	"github.com/google/uuid"
)

// Client represents a single WebSocket connection of a profile.
type Client struct {
	ProfileID uuid.UUID
	Role      string
	Send      chan []byte
	Hub       *Hub // set so Close() can unregister
	mu        sync.Mutex
	closed    bool
	tables    map[string]struct{}
}

func NewClient(profileID uuid.UUID, role string) *Client {
	return &Client{
		ProfileID: profileID,
		Role:      role,
		Send:      make(chan []byte, 256),
		tables:    make(map[string]struct{}),
	}
}

func (c *Client) Subscribe(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[table] = struct{}{}
}

func (c *Client) Unsubscribe(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, table)
}

func (c *Client) Subscribed(table string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.tables[table]
	return ok
}

// Close drops every subscription and unregisters the client. Safe to call twice.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.tables = make(map[string]struct{})
	hub := c.Hub
	c.mu.Unlock()
	if hub != nil {
		hub.unregister(c)
	}
	close(c.Send)
}

// Hub maintains the set of active clients and fans change events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// profileID -> clients (one profile can have multiple tabs open)
	byProfile map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		byProfile: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byProfile[c.ProfileID] == nil {
		h.byProfile[c.ProfileID] = make(map[*Client]struct{})
	}
	h.byProfile[c.ProfileID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byProfile[c.ProfileID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byProfile, c.ProfileID)
		}
	}
}

// Run forwards events until the channel closes or ctx is done.
func (h *Hub) Run(ctx context.Context, events <-chan realtime.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.Deliver(ev)
		}
	}
}

// ChangeMessage is what a client receives for each change on a subscribed table.
type ChangeMessage struct {
	Type   string          `json:"type"`
	Table  string          `json:"table"`
	Op     string          `json:"op"`
	RowID  uuid.UUID       `json:"row_id"`
	Record json.RawMessage `json:"record,omitempty"`
}

// Deliver sends ev to every connected client that subscribed to its table and is in
// its audience. Slow clients miss the event rather than block the hub.
func (h *Hub) Deliver(ev realtime.ChangeEvent) int {
	data, err := json.Marshal(ChangeMessage{Type: "change", Table: ev.Table, Op: ev.Op, RowID: ev.RowID, Record: ev.Record})
	if err != nil {
		return 0
	}
	h.mu.RLock()
	var targets []*Client
	if len(ev.Audience) == 0 {
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	} else {
		for _, id := range ev.Audience {
			for c := range h.byProfile[id] {
				targets = append(targets, c)
			}
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if !c.Subscribed(ev.Table) {
			continue
		}
		if c.trySend(data) {
			sent++
		}
	}
	return sent
}

func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
