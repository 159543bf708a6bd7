package websocket

import (
	"sync"

	"movierater/internal/detect"
	"movierater/internal/pkg/logger"
)

// Room groups the watch clients of one tab. It owns the single watcher
// subscription whose updates are broadcast to every client.
type Room struct {
	TabID       string
	Clients     map[string]*Client
	watcher     *detect.Watcher
	unsubscribe func()
	log         *logger.Logger
	mu          sync.RWMutex
}

func NewRoom(tabID string, log *logger.Logger) *Room {
	return &Room{
		TabID:   tabID,
		Clients: make(map[string]*Client),
		log:     log,
	}
}

// AddUser: adds new client to the room
func (r *Room) AddUser(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] == nil {
		r.log.Info("Client added to room", "tab", r.TabID, "client_id", c.ID)
		r.Clients[c.ID] = c
	} else {
		r.log.Warn("Client already in room", "tab", r.TabID, "client_id", c.ID)
	}
}

// RemoveUser: removes client from the room, reporting whether it was a member
func (r *Room) RemoveUser(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Clients[c.ID] == nil {
		return false
	}
	r.log.Info("Client removed from room", "tab", r.TabID, "client_id", c.ID)
	delete(r.Clients, c.ID)
	return true
}

// stopped reports whether the room's watcher has ended.
func (r *Room) stopped() bool {
	select {
	case <-r.watcher.Done():
		return true
	default:
		return false
	}
}

// Broadcast queues message for every client. Slow clients miss it.
func (r *Room) Broadcast(message []byte) {
	for _, c := range r.GetClients() {
		if err := c.SendMessage(message); err != nil {
			r.log.Debug("Broadcast skipped client", "tab", r.TabID, "client_id", c.ID, "error", err)
		}
	}
}

// forward broadcasts title updates until the subscription closes.
func (r *Room) forward(updates <-chan string) {
	for title := range updates {
		data, err := NewTitleMessage(r.TabID, title).ToJSON()
		if err != nil {
			r.log.Error("Failed to marshal title", "error", err)
			continue
		}
		r.Broadcast(data)
	}
}

func (r *Room) GetUserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}

// GetClients: returns copy of clients list in the room
func (r *Room) GetClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.Clients))
	for _, client := range r.Clients {
		clients = append(clients, client)
	}
	return clients
}
