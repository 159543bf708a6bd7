package websocket

import (
	"context"
	"errors"

	"movierater/internal/detect"
	"movierater/internal/messaging"
	"movierater/internal/pkg/logger"
)

// Central hub managing all watch connections and rooms.
// Each connection runs its own read and write goroutines; room membership
// only changes inside Run, so the rooms map needs no lock.

// TabSource provides the per-tab watchers.
type TabSource interface {
	Open(tabID string) *detect.Watcher
	Snapshot(ctx context.Context, tabID string, page *detect.Page) error
}

// Requester answers tab messages.
type Requester interface {
	Request(ctx context.Context, tabID, action string) (messaging.Response, error)
}

var errUnknownMessageType = errors.New("unknown message type")

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	tabs   TabSource
	bridge Requester
	log    *logger.Logger
	ctx    context.Context
	rooms  map[string]*Room
	done   chan struct{}
}

// NewHub creates a hub whose requests are bound to ctx. Call Run to start it.
func NewHub(ctx context.Context, tabs TabSource, bridge Requester, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		tabs:       tabs,
		bridge:     bridge,
		log:        log,
		ctx:        ctx,
		rooms:      make(map[string]*Room),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until the hub's context is cancelled, then
// closes every client.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			for tabID, room := range h.rooms {
				room.unsubscribe()
				for _, c := range room.GetClients() {
					_ = c.Close()
				}
				delete(h.rooms, tabID)
			}
			h.log.Info("Watch hub stopped")
			return

		case c := <-h.Register:
			room, ok := h.rooms[c.TabID]
			if ok && room.stopped() {
				// The tab was closed while its old clients were still
				// leaving; the new client follows the tab's next watcher.
				room.unsubscribe()
				delete(h.rooms, c.TabID)
				ok = false
			}
			if !ok {
				room = h.openRoom(c.TabID)
			}
			room.AddUser(c)

			c.sendMessage(NewSystemMessage(c.TabID, "watching tab "+c.TabID))
			if title := room.watcher.Current(); title != "" {
				c.sendMessage(NewTitleMessage(c.TabID, title))
			}

		case c := <-h.Unregister:
			_ = c.Close()
			room, ok := h.rooms[c.TabID]
			if !ok || !room.RemoveUser(c) {
				continue
			}
			if room.GetUserCount() == 0 {
				room.unsubscribe()
				delete(h.rooms, c.TabID)
				h.log.Debug("Room closed", "tab", c.TabID)
			}
		}
	}
}

// openRoom subscribes a new room to the tab's watcher. When the watcher
// stops (the tab was closed) the room's clients are disconnected.
func (h *Hub) openRoom(tabID string) *Room {
	room := NewRoom(tabID, h.log)
	room.watcher = h.tabs.Open(tabID)
	updates, unsubscribe := room.watcher.Subscribe()
	room.unsubscribe = unsubscribe
	h.rooms[tabID] = room

	go func() {
		room.forward(updates)
		for _, c := range room.GetClients() {
			c.sendMessage(NewSystemMessage(tabID, "tab closed"))
			_ = c.Close()
		}
	}()
	return room
}

// register hands c to Run. It reports false once the hub has stopped.
func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// handle serves one client message on the client's read goroutine.
func (h *Hub) handle(c *Client, msg *Message) {
	switch msg.Type {
	case TypeSnapshot:
		page, err := detect.NewPageFromString(msg.URL, msg.HTML)
		if err == nil {
			err = h.tabs.Snapshot(h.ctx, c.TabID, page)
		}
		if err != nil {
			c.sendMessage(NewErrorMessage(c.TabID, err))
		}

	case TypeRequest:
		resp, err := h.bridge.Request(h.ctx, c.TabID, msg.Action)
		if err != nil {
			c.sendMessage(NewErrorMessage(c.TabID, err))
			return
		}
		reply := NewSystemMessage(c.TabID, "")
		reply.Type = TypeResponse
		reply.Action = msg.Action
		reply.Title = resp.Title
		reply.Genre = resp.Genre
		c.sendMessage(reply)

	default:
		c.sendMessage(NewErrorMessage(c.TabID, errUnknownMessageType))
	}
}
