package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before pong wait expires
	MaxMessageSize = 4 << 20             // snapshots carry whole documents
	sendBufferSize = 16
)

var ErrClientClosed = errors.New("client closed")

// Client is one watch connection bound to a tab.
type Client struct {
	ID          string
	TabID       string
	Conn        *websocket.Conn
	SendChannel chan []byte
	Hub         *Hub

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(id, tabID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		TabID:       tabID,
		Conn:        conn,
		SendChannel: make(chan []byte, sendBufferSize),
		Hub:         hub,
		done:        make(chan struct{}),
	}
}

// ReadPump reads client messages until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer c.Hub.unregister(c)

	c.Conn.SetReadLimit(MaxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.log.Warn("Watch connection closed unexpectedly", "client", c.ID, "tab", c.TabID, "error", err)
			}
			return
		}

		msg, err := MessageFromJSON(data)
		if err != nil {
			c.sendMessage(NewErrorMessage(c.TabID, err))
			continue
		}
		c.Hub.handle(c, msg)
	}
}

// WritePump writes queued messages and pings until the client closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-c.SendChannel:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still queued so a final notice precedes the
// close frame.
func (c *Client) flush() {
	for {
		select {
		case data := <-c.SendChannel:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

// SendMessage queues message without blocking. A full buffer drops it.
func (c *Client) SendMessage(message []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.SendChannel <- message:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return errors.New("send buffer full")
	}
}

func (c *Client) sendMessage(msg *Message) {
	data, err := msg.ToJSON()
	if err != nil {
		c.Hub.log.Error("Failed to marshal message", "error", err)
		return
	}
	if err := c.SendMessage(data); err != nil {
		c.Hub.log.Debug("Dropping message", "client", c.ID, "type", msg.Type, "error", err)
	}
}

// Close stops the write pump, which closes the connection.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}
