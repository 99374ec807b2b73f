package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/identity"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)

// Client is one WebSocket connection. The hub writes into send; writePump
// drains it onto the socket.
type Client struct {
	id        string
	principal identity.Principal
	conn      *websocket.Conn
	hub       *Hub
	logger    *zap.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, principal identity.Principal, logger *zap.Logger) *Client {
	id := ulid.Make().String()
	return &Client{
		id:        id,
		principal: principal,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("connection_id", id),
			zap.String("user_id", principal.SubjectID.String()),
		),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Deliver queues a frame, dropping it when the client has fallen behind.
func (c *Client) Deliver(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) channels() []string {
	chans := []string{UserChannel(c.principal.SubjectID)}
	if c.principal.IsAdmin() {
		chans = append(chans, AdminChannel)
	}
	return chans
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnsubscribeAll(c)
		c.Close()
		c.conn.Close()
		c.logger.Debug("realtime client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("realtime read failed", zap.Error(err))
			}
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			c.deliverEvent(NewEvent(EventPong, nil))
		}
	}
}

func (c *Client) deliverEvent(event Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.Deliver(frame)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
