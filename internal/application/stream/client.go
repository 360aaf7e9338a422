package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-todo/internal/domain/usecase/todosync"
	"go-todo/pkg/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one websocket connection following a todo session
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

// Run follows the session until the peer disconnects. The current state is sent first.
func (c *Client) Run(session todosync.UseCase) {
	c.hub.register(c)

	unsubscribe := session.Subscribe(func(state todosync.State) {
		c.push(MessageState, state)
	})
	c.push(MessageState, session.State())

	go c.writePump()
	c.readPump()

	unsubscribe()
	c.hub.unregister(c)
	c.close()
}

func (c *Client) push(messageType MessageType, data interface{}) {
	payload, err := encode(messageType, data)
	if err != nil {
		log.Error("failed to encode stream message", zap.Error(err))
		return
	}
	c.enqueue(payload)
}

// enqueue drops the frame when the client is too slow to keep up
func (c *Client) enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		log.Warn("stream client is lagging, dropping frame", zap.String("session", c.sessionID))
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump discards inbound frames and keeps the read deadline alive with pongs
func (c *Client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("stream read failed", zap.String("session", c.sessionID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Warn("stream write failed", zap.String("session", c.sessionID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
