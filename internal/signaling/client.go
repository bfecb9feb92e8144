package signaling

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. 64 KB is enough for WebRTC
	// SDP payloads.
	maxMessageSize = 64 * 1024

	// Outbound buffer per connection. Broadcasts that find it full are
	// dropped for this one recipient.
	sendBuffer = 256
)

// Client wraps a single websocket connection. All reads happen on ReadPump's
// goroutine and all writes on WritePump's, so the connection is never used
// concurrently. roomID and name are only touched from the read goroutine.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// Send is the outbound queue drained by WritePump.
	Send chan []byte

	roomID string
	name   string
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) remoteAddr() string {
	if c.Conn == nil {
		return ""
	}
	return c.Conn.RemoteAddr().String()
}

// ReadPump pumps frames from the websocket to the hub. It exits when the
// connection drops, which is the only leave path the protocol has, so the
// exit doubles as the participant-removal hook.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.HandleDisconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Raw bytes, not ReadJSON: signal frames are relayed verbatim and
		// must keep fields the envelope does not declare.
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("read error", "remote", c.remoteAddr(), "err", err)
			}
			return
		}
		c.Hub.HandleEvent(c, raw)
	}
}

// WritePump pumps queued frames to the websocket and keeps the connection
// alive with pings. It exits on the first write failure; ReadPump's close
// of the connection surfaces here as one.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
