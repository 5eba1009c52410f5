package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"tradepost/pkg/logger"
)

// Client is one connected websocket. Subscriptions are scoped to the
// connection and torn down when it closes.
type Client struct {
	userID    string
	conn      *websocket.Conn
	send      chan []byte
	channels  map[string]struct{}
	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		channels: make(map[string]struct{}),
	}
}

// subscribeRequest is the only inbound frame clients send; everything else
// flows server to client.
type subscribeRequest struct {
	Action  string `json:"action"` // "subscribe" or "unsubscribe"
	Channel string `json:"channel"`
}

// ReadPump consumes subscription requests until the connection drops.
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Realtime read error for %s: %v", c.userID, err)
			}
			break
		}

		var req subscribeRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			logger.Debug("Ignoring malformed frame from %s", c.userID)
			continue
		}

		switch req.Action {
		case "subscribe":
			h.Subscribe(c, req.Channel)
		case "unsubscribe":
			h.Unsubscribe(c, req.Channel)
		}
	}
}

// WritePump forwards published frames to the connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		frame, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			logger.Warn("Realtime write error for %s: %v", c.userID, err)
			return
		}
	}
}
