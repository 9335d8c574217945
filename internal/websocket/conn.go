package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Conn wraps a gorilla websocket connection.
type Conn struct {
	ws *websocket.Conn
}

// Upgrade upgrades the HTTP request to a websocket connection and
// registers a session for the client on the hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, clientID string) (*Client, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket connection", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}

	client := &Client{
		Hub:      hub,
		Conn:     &Conn{ws: ws},
		ClientID: clientID,
		Send:     make(chan []byte, 64),
	}
	hub.Register(client)

	go client.writePump()
	go client.readPump()

	return client, nil
}

// readPump drains inbound frames. The notification stream is one-way;
// reads only service pong handling and close detection.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.ws.Close()
	}()

	c.Conn.ws.SetReadLimit(maxMessageSize)
	c.Conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.ws.SetPongHandler(func(string) error {
		c.Conn.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket closed unexpectedly", map[string]interface{}{
					"client_id": c.ClientID,
					"error":     err.Error(),
				})
			}
			return
		}
	}
}

// writePump forwards hub payloads to the peer and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
