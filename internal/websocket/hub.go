package websocket

import (
	"encoding/json"
	"sync"

	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

// Client is one live websocket session for a storefront client. A client
// may hold several sessions (multiple tabs/devices).
type Client struct {
	Hub      *Hub
	Conn     *Conn
	ClientID string
	Send     chan []byte
}

// Hub tracks live sessions per client ID and fans notification payloads
// out to them.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	outbound   chan *outboundMessage

	mu sync.RWMutex
}

type outboundMessage struct {
	ClientID string
	Payload  []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		outbound:   make(chan *outboundMessage, 1024),
	}
}

// Run services the hub channels. Intended to run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = append(h.clients[client.ClientID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"client_id": client.ClientID,
				"sessions":  len(h.clients[client.ClientID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			// A session can be handed to unregister twice: once by the
			// full-buffer drop in the outbound case and once by its own
			// readPump teardown. Close Send only when this exact session
			// was still registered, or the second pass would close a
			// closed channel.
			found := false
			if sessions, ok := h.clients[client.ClientID]; ok {
				remaining := make([]*Client, 0, len(sessions))
				for _, s := range sessions {
					if s == client {
						found = true
						continue
					}
					remaining = append(remaining, s)
				}
				if found {
					if len(remaining) == 0 {
						delete(h.clients, client.ClientID)
					} else {
						h.clients[client.ClientID] = remaining
					}
					close(client.Send)
				}
			}
			h.mu.Unlock()
			if found {
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"client_id": client.ClientID,
				})
			}

		case message := <-h.outbound:
			h.mu.RLock()
			for _, client := range h.clients[message.ClientID] {
				select {
				case client.Send <- message.Payload:
				default:
					// Send buffer is stuck; drop the session asynchronously.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"client_id": message.ClientID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToClient delivers a payload to every live session of the client.
// Clients without a live session just miss the push; the notification
// history endpoint still has the record.
func (h *Hub) SendToClient(clientID string, payload interface{}) error {
	if !h.IsClientOnline(clientID) {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal websocket payload", err, nil)
		return err
	}

	select {
	case h.outbound <- &outboundMessage{ClientID: clientID, Payload: data}:
		return nil
	default:
		logger.Warn("Outbound channel full, message dropped", map[string]interface{}{
			"client_id": clientID,
		})
		return nil // push loss is tolerated, history keeps the record
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsClientOnline reports whether the client has any live session.
func (h *Hub) IsClientOnline(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[clientID]
	return ok
}
