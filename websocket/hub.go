package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"chatwire/protocol"
)

// Hub tracks live connections per user. Events reach it through the pub/sub
// bridge, never directly from handlers, so fanout works across instances.
type Hub struct {
	clients    map[string]*Client
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	messages   *protocol.Messages
	log        *zap.Logger
	mu         sync.RWMutex
}

// Frame is a client-bound event envelope.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ClientFrame is what clients send over the socket.
type ClientFrame struct {
	Action string `json:"action"`
	ChatID string `json:"chatId,omitempty"`
	Text   string `json:"text,omitempty"`
}

func NewHub(messages *protocol.Messages, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		messages:   messages,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if h.userConns[client.UserID] != nil {
					delete(h.userConns[client.UserID], client)
					if len(h.userConns[client.UserID]) == 0 {
						delete(h.userConns, client.UserID)
					}
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers a raw frame to every connection of one user.
func (h *Hub) SendToUser(userID string, data []byte) {
	h.mu.RLock()
	clients := h.userConns[userID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- data:
		default:
			h.unregister <- client
		}
	}
}

// SendFrame marshals and delivers an event frame to one user.
func (h *Hub) SendFrame(userID string, frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	h.SendToUser(userID, data)
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}
