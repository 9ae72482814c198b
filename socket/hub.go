// Package socket pushes server-side events (document lifecycle, completed AI
// invocations) to the owning user's connected clients over WebSocket.
package socket

import (
	"encoding/json"
	"sync"

	"github.com/Solvent24/wps-ai/pkg/logger"
)

const (
	EventDocumentCreated = "DOCUMENT_CREATED"
	EventDocumentUpdated = "DOCUMENT_UPDATED"
	EventDocumentDeleted = "DOCUMENT_DELETED"
	EventAICompleted     = "AI_COMPLETED"
)

type Event struct {
	Type    string          `json:"type"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans events out to every open connection of the addressed user.
// Clients are write-only consumers; there are no shared rooms.
type Hub struct {
	connections map[string]map[*Client]bool // userID -> open connections
	Broadcast   chan Event
	Register    chan *Client
	Unregister  chan *Client
	mu          sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*Client]bool),
		Broadcast:   make(chan Event, 64),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.connections[client.UserID] == nil {
				h.connections[client.UserID] = make(map[*Client]bool)
			}
			h.connections[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.drop(client)

		case event := <-h.Broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling event: %v", err)
				continue
			}

			// Copy the recipient list so the lock is not held during I/O.
			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.connections[event.UserID]))
			for client := range h.connections[event.UserID] {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					// Send buffer full: the client is lagging, drop it so
					// the hub never blocks.
					logger.Sugar.Warnf("Client for user %s is lagging. Unregistering.", client.UserID)
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[client.UserID][client]; ok {
		delete(h.connections[client.UserID], client)
		close(client.Send)
		if len(h.connections[client.UserID]) == 0 {
			delete(h.connections, client.UserID)
		}
	}
}

// Notify queues an event for every connection the user currently has open.
// Events for users with no connections are dropped.
func (h *Hub) Notify(eventType, userID string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", eventType, err)
		return
	}
	h.Broadcast <- Event{Type: eventType, UserID: userID, Payload: raw}
}
