package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	fiberws "github.com/gofiber/websocket/v2"
)

// Hub maintains the set of connected dashboard clients and broadcasts
// entity-change events to them so open views can refresh.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages to all clients.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mutex sync.RWMutex
}

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *fiberws.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	userID uint
}

// EntityEvent tells clients that a resource changed and they should refetch.
type EntityEvent struct {
	Type     string `json:"type"` // created, updated, deleted
	Resource string `json:"resource"`
	ID       uint   `json:"id"`
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("WebSocket client connected. User ID: %d", client.userID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("WebSocket client disconnected. User ID: %d", client.userID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastEntityEvent publishes an entity change to all connected clients.
func (h *Hub) BroadcastEntityEvent(eventType, resource string, id uint) {
	message, err := json.Marshal(EntityEvent{Type: eventType, Resource: resource, ID: id})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Println("WebSocket broadcast queue full, dropping event")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeFiberWS attaches a Fiber websocket connection to the hub and blocks
// until the connection closes.
func (h *Hub) ServeFiberWS(conn *fiberws.Conn, userID uint) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16), userID: userID}
	h.register <- client

	done := make(chan struct{})
	go func() {
		defer close(done)
		for message := range client.send {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(fiberws.TextMessage, message); err != nil {
				return
			}
		}
	}()

	// Drain reads so close frames are processed; clients do not send data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister <- client
	<-done
	conn.Close()
}
