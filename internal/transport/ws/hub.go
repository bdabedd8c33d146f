package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgStateChanged  MessageType = "state_changed"
	MsgSessionClosed MessageType = "session_closed"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to the WebSocket clients watching them
type Hub struct {
	// sessionID -> connections
	conns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every subscriber of a session, or only
// for Target when set. Close drops the subscribers once queued messages are
// handed over.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
	Target    *Connection
	Close     bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Client connected to session %s", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.SessionID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.SessionID)
					}
					log.Printf("Client disconnected from session %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				for conn := range h.conns[msg.SessionID] {
					close(conn.Send)
				}
				delete(h.conns, msg.SessionID)
				h.mu.Unlock()
				continue
			}

			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Printf("WebSocket encode error: %v", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.SessionID] {
				if msg.Target != nil && msg.Target != conn {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Subscribers returns how many clients watch a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[sessionID])
}

// BroadcastToSession sends a message to every client of a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WebSocket encode error: %v", err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// SendTo queues a message for one registered connection. It is ordered with
// the session broadcasts and dropped if the connection is already gone.
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WebSocket encode error: %v", err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: conn.SessionID,
		Message:   &Message{Type: msgType, Payload: data},
		Target:    conn,
	}
}

// DisconnectSession closes every connection of a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, Close: true}
}
