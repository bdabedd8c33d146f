package service

// Broadcaster pushes session events to connected clients
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// Message types sent to session subscribers
const (
	MsgStateChanged  = "state_changed"
	MsgSessionClosed = "session_closed"
)
