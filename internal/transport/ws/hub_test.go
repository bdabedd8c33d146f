package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "connection closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
		return Message{}
	}
}

func TestSendToReachesOnlyTarget(t *testing.T) {
	hub := NewHub()
	first := &Connection{SessionID: "s-1", Send: make(chan []byte, 8), Hub: hub}
	second := &Connection{SessionID: "s-1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(first)
	hub.Register(second)

	hub.BroadcastToSession("s-1", string(MsgStateChanged), map[string]int{"step": 1})
	hub.SendTo(second, MsgStateChanged, map[string]int{"step": 2})
	hub.BroadcastToSession("s-1", string(MsgStateChanged), map[string]int{"step": 3})

	var steps []string
	for i := 0; i < 3; i++ {
		steps = append(steps, string(receive(t, second).Payload))
	}
	assert.Equal(t, []string{`{"step":1}`, `{"step":2}`, `{"step":3}`}, steps)

	assert.JSONEq(t, `{"step":1}`, string(receive(t, first).Payload))
	assert.JSONEq(t, `{"step":3}`, string(receive(t, first).Payload))
}

func TestSendToClosedConnectionIsDropped(t *testing.T) {
	hub := NewHub()
	conn := &Connection{SessionID: "s-1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)

	hub.DisconnectSession("s-1")
	hub.SendTo(conn, MsgStateChanged, map[string]int{"step": 1})

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}
	assert.Eventually(t, func() bool { return hub.Subscribers("s-1") == 0 }, time.Second, 10*time.Millisecond)
}
