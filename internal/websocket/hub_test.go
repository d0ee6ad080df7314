package websocket

import (
	"testing"
	"time"

	"notekeeper-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (h *Hub) hasClients(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func TestSendDropsSlowClientWithoutCrashingHub(t *testing.T) {
	hub := NewHub(nil, nopLogger{})
	go hub.Run()

	userID := uuid.New()
	// Unbuffered Send with no reader, so the first delivery hits the full-
	// buffer path.
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte)}
	hub.register <- client

	assert.Eventually(t, func() bool { return hub.hasClients(userID) },
		time.Second, 10*time.Millisecond)

	hub.Send(userID, &dto.ActivityResponse{Id: uuid.New()})

	assert.Eventually(t, func() bool { return !hub.hasClients(userID) },
		time.Second, 10*time.Millisecond)

	// Only the unregister path closed the channel, exactly once.
	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was never closed")
	}

	// A second delivery to the now-departed user must not touch the closed
	// channel or panic the hub goroutine.
	hub.Send(userID, &dto.ActivityResponse{Id: uuid.New()})

	other := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- other
	assert.Eventually(t, func() bool { return hub.hasClients(userID) },
		time.Second, 10*time.Millisecond)

	hub.Send(userID, &dto.ActivityResponse{Id: uuid.New()})
	select {
	case msg := <-other.Send:
		assert.Contains(t, string(msg), `"type":"activity"`)
	case <-time.After(time.Second):
		t.Fatal("healthy client never received the delivery")
	}
}
