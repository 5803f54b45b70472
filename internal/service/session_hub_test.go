package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(hub *SessionHub, userID string) *sessionClient {
	return &sessionClient{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: userID,
	}
}

func receiveEvent(t *testing.T, c *sessionClient) SessionEvent {
	t.Helper()
	select {
	case payload := <-c.send:
		var event SessionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return event
	default:
		t.Fatal("no event delivered")
	}
	return SessionEvent{}
}

func TestSessionHubNotifyUser(t *testing.T) {
	hub := NewSessionHub(nil)

	c1 := newTestClient(hub, "u1")
	c2 := newTestClient(hub, "u1")
	other := newTestClient(hub, "u2")
	hub.subscribe(c1)
	hub.subscribe(c2)
	hub.subscribe(other)

	hub.NotifyUser("u1", ReasonApproved)

	for _, c := range []*sessionClient{c1, c2} {
		event := receiveEvent(t, c)
		assert.Equal(t, EventSessionChanged, event.Type)
		assert.Equal(t, ReasonApproved, event.Reason)
	}

	// The other user gets nothing.
	assert.Empty(t, other.send)
}

func TestSessionHubUnsubscribe(t *testing.T) {
	hub := NewSessionHub(nil)

	c1 := newTestClient(hub, "u1")
	c2 := newTestClient(hub, "u1")
	hub.subscribe(c1)
	hub.subscribe(c2)
	assert.Equal(t, 2, hub.Subscribers("u1"))

	hub.unsubscribe(c1)
	assert.Equal(t, 1, hub.Subscribers("u1"))

	hub.NotifyUser("u1", ReasonYearSet)
	assert.Len(t, c2.send, 1)

	hub.unsubscribe(c2)
	assert.Equal(t, 0, hub.Subscribers("u1"))

	// Unsubscribing twice is harmless.
	hub.unsubscribe(c1)
}

func TestSessionHubSlowClientIsSkipped(t *testing.T) {
	hub := NewSessionHub(nil)

	c := &sessionClient{hub: hub, send: make(chan []byte, 1), userID: "u1"}
	hub.subscribe(c)

	hub.NotifyUser("u1", ReasonApproved)
	hub.NotifyUser("u1", ReasonProfileUpdated)
	hub.NotifyUser("u1", ReasonLoggedOut)

	// The full buffer dropped the later events instead of blocking.
	assert.Len(t, c.send, 1)
}
