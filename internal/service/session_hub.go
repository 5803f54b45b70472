package service

import (
	"context"
	"encoding/json"
	"farsihub_backend/pkg/logger"
	"farsihub_backend/pkg/monitoring"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sessionWriteWait = 10 * time.Second
	sessionPongWait  = 60 * time.Second
	sessionPing      = (sessionPongWait * 9) / 10
	sessionChannel   = "session_events"
)

var sessionUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionEvent tells a connected client that its session snapshot is stale
// and why. The client re-fetches /api/session and re-routes.
type SessionEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

const (
	EventSessionChanged = "SESSION_CHANGED"

	ReasonApproved       = "approved"
	ReasonYearSet        = "year_set"
	ReasonProfileUpdated = "profile_updated"
	ReasonAccountDeleted = "account_deleted"
	ReasonLoggedOut      = "logged_out"
)

type sessionClient struct {
	hub    *SessionHub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func (c *sessionClient) readPump() {
	defer func() {
		c.hub.unsubscribe(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(sessionPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(sessionPongWait))
		return nil
	})
	// The session stream is push-only; inbound frames are drained and
	// dropped so pings and close handshakes keep working.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *sessionClient) writePump() {
	ticker := time.NewTicker(sessionPing)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SessionHub fans session-change events out to every open connection of a
// user. With Redis configured the event goes through a pub/sub channel so
// it reaches connections held by other instances; without Redis it is
// delivered to local connections only.
type SessionHub struct {
	mu      sync.RWMutex
	clients map[string][]*sessionClient

	redis  *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSessionHub(rdb *redis.Client) *SessionHub {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionHub{
		clients: make(map[string][]*sessionClient),
		redis:   rdb,
		ctx:     ctx,
		cancel:  cancel,
	}
}

type sessionPubSubMessage struct {
	UserID string       `json:"userId"`
	Event  SessionEvent `json:"event"`
}

// Run consumes the Redis channel until Stop is called. No-op without Redis.
func (h *SessionHub) Run() {
	if h.redis == nil {
		return
	}
	pubsub := h.redis.Subscribe(h.ctx, sessionChannel)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-h.ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var psMsg sessionPubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
					logger.Log.Error("Session pubsub unmarshal error", zap.Error(err))
					continue
				}
				h.pushLocal(psMsg.UserID, psMsg.Event)
			}
		}
	}()
}

func (h *SessionHub) Stop() {
	h.cancel()
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for _, c := range conns {
			close(c.send)
		}
	}
	h.clients = make(map[string][]*sessionClient)
}

// NotifyUser tells every open connection of a user that its session
// changed. Best effort: a missing or slow connection is skipped, the
// client catches up on its next snapshot fetch.
func (h *SessionHub) NotifyUser(userID, reason string) {
	event := SessionEvent{Type: EventSessionChanged, Reason: reason}
	if h.redis == nil {
		h.pushLocal(userID, event)
		return
	}

	payload, err := json.Marshal(sessionPubSubMessage{UserID: userID, Event: event})
	if err != nil {
		return
	}
	if err := h.redis.Publish(h.ctx, sessionChannel, payload).Err(); err != nil {
		logger.Log.Error("Session pubsub publish error", zap.Error(err))
		h.pushLocal(userID, event)
	}
}

func (h *SessionHub) pushLocal(userID string, event SessionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *SessionHub) subscribe(c *sessionClient) {
	h.mu.Lock()
	h.clients[c.userID] = append(h.clients[c.userID], c)
	h.mu.Unlock()
	monitoring.SessionSubscribers.Inc()
}

func (h *SessionHub) unsubscribe(c *sessionClient) {
	h.mu.Lock()
	conns := h.clients[c.userID]
	for i, other := range conns {
		if other == c {
			conns = append(conns[:i], conns[i+1:]...)
			close(c.send)
			monitoring.SessionSubscribers.Dec()
			break
		}
	}
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	} else {
		h.clients[c.userID] = conns
	}
	h.mu.Unlock()
}

// Subscribers reports the number of open connections for a user.
func (h *SessionHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades an authenticated request to a session event stream.
func (h *SessionHub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := sessionUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &sessionClient{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 8),
		userID: userID,
	}
	h.subscribe(client)
	go client.writePump()
	go client.readPump()
	return nil
}
