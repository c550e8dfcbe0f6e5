package sse

import (
	"context"
	"sync"

	"wallet_live/internal/metrics"
	"wallet_live/internal/model"
)

// Subscriber is one open push channel. A user holds at most one; a newer
// subscription closes the older one's channel.
type Subscriber struct {
	UserID int64
	Ch     chan model.PushMessage
}

func NewSubscriber(userID int64) *Subscriber {
	return &Subscriber{UserID: userID, Ch: make(chan model.PushMessage, 16)}
}

type Hub struct {
	register   chan *Subscriber
	unregister chan *Subscriber
	broadcast  chan model.PushMessage
	users      map[int64]*Subscriber
	mu         sync.RWMutex
	metrics    *metrics.Server
}

func NewHub(m *metrics.Server) *Hub {
	return &Hub{
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan model.PushMessage, 64),
		users:      make(map[int64]*Subscriber),
		metrics:    m,
	}
}

func (h *Hub) Register(sub *Subscriber) {
	h.register <- sub
}

func (h *Hub) Unregister(sub *Subscriber) {
	h.unregister <- sub
}

// Broadcast delivers msg to msg.UserID, or to every subscriber when UserID
// is zero.
func (h *Hub) Broadcast(msg model.PushMessage) {
	h.broadcast <- msg
}

// ConnectedCount is the number of users with an open channel.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.register:
			h.addSubscriber(sub)
		case sub := <-h.unregister:
			h.removeSubscriber(sub)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) addSubscriber(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.users[sub.UserID]; ok && prev != sub {
		close(prev.Ch)
	}
	h.users[sub.UserID] = sub
	h.observe()
}

func (h *Hub) removeSubscriber(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[sub.UserID] != sub {
		return
	}
	delete(h.users, sub.UserID)
	h.observe()
}

func (h *Hub) observe() {
	if h.metrics != nil {
		h.metrics.ConnectedClients.Set(float64(len(h.users)))
	}
}

func (h *Hub) deliver(msg model.PushMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if msg.UserID != 0 {
		if sub, ok := h.users[msg.UserID]; ok {
			send(sub, msg)
		}
		return
	}
	for _, sub := range h.users {
		send(sub, msg)
	}
}

func send(sub *Subscriber, msg model.PushMessage) {
	select {
	case sub.Ch <- msg:
	default:
		// Drop if the subscriber is too slow.
	}
}
