package positionhub

import (
	"context"
	"sync"
	"time"

	"vek"
)

type positionUpdate struct {
	entity   string
	position vek.Vector2
	encoded  []byte
}

// Topic is a broadcast channel plus the current position of every
// entity on it. State mutations run on the topic goroutine.
type Topic struct {
	id          string
	clients     map[string]*Client
	positions   map[string]vek.Vector2
	tick        int64
	sendTimeout time.Duration
	subscribe   chan *Client
	unsubscribe chan *Client
	updates     chan positionUpdate
	mu          sync.RWMutex
}

func NewTopic(id string, sendTimeout time.Duration) *Topic {
	if sendTimeout <= 0 {
		sendTimeout = time.Second
	}
	return &Topic{
		id:          id,
		clients:     make(map[string]*Client),
		positions:   make(map[string]vek.Vector2),
		sendTimeout: sendTimeout,
		subscribe:   make(chan *Client),
		unsubscribe: make(chan *Client),
		updates:     make(chan positionUpdate),
	}
}

// seed loads rehydrated positions before the topic goroutine starts.
func (t *Topic) seed(positions map[string]vek.Vector2) {
	t.mu.Lock()
	for entity, v := range positions {
		t.positions[entity] = v
	}
	t.mu.Unlock()
}

// run exits when the context is cancelled or any of the topic's
// channels is closed, so deleting a topic can close them without
// racing the select.
func (t *Topic) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client, ok := <-t.subscribe:
			if !ok {
				return
			}
			t.mu.Lock()
			t.clients[client.id] = client
			t.mu.Unlock()

		case client, ok := <-t.unsubscribe:
			if !ok {
				return
			}
			t.mu.Lock()
			delete(t.clients, client.id)
			t.mu.Unlock()

		case update, ok := <-t.updates:
			if !ok {
				return
			}
			t.mu.Lock()
			t.positions[update.entity] = update.position
			t.tick++
			t.mu.Unlock()

			t.broadcast(update.encoded)
		}
	}
}

// broadcast never waits longer than sendTimeout on any one subscriber;
// a stalled client drops the update instead of stalling the topic.
func (t *Topic) broadcast(encoded []byte) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, client := range t.clients {
		select {
		case client.send <- encoded:
		case <-time.After(t.sendTimeout):
		}
	}
}

func (t *Topic) positionsCopy() map[string]vek.Vector2 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]vek.Vector2, len(t.positions))
	for entity, v := range t.positions {
		out[entity] = v
	}
	return out
}

func (t *Topic) currentTick() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tick
}

func (t *Topic) getClientIds() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.clients))
	for id := range t.clients {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	return ids
}
