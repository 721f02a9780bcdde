package positionhub

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vek"
	"vek/serializers"
	"vek/veklog"
)

func TestTopicBroadcastsUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic("arena", time.Second)
	go topic.run(ctx)

	client := NewClient("client-1", nil)
	topic.subscribe <- client

	v, err := vek.New(10, -4)
	require.NoError(t, err)
	encoded, err := serializers.EncodePositionUpdate("player-1", v)
	require.NoError(t, err)

	topic.updates <- positionUpdate{entity: "player-1", position: v, encoded: encoded}

	select {
	case data := <-client.send:
		entity, got, err := serializers.DecodePositionUpdate(data)
		require.NoError(t, err)
		assert.Equal(t, "player-1", entity)
		assert.Equal(t, v, got)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	assert.Equal(t, map[string]vek.Vector2{"player-1": v}, topic.positionsCopy())
	assert.Equal(t, int64(1), topic.currentTick())
}

func TestTopicSurvivesDeleteWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := NewTopic("arena", time.Second)

	done := make(chan struct{})
	go func() {
		topic.run(ctx)
		close(done)
	}()

	topic.subscribe <- NewClient("client-1", nil)

	// The delete branch closes all three channels while the topic
	// goroutine is still selecting on them. It must exit cleanly
	// instead of treating the zero values as real traffic.
	close(topic.subscribe)
	close(topic.unsubscribe)
	close(topic.updates)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("topic goroutine did not exit")
	}
}

func TestBroadcastSkipsStalledSubscriber(t *testing.T) {
	topic := NewTopic("arena", 20*time.Millisecond)

	stalled := &Client{id: "stalled", send: make(chan []byte, 1)}
	stalled.send <- []byte("backlog")
	healthy := NewClient("healthy", nil)

	topic.clients[stalled.id] = stalled
	topic.clients[healthy.id] = healthy

	start := time.Now()
	topic.broadcast([]byte("update"))

	// The stalled subscriber costs at most one timeout and never
	// blocks delivery to the others.
	assert.Less(t, time.Since(start), time.Second)
	select {
	case data := <-healthy.send:
		assert.Equal(t, []byte("update"), data)
	default:
		t.Fatal("healthy subscriber missed the broadcast")
	}
}

func TestTopicSeed(t *testing.T) {
	topic := NewTopic("arena", time.Second)
	v, err := vek.New(1, 2)
	require.NoError(t, err)

	topic.seed(map[string]vek.Vector2{"player-1": v})
	assert.Equal(t, v, topic.positionsCopy()["player-1"])
}

func TestDispatchBailsOutAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		clients:     make(map[string]*Client),
		topics:      make(map[string]*Topic),
		operations:  make(chan hubOperation, 1),
		sendTimeout: time.Second,
		log:         veklog.Nop{},
		ctx:         ctx,
		cancel:      cancel,
	}

	// Nothing drains operations and the buffer is already full, the
	// way a busy hub looks right after Close.
	h.operations <- hubOperation{Type: opSendMessage}
	cancel()

	errs := make(chan error, 1)
	go func() {
		errs <- h.Subscribe("client-1", "arena")
	}()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrHubClosed)
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked after shutdown")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.ini")
	body := "[hub]\naddress = 0.0.0.0:9000\nmax_clients = 32\nsend_timeout = 250ms\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", config.Address)
	assert.Equal(t, 32, config.MaxClients)
	assert.Equal(t, 250*time.Millisecond, config.SendTimeout)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.ini")
	require.NoError(t, os.WriteFile(path, []byte("[hub]\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}
