// Package positionhub is a QUIC pub/sub hub whose topics track
// per-entity positions and broadcast encoded position updates to
// subscribed clients.
package positionhub

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"vek"
	"vek/serializers"
	"vek/store"
	"vek/veklog"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrTopicNotFound  = errors.New("topic not found")
	ErrHubClosed      = errors.New("hub is closed")
)

var bufferPool = &sync.Pool{
	New: func() any {
		return make([]byte, 1024)
	},
}

type hubOperationType int

const (
	opRegisterClient hubOperationType = iota
	opUnregisterClient
	opSendMessage
	opCreateTopic
	opDeleteTopic
	opSubscribe
	opUnsubscribe
	opUpdatePosition
)

type hubOperation struct {
	Type     hubOperationType
	ClientId string
	TopicId  string
	Client   *Client
	Topic    *Topic
	Message  []byte
	Update   positionUpdate
	Code     int
	Response chan error
}

type Hub struct {
	listener     *quic.Listener
	clients      map[string]*Client
	topics       map[string]*Topic
	operations   chan hubOperation
	sendTimeout  time.Duration
	maxClients   int
	snapshots    *store.SnapshotStore
	log          veklog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	clientMu     sync.RWMutex
	topicMu      sync.RWMutex
	onConnect    func(accept func(string), conn quic.Connection)
	onDisconnect func(id string)
	onMessage    func(id string, data []byte)
	closed       bool
	closedMu     sync.RWMutex
}

func NewHub(config Config, tlsConf *tls.Config, quicConf *quic.Config) (*Hub, error) {
	h := &Hub{
		clients:     make(map[string]*Client),
		topics:      make(map[string]*Topic),
		operations:  make(chan hubOperation, 100),
		sendTimeout: config.SendTimeout,
		maxClients:  config.MaxClients,
		log:         veklog.Nop{},
	}

	h.onConnect = func(accept func(string), conn quic.Connection) {
		accept(uuid.New().String())
	}
	h.onDisconnect = func(id string) {
		h.log.Info("client disconnected", "client", id)
	}
	h.onMessage = func(id string, data []byte) {
		h.log.Debug("client message", "client", id, "bytes", len(data))
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.ctx = ctx
	h.cancel = cancel

	go h.run()

	listener, err := quic.ListenAddr(config.Address, tlsConf, quicConf)
	if err != nil {
		cancel()
		return nil, err
	}
	h.listener = listener

	go h.acceptConnections()

	return h, nil
}

// SetLogger replaces the no-op default. Call before the first client
// connects.
func (h *Hub) SetLogger(logger veklog.Logger) {
	if logger != nil {
		h.log = logger
	}
}

// AttachStore persists every position update so topics can be
// rehydrated after a restart. Optional.
func (h *Hub) AttachStore(s *store.SnapshotStore) {
	h.snapshots = s
}

func (h *Hub) acceptConnections() {
	for {
		conn, err := h.listener.Accept(h.ctx)
		if err != nil {
			select {
			case <-h.ctx.Done():
				return
			default:
				h.log.Error("failed accepting connection", "error", err)
				continue
			}
		}

		accept := func(id string) {
			if err := h.registerClient(id, conn); err != nil {
				h.log.Error("failed registering client", "client", id, "error", err)
			}
		}
		go h.onConnect(accept, conn)
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case op := <-h.operations:
			h.handleOperation(op)
		}
	}
}

func (h *Hub) handleOperation(op hubOperation) {
	var err error

	switch op.Type {
	case opRegisterClient:
		h.clientMu.Lock()
		if h.maxClients > 0 && len(h.clients) >= h.maxClients {
			h.clientMu.Unlock()
			err = fmt.Errorf("hub is full, rejecting client %s", op.Client.id)
			op.Client.conn.CloseWithError(quic.ApplicationErrorCode(1), "hub is full")
			break
		}
		h.clients[op.Client.id] = op.Client
		h.clientMu.Unlock()
		go op.Client.ReadPump(h)
		go op.Client.WritePump(h)

	case opUnregisterClient:
		h.clientMu.Lock()
		if client, ok := h.clients[op.ClientId]; ok {
			delete(h.clients, op.ClientId)
			close(client.send)
			client.conn.CloseWithError(quic.ApplicationErrorCode(op.Code), string(op.Message))
		}
		h.clientMu.Unlock()

	case opSendMessage:
		h.clientMu.RLock()
		client, exists := h.clients[op.ClientId]
		h.clientMu.RUnlock()

		if !exists {
			err = ErrClientNotFound
		} else {
			select {
			case client.send <- op.Message:
			case <-time.After(h.sendTimeout):
				err = fmt.Errorf("timeout sending message to client %s", op.ClientId)
			}
		}

	case opCreateTopic:
		h.topicMu.Lock()
		h.topics[op.Topic.id] = op.Topic
		h.topicMu.Unlock()
		go op.Topic.run(h.ctx)

	case opDeleteTopic:
		h.topicMu.Lock()
		if topic, ok := h.topics[op.TopicId]; ok {
			delete(h.topics, op.TopicId)
			close(topic.subscribe)
			close(topic.unsubscribe)
			close(topic.updates)
		}
		h.topicMu.Unlock()

	case opSubscribe:
		err = h.withTopicClient(op, func(topic *Topic, client *Client) error {
			select {
			case topic.subscribe <- client:
				return nil
			case <-time.After(h.sendTimeout):
				return fmt.Errorf("timeout subscribing client %s to topic %s", op.ClientId, op.TopicId)
			}
		})

	case opUnsubscribe:
		err = h.withTopicClient(op, func(topic *Topic, client *Client) error {
			select {
			case topic.unsubscribe <- client:
				return nil
			case <-time.After(h.sendTimeout):
				return fmt.Errorf("timeout unsubscribing client %s from topic %s", op.ClientId, op.TopicId)
			}
		})

	case opUpdatePosition:
		h.topicMu.RLock()
		topic, exists := h.topics[op.TopicId]
		h.topicMu.RUnlock()

		if !exists {
			err = ErrTopicNotFound
		} else {
			select {
			case topic.updates <- op.Update:
			case <-time.After(h.sendTimeout):
				err = fmt.Errorf("timeout updating position on topic %s", op.TopicId)
			}
		}
	}

	if op.Response != nil {
		op.Response <- err
	}
}

func (h *Hub) withTopicClient(op hubOperation, fn func(*Topic, *Client) error) error {
	h.topicMu.RLock()
	topic, topicExists := h.topics[op.TopicId]
	h.topicMu.RUnlock()

	if !topicExists {
		return ErrTopicNotFound
	}

	h.clientMu.RLock()
	client, clientExists := h.clients[op.ClientId]
	h.clientMu.RUnlock()

	if !clientExists {
		return ErrClientNotFound
	}
	return fn(topic, client)
}

func (h *Hub) isClosed() bool {
	h.closedMu.RLock()
	defer h.closedMu.RUnlock()
	return h.closed
}

func (h *Hub) Close() error {
	h.closedMu.Lock()
	h.closed = true
	h.closedMu.Unlock()

	h.cancel()
	return h.listener.Close()
}

// dispatch hands an operation to the hub goroutine. Once the hub shuts
// down nothing drains the operations channel anymore, so both the send
// and the wait bail out on context cancellation instead of blocking.
func (h *Hub) dispatch(op hubOperation) error {
	if h.isClosed() {
		return ErrHubClosed
	}

	response := make(chan error, 1)
	op.Response = response

	select {
	case h.operations <- op:
	case <-h.ctx.Done():
		return ErrHubClosed
	}

	select {
	case err := <-response:
		return err
	case <-h.ctx.Done():
		return ErrHubClosed
	}
}

func (h *Hub) registerClient(clientId string, conn quic.Connection) error {
	return h.dispatch(hubOperation{
		Type:   opRegisterClient,
		Client: NewClient(clientId, conn),
	})
}

func (h *Hub) CloseClient(id string, code int, reason string) error {
	return h.dispatch(hubOperation{
		Type:     opUnregisterClient,
		ClientId: id,
		Code:     code,
		Message:  []byte(reason),
	})
}

func (h *Hub) Send(clientId string, message []byte) error {
	return h.dispatch(hubOperation{
		Type:     opSendMessage,
		ClientId: clientId,
		Message:  message,
	})
}

// CreateTopic registers a topic, rehydrating its positions from the
// attached snapshot store if there is one.
func (h *Hub) CreateTopic(id string) error {
	topic := NewTopic(id, h.sendTimeout)

	if h.snapshots != nil {
		positions, err := h.snapshots.Latest(id)
		if err != nil {
			return err
		}
		topic.seed(positions)
	}

	return h.dispatch(hubOperation{
		Type:  opCreateTopic,
		Topic: topic,
	})
}

func (h *Hub) DeleteTopic(id string) error {
	return h.dispatch(hubOperation{
		Type:    opDeleteTopic,
		TopicId: id,
	})
}

func (h *Hub) Subscribe(clientId string, topicId string) error {
	return h.dispatch(hubOperation{
		Type:     opSubscribe,
		ClientId: clientId,
		TopicId:  topicId,
	})
}

func (h *Hub) Unsubscribe(clientId string, topicId string) error {
	return h.dispatch(hubOperation{
		Type:     opUnsubscribe,
		ClientId: clientId,
		TopicId:  topicId,
	})
}

// UpdatePosition stores the entity's new position on the topic and
// broadcasts it to all subscribers. The vector is already validated by
// construction, so the update itself cannot fail on the value.
func (h *Hub) UpdatePosition(topicId string, entity string, v vek.Vector2) error {
	data, err := serializers.EncodePositionUpdate(entity, v)
	if err != nil {
		return err
	}

	if err := h.dispatch(hubOperation{
		Type:    opUpdatePosition,
		TopicId: topicId,
		Update:  positionUpdate{entity: entity, position: v, encoded: data},
	}); err != nil {
		return err
	}

	if h.snapshots != nil {
		h.topicMu.RLock()
		topic, exists := h.topics[topicId]
		h.topicMu.RUnlock()
		if !exists {
			return ErrTopicNotFound
		}
		if err := h.snapshots.Save(topicId, entity, v, topic.currentTick()); err != nil {
			h.log.Error("failed saving snapshot", "topic", topicId, "entity", entity, "error", err)
		}
	}
	return nil
}

// Positions returns a copy of the topic's current per-entity state.
func (h *Hub) Positions(topicId string) (map[string]vek.Vector2, error) {
	h.topicMu.RLock()
	topic, exists := h.topics[topicId]
	h.topicMu.RUnlock()

	if !exists {
		return nil, ErrTopicNotFound
	}
	return topic.positionsCopy(), nil
}

func (h *Hub) GetClientIds() []string {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) GetTopicIds() []string {
	h.topicMu.RLock()
	defer h.topicMu.RUnlock()

	ids := make([]string, 0, len(h.topics))
	for id := range h.topics {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) GetClientIdsOfTopic(topicId string) ([]string, error) {
	h.topicMu.RLock()
	defer h.topicMu.RUnlock()

	topic, exists := h.topics[topicId]
	if !exists {
		return nil, ErrTopicNotFound
	}
	return topic.getClientIds(), nil
}

func (h *Hub) OnConnect(fn func(accept func(string), conn quic.Connection)) {
	h.onConnect = fn
}

func (h *Hub) OnDisconnect(fn func(id string)) {
	h.onDisconnect = fn
}

func (h *Hub) OnMessage(fn func(id string, data []byte)) {
	h.onMessage = fn
}
