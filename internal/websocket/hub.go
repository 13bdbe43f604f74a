package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"risk-copilot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const auditStreamChannel = "audit_stream"

// Hub fans pipeline decisions out to connected compliance reviewers. Every
// event is a broadcast; the stream has no per-client targeting. Redis
// pub/sub relays events between instances so a reviewer sees decisions
// made on any node.
type Hub struct {
	// Registered reviewer connections, keyed by connection id.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, may be nil.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Reviewer connected", map[string]interface{}{"connection_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
				h.logger.Info("Hub", "Reviewer disconnected", map[string]interface{}{"connection_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an audit event to every connected reviewer and relays it
// to the other instances through Redis.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal audit event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.sendToLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), auditStreamChannel, data)
	}
}

func (h *Hub) sendToLocal(data []byte) {
	h.mu.RLock()
	var dropped []*Client
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			dropped = append(dropped, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dropped {
		h.logger.Warn("Hub", "Send buffer full, dropping reviewer", map[string]interface{}{"connection_id": client.ID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, auditStreamChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for msg := range ch {
		h.sendToLocal([]byte(msg.Payload))
	}
	log.Printf("audit stream redis subscription closed")
}
