package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"drive-assistant-be/internal/model"
	"drive-assistant-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub tracks connected clients per user and fans notifications out to
// them. Redis pub/sub carries messages to clients connected to other
// instances.
type Hub struct {
	// UserID -> connected clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToCluster()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a notification to every connected client.
func (h *Hub) Broadcast(notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		h.publishToCluster("*", data)
	}
}

// Send delivers a notification to one user's devices, local and remote.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		h.publishToCluster(userID.String(), data)
	}
}

func (h *Hub) publishToCluster(target string, data []byte) {
	payload, _ := json.Marshal(map[string]interface{}{
		"target_user_id": target,
		"message":        json.RawMessage(data),
	})
	h.rdb.Publish(context.Background(), clusterChannel, payload)
}

func (h *Hub) subscribeToCluster() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Cluster msg parse error: %v", err)
			continue
		}

		if payload.TargetUserID == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				h.deliverLocal(clients, payload.Message)
			}
			h.mu.RUnlock()
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()
		if ok {
			h.deliverLocal(clients, payload.Message)
		}
	}
}

func (h *Hub) deliverLocal(clients []*Client, data []byte) {
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			h.unregister <- client
		}
	}
}
