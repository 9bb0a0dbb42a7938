// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/metrics"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// Message types for WebSocket communication.
const (
	MessageTypeInteraction = "interaction"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message represents a WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// outbound pairs a message with the user it belongs to, so fan-out can
// stay scoped to the owner's connections.
type outbound struct {
	userID  int64
	message Message
}

// Hub maintains the set of active clients and delivers each feed message
// to the connections of the user who owns it.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan outbound, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub loop and blocks until the context is canceled.
// Designed for suture supervision: on cancellation all clients are closed
// and ctx.Err() is returned.
//
// Lifecycle events are drained before broadcasts so client state is
// consistent when a message fans out.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.Run(ctx)
}

// String names the service for supervisor logs.
func (h *Hub) String() string {
	return "feed-hub"
}

// BroadcastInteraction queues a persisted event for delivery to the
// owning user's connected clients. Other users never see it. Drops the
// message when the broadcast buffer is full.
func (h *Hub) BroadcastInteraction(event *models.InteractionEvent) {
	msg := outbound{
		userID: event.UserID,
		message: Message{
			Type: MessageTypeInteraction,
			Data: event,
		},
	}

	select {
	case h.broadcast <- msg:
	default:
		metrics.FeedMessagesDropped.Inc()
		logging.Warn().Msg("Feed broadcast buffer full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.FeedConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Feed client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.FeedConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Feed client disconnected")
}

// broadcastToClients delivers a message to the owning user's clients in
// id order. Clients of other users are skipped. A client whose send
// buffer is full is dropped; it can reconnect rather than stall the
// whole feed.
func (h *Hub) broadcastToClients(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.userID == msg.userID {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- msg.message:
			metrics.FeedMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.FeedMessagesDropped.Inc()
	}
	if len(toRemove) > 0 {
		metrics.FeedConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.FeedConnections.Set(0)
	// ctx.Err() is not logged as an error; cancellation is the normal
	// shutdown path.
	logging.Info().
		Str("component", "feed-hub").
		Str("reason", ctx.Err().Error()).
		Int("clients_closed", len(clients)).
		Msg("Feed hub stopped")
}
