// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

package feed

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// Consumer subscribes to the interaction topic and forwards events to the
// hub. It implements suture.Service via Serve.
type Consumer struct {
	bus *Bus
	hub *Hub
}

// NewConsumer wires the bus to the hub.
func NewConsumer(bus *Bus, hub *Hub) *Consumer {
	return &Consumer{bus: bus, hub: hub}
}

// Serve consumes feed messages until the context is canceled. A malformed
// payload is acked and skipped; redelivering it cannot help.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.bus.Subscribe(ctx, TopicInteractions)
	if err != nil {
		return err
	}

	logging.Info().Str("topic", TopicInteractions).Msg("Feed consumer started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("component", "feed-consumer").Msg("Feed consumer stopped")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				logging.Info().Str("component", "feed-consumer").Msg("Feed subscription closed")
				return ctx.Err()
			}

			var event models.InteractionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed feed message")
				msg.Ack()
				continue
			}

			c.hub.BroadcastInteraction(&event)
			msg.Ack()
		}
	}
}

// String names the service for supervisor logs.
func (c *Consumer) String() string {
	return "feed-consumer"
}
