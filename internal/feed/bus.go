// Shopgraph - Product Interaction Analytics Engine
// Copyright 2026 D. Reyes (dreyes-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dreyes-io/shopgraph

// Package feed fans persisted interaction events out to live consumers.
//
// Ingestion publishes every stored event onto an in-process watermill bus;
// the feed consumer subscribes and pushes each event to the owning
// user's connected WebSocket clients. Publishing is fire-and-forget: a
// slow or absent consumer never delays the write path.
package feed

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/dreyes-io/shopgraph/internal/logging"
	"github.com/dreyes-io/shopgraph/internal/models"
)

// TopicInteractions carries every persisted interaction event.
const TopicInteractions = "interactions.recorded"

// Bus is the in-process event bus connecting ingestion to feed consumers.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. The buffer absorbs ingest bursts; once it fills,
// publishes drop rather than block the write path.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 256,
		},
		newWatermillLogger(),
	)
	return &Bus{pubsub: pubsub}
}

// PublishInteraction emits a persisted event to feed subscribers. Errors
// are logged, never returned: the event is already durable in the store
// and the response to the writer must not depend on feed delivery.
func (b *Bus) PublishInteraction(event *models.InteractionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Int64("interaction_id", event.ID).Msg("Failed to encode feed event")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicInteractions, msg); err != nil {
		logging.Warn().Err(err).Int64("interaction_id", event.ID).Msg("Failed to publish feed event")
	}
}

// Subscribe returns a channel of messages for the given topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
