// Package pubsub publishes batch summaries to Google Cloud Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// Publisher wraps a Pub/Sub client and publishes JSON-encoded payloads.
type Publisher struct {
	client *pubsub.Client
}

// New creates a Publisher. When defaultTopic is non-empty its existence is
// probed once so a misconfigured deployment fails at startup.
func New(ctx context.Context, client *pubsub.Client, defaultTopic string) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client is required")
	}
	if defaultTopic != "" {
		ok, err := client.Topic(defaultTopic).Exists(ctx)
		if err != nil {
			return nil, fmt.Errorf("probe topic %q: %w", defaultTopic, err)
		}
		if !ok {
			return nil, fmt.Errorf("topic %q does not exist", defaultTopic)
		}
	}
	return &Publisher{client: client}, nil
}

// Publish marshals the payload to JSON and publishes it, returning the
// server-assigned message ID.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("topic is required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	result := p.client.Topic(topic).Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish message: %w", err)
	}
	return id, nil
}
