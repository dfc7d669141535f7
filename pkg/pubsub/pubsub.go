package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published during a reduction run
const (
	TopicRunStatus = "run_status"
	TopicRunResult = "run_result"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`    // e.g. "loading", "searching", "pruned", "failed"
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// RunStatus reports the progress of a reduction run
type RunStatus struct {
	State   string `json:"state"`   // loading, building_graph, searching, pruning, ready, failed
	Message string `json:"message"` // Human-readable status message
}

// RunSummary reports the headline numbers of a finished run
type RunSummary struct {
	Model            string `json:"model"`
	KeptReactions    int    `json:"kept_reactions"`
	RemovedReactions int    `json:"removed_reactions"`
	Metabolites      int    `json:"metabolites"`
}
