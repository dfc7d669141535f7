package pubsub

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicRunStatus)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	status := RunStatus{State: "searching", Message: "depth 2 of 4"}
	if err := pub.Publish(TopicRunStatus, "searching", status); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case event := <-sub.Events():
		if event.Type != "searching" {
			t.Errorf("Expected event type searching, got %s", event.Type)
		}
		var got RunStatus
		if err := json.Unmarshal(event.Data, &got); err != nil {
			t.Fatalf("Failed to decode event data: %v", err)
		}
		if got.State != "searching" {
			t.Errorf("Expected state searching, got %s", got.State)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestLateSubscriberGetsLastEvent(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	for i := 1; i <= 3; i++ {
		summary := RunSummary{Model: "toy", KeptReactions: i}
		if err := pub.Publish(TopicRunResult, "pruned", summary); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicRunResult)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		if event.Version != 3 {
			t.Errorf("Expected replay of last event (version 3), got version %d", event.Version)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for replayed event")
	}

	// Only the last event is replayed
	select {
	case event := <-sub.Events():
		t.Errorf("Expected no further replay, got version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	pub := NewSSEPublisher()
	pub.Close()

	if err := pub.Publish(TopicRunStatus, "searching", RunStatus{}); err == nil {
		t.Error("Expected error publishing to closed publisher")
	}
	if _, err := pub.Subscribe(context.Background(), TopicRunStatus); err == nil {
		t.Error("Expected error subscribing to closed publisher")
	}
}

func TestWriteSSEFormat(t *testing.T) {
	var b strings.Builder
	event := Event{Topic: TopicRunStatus, Type: "ready", Data: json.RawMessage(`{}`), Version: 1}

	if err := WriteSSE(&b, event); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}

	out := b.String()
	if !strings.HasPrefix(out, "data: ") || !strings.HasSuffix(out, "\n\n") {
		t.Errorf("Malformed SSE frame: %q", out)
	}
}
