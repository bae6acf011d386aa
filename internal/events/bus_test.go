package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestPublishResultSubmitted(t *testing.T) {
	bus := NewBus(slog.New(slog.DiscardHandler))
	defer bus.Close()

	received := make(chan Envelope, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bus.SubscribeResults(ctx, func(envelope Envelope) {
		received <- envelope
	}); err != nil {
		t.Fatalf("SubscribeResults: %v", err)
	}

	userID := "user-1"
	event := ResultSubmittedEvent{
		ResultID:    7,
		UserID:      &userID,
		Score:       21,
		SubmittedAt: time.Now(),
	}
	if err := bus.PublishResultSubmitted(event); err != nil {
		t.Fatalf("PublishResultSubmitted: %v", err)
	}

	select {
	case envelope := <-received:
		if envelope.Type != EventResultSubmitted {
			t.Errorf("type = %q, want %q", envelope.Type, EventResultSubmitted)
		}
		if envelope.ID == "" {
			t.Error("expected a generated envelope ID")
		}
		var decoded ResultSubmittedEvent
		if err := json.Unmarshal(envelope.Data, &decoded); err != nil {
			t.Fatalf("unmarshal event data: %v", err)
		}
		if decoded.ResultID != 7 || decoded.Score != 21 {
			t.Errorf("decoded = %+v", decoded)
		}
		if decoded.UserID == nil || *decoded.UserID != "user-1" {
			t.Error("userID lost in transit")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
