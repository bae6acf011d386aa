package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicResults carries result lifecycle events.
const TopicResults = "results"

// EventResultSubmitted is published after a Result is persisted. Consumers
// use it to invalidate cached statistics.
const EventResultSubmitted = "result.submitted"

type ResultSubmittedEvent struct {
	ResultID    uint      `json:"result_id"`
	UserID      *string   `json:"user_id,omitempty"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Envelope is the wire frame for every event on the bus.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

const eventSource = "aptitude-service"

// Bus is an in-process pub/sub over Watermill's GoChannel transport. The
// deployment is single-process, so no broker is involved; the seam keeps
// publishers unaware of subscribers.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// PublishResultSubmitted emits a result.submitted event.
func (b *Bus) PublishResultSubmitted(event ResultSubmittedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	envelope := Envelope{
		ID:        watermill.NewUUID(),
		Type:      EventResultSubmitted,
		Source:    eventSource,
		Timestamp: time.Now(),
		Data:      data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return b.pubSub.Publish(TopicResults, message.NewMessage(envelope.ID, payload))
}

// SubscribeResults delivers decoded envelopes from the results topic to
// handler until ctx is cancelled. Handler errors are logged; delivery is
// acked either way since the events are advisory.
func (b *Bus) SubscribeResults(ctx context.Context, handler func(Envelope)) error {
	messages, err := b.pubSub.Subscribe(ctx, TopicResults)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicResults, err)
	}

	go func() {
		for msg := range messages {
			var envelope Envelope
			if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
				b.logger.Error("Dropping malformed event", "error", err, "message_id", msg.UUID)
				msg.Ack()
				continue
			}
			handler(envelope)
			msg.Ack()
		}
	}()

	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
