// Package messaging provides abstractions for message broker communication.
// Workers subscribe to submissions and publish delivery outcomes without being
// coupled to a specific broker implementation.
package messaging

import (
	"context"
	"time"
)

// Message represents a message received from or sent to a message broker.
type Message struct {
	// Subject is the topic the message was published to.
	Subject string

	// Data is the raw message payload.
	Data []byte

	// Reply is an optional subject for request/reply patterns.
	Reply string

	// Metadata contains optional key-value pairs for message headers.
	Metadata map[string]string

	// Timestamp is when the message was received.
	Timestamp time.Time
}

// ID returns the Nats-Msg-Id header when the publisher set one.
func (m *Message) ID() string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[HeaderMessageID]
}

// HeaderMessageID is the de-duplication header understood by NATS.
const HeaderMessageID = "Nats-Msg-Id"

// MessageHandler processes a received message.
type MessageHandler func(ctx context.Context, msg *Message) error

// Subscription represents an active subscription to a subject.
type Subscription interface {
	// Unsubscribe stops receiving messages on this subscription.
	Unsubscribe() error

	// Subject returns the subject this subscription is listening to.
	Subject() string

	// IsValid returns true if the subscription is still active.
	IsValid() bool
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends a message to the specified subject. Fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishJSON marshals v and publishes it to subject.
	PublishJSON(ctx context.Context, subject string, v interface{}) error
}

// Subscriber subscribes to messages on subjects.
type Subscriber interface {
	// QueueSubscribe creates a queue subscription.
	// Messages are load-balanced across subscribers in the same queue group.
	QueueSubscribe(subject, queue string, handler MessageHandler) (Subscription, error)
}

// Client combines Publisher and Subscriber.
type Client interface {
	Publisher
	Subscriber

	// Drain gracefully closes the connection, allowing in-flight messages to complete.
	Drain() error

	// IsConnected returns true if the client is connected to the broker.
	IsConnected() bool

	// Close releases any resources and unsubscribes all active subscriptions.
	Close() error
}
