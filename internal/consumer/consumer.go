// Package consumer feeds submissions from the message bus into the relay handler.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/telhawk-systems/submission-relay/internal/logging"
	"github.com/telhawk-systems/submission-relay/internal/messaging"
	"github.com/telhawk-systems/submission-relay/internal/relay"
)

// Processor handles one submission document. *relay.Handler satisfies it.
type Processor interface {
	Process(ctx context.Context, text string) relay.Result
}

// Consumer subscribes a Processor to the submissions subject.
type Consumer struct {
	subscriber messaging.Subscriber
	processor  Processor
	subject    string
	queue      string
	logger     *logging.Logger

	mu   sync.Mutex
	subs []messaging.Subscription
}

// New creates a consumer. Empty subject and queue fall back to
// relay.submissions and relay-workers.
func New(subscriber messaging.Subscriber, processor Processor, subject, queue string, logger *logging.Logger) *Consumer {
	if subject == "" {
		subject = messaging.SubjectSubmissions
	}
	if queue == "" {
		queue = messaging.QueueRelayWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Consumer{
		subscriber: subscriber,
		processor:  processor,
		subject:    subject,
		queue:      queue,
		logger:     logger.With(slog.String("component", "consumer")),
	}
}

// Start joins the queue group.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.subscriber.QueueSubscribe(c.subject, c.queue, c.handleSubmission)
	if err != nil {
		return fmt.Errorf("failed to subscribe to submissions: %w", err)
	}

	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Consumer started",
		logging.Subject(c.subject),
		slog.String("queue_group", c.queue))
	return nil
}

// Stop leaves the queue group.
func (c *Consumer) Stop() error {
	c.logger.Info("Stopping consumer")

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("Failed to unsubscribe", logging.Error(err))
		}
	}
	c.subs = nil
	return nil
}

// Active reports whether every subscription is still valid.
func (c *Consumer) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.subs) == 0 {
		return false
	}
	for _, sub := range c.subs {
		if !sub.IsValid() {
			return false
		}
	}
	return true
}

// handleSubmission never returns an error: outcomes are reported by the
// relay handler and the message is not redelivered.
func (c *Consumer) handleSubmission(ctx context.Context, msg *messaging.Message) error {
	if logging.InvocationIDFromContext(ctx) == "" {
		ctx = logging.WithInvocationID(ctx, msg.ID())
	}
	res := c.processor.Process(ctx, string(msg.Data))

	c.logger.DebugContext(ctx, "Submission processed",
		logging.Subject(msg.Subject),
		logging.Outcome(string(res.Outcome)))
	return nil
}
