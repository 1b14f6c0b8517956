// Package nats carries submissions and outcome events over NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/telhawk-systems/submission-relay/internal/logging"
	"github.com/telhawk-systems/submission-relay/internal/messaging"
)

// Config holds connection settings for the relay's NATS client.
type Config struct {
	URL           string
	Name          string
	MaxReconnects int // -1 reconnects forever
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns the worker's connection defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "submission-relay",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// Client is a messaging.Client backed by one NATS connection.
//
// Handlers run with a context derived from the client's lifetime: Close
// cancels it, which aborts in-flight downloads and uploads. Each handler
// context carries the message's Nats-Msg-Id as its invocation ID.
type Client struct {
	conn   *nats.Conn
	logger *logging.Logger

	base   context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs []*queueSub
}

// NewClient connects to NATS. A nil logger discards connection events.
func NewClient(cfg Config, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", logging.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", logging.URL(c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return newClient(conn, logger), nil
}

func newClient(conn *nats.Conn, logger *logging.Logger) *Client {
	base, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:   conn,
		logger: logger.With("component", "nats"),
		base:   base,
		cancel: cancel,
	}
}

// Publish sends data to subject under a fresh Nats-Msg-Id, so JetStream
// consumers of outcome events can drop redeliveries.
func (c *Client) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.conn.PublishMsg(outboundMsg(subject, data, uuid.NewString()))
}

// PublishJSON marshals v and publishes it to subject.
func (c *Client) PublishJSON(ctx context.Context, subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.Publish(ctx, subject, data)
}

// QueueSubscribe joins queue on subject. NATS invokes handler serially per
// subscription; handler errors and panics are logged and the message is not
// redelivered.
func (c *Client) QueueSubscribe(subject, queue string, handler messaging.MessageHandler) (messaging.Subscription, error) {
	sub, err := c.conn.QueueSubscribe(subject, queue, c.deliver(handler))
	if err != nil {
		return nil, err
	}

	s := &queueSub{sub: sub}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	return s, nil
}

// deliver adapts a messaging handler to a NATS callback.
func (c *Client) deliver(handler messaging.MessageHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		m := toMessage(msg, time.Now())
		ctx := messageContext(c.base, m)

		defer func() {
			if r := recover(); r != nil {
				c.logger.ErrorContext(ctx, "Message handler panicked",
					logging.Subject(m.Subject),
					"panic", fmt.Sprint(r))
			}
		}()

		if err := handler(ctx, m); err != nil {
			c.logger.ErrorContext(ctx, "Message handler failed",
				logging.Subject(m.Subject),
				logging.Error(err))
		}
	}
}

// Close cancels in-flight handlers, drops subscriptions and closes the connection.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		_ = s.Unsubscribe()
	}
	c.conn.Close()
	return nil
}

// Drain lets in-flight submissions finish before the connection closes.
func (c *Client) Drain() error {
	return c.conn.Drain()
}

// IsConnected reports whether the connection is up.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

type queueSub struct {
	sub *nats.Subscription
}

func (s *queueSub) Unsubscribe() error { return s.sub.Unsubscribe() }
func (s *queueSub) Subject() string    { return s.sub.Subject }
func (s *queueSub) IsValid() bool      { return s.sub.IsValid() }

// messageContext derives a handler context from base. A message without a
// Nats-Msg-Id gets a generated invocation ID.
func messageContext(base context.Context, m *messaging.Message) context.Context {
	return logging.WithInvocationID(base, m.ID())
}

func outboundMsg(subject string, data []byte, id string) *nats.Msg {
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(messaging.HeaderMessageID, id)
	return msg
}

func toMessage(msg *nats.Msg, received time.Time) *messaging.Message {
	m := &messaging.Message{
		Subject:   msg.Subject,
		Data:      msg.Data,
		Reply:     msg.Reply,
		Timestamp: received,
	}
	if len(msg.Header) > 0 {
		m.Metadata = make(map[string]string, len(msg.Header))
		for k := range msg.Header {
			m.Metadata[k] = msg.Header.Get(k)
		}
	}
	return m
}
