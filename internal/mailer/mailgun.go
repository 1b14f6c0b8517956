package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds Mailgun delivery settings.
type MailgunConfig struct {
	Domain  string
	APIKey  string
	APIBase string // optional, e.g. mailgun.APIBaseEU
	From    string
	Subject string
	Timeout time.Duration
}

// MailgunNotifier sends notifications through the Mailgun messages API.
type MailgunNotifier struct {
	mg      *mailgun.MailgunImpl
	from    string
	subject string
}

func NewMailgunNotifier(cfg MailgunConfig) *MailgunNotifier {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	mg.SetClient(&http.Client{Timeout: timeout})

	return &MailgunNotifier{
		mg:      mg,
		from:    cfg.From,
		subject: cfg.Subject,
	}
}

func (m *MailgunNotifier) Type() string {
	return "mailgun"
}

func (m *MailgunNotifier) Send(ctx context.Context, n Notification) error {
	message := m.mg.NewMessage(m.from, m.subject, Compose(n), n.To)

	if _, _, err := m.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("send mailgun message: %w", err)
	}
	return nil
}
