package mailer

import (
	"context"

	"github.com/telhawk-systems/submission-relay/internal/logging"
)

// LogNotifier writes notifications to the logger instead of sending them.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Type() string {
	return "log"
}

func (l *LogNotifier) Send(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, "Notification",
		logging.Email(n.To),
		logging.URL(n.Submission.GithubRepoURL),
		logging.Object(n.Location),
		"body", Compose(n),
	)
	return nil
}
