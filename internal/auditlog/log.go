package auditlog

import (
	"context"
	"log/slog"

	"github.com/telhawk-systems/submission-relay/internal/logging"
)

// LogRecorder writes records to the structured logger.
type LogRecorder struct {
	logger *logging.Logger
}

func NewLogRecorder(logger *logging.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (l *LogRecorder) Type() string {
	return "log"
}

func (l *LogRecorder) Record(ctx context.Context, rec Record) error {
	l.logger.InfoContext(ctx, "Delivery record",
		logging.Email(rec.Email),
		slog.String("delivery_status", rec.Status),
		slog.Int64("sent_at", rec.SentAtMillis()),
	)
	return nil
}
