package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/telhawk-systems/submission-relay/internal/logging"
)

// DecodeEvent parses a raw SNS notification event.
func DecodeEvent(payload []byte) (events.SNSEvent, error) {
	var event events.SNSEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return events.SNSEvent{}, fmt.Errorf("decode sns event: %w", err)
	}
	return event, nil
}

// HandleSNS processes every embedded message in order and returns one
// Result per record. An event with no records yields no results.
func (h *Handler) HandleSNS(ctx context.Context, event events.SNSEvent) []Result {
	if logging.InvocationIDFromContext(ctx) == "" {
		ctx = logging.WithInvocationID(ctx, "")
	}

	results := make([]Result, 0, len(event.Records))
	for _, record := range event.Records {
		h.logger.DebugContext(ctx, "Processing message",
			slog.String("message_id", record.SNS.MessageID),
			slog.String("topic_arn", record.SNS.TopicArn))
		results = append(results, h.Process(ctx, record.SNS.Message))
	}
	return results
}

// HandleLambda is the Lambda entry point. It always returns nil: an event
// that cannot be decoded is logged and dropped, and a panic inside the
// pipeline is recovered and logged.
func (h *Handler) HandleLambda(ctx context.Context, payload json.RawMessage) (err error) {
	var requestID string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	ctx = logging.WithInvocationID(ctx, requestID)

	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "Handler panic recovered", slog.Any("panic", r))
			err = nil
		}
	}()

	event, decodeErr := DecodeEvent(payload)
	if decodeErr != nil {
		h.logger.ErrorContext(ctx, "Discarding undecodable event", logging.Error(decodeErr))
		return nil
	}

	results := h.HandleSNS(ctx, event)
	h.logger.InfoContext(ctx, "Invocation complete", slog.Int("messages", len(results)))
	return nil
}
