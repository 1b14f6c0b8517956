package messaging

// Subject constants for the relay message bus.
// Follow the pattern: {domain}.{resource}[.{qualifier}]
const (
	SubjectSubmissions = "relay.submissions" // Inbound submission documents
	SubjectOutcomes    = "relay.outcomes"    // Delivery outcomes (append .{outcome})
)

// Queue group names for load-balanced consumers.
const (
	QueueRelayWorkers = "relay-workers"
)

// OutcomeSubject returns the subject an outcome event is published to.
// Example: relay.outcomes.delivered
func OutcomeSubject(outcome string) string {
	return SubjectOutcomes + "." + outcome
}
