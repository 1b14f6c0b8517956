package models

import "time"

// Outcome is the terminal state of processing one submission.
type Outcome string

const (
	OutcomeDelivered      Outcome = "delivered"
	OutcomeMalformed      Outcome = "malformed"
	OutcomeInvalidURL     Outcome = "invalid_url"
	OutcomeDownloadFailed Outcome = "download_failed"
	OutcomeRejected       Outcome = "rejected"
	OutcomeUploadFailed   Outcome = "upload_failed"
)

// FailureClass groups outcomes by the kind of failure that produced them.
type FailureClass string

const (
	FailureNone       FailureClass = ""
	FailureValidation FailureClass = "validation"
	FailureTransport  FailureClass = "transport"
	FailureStorage    FailureClass = "storage"
	FailureRejection  FailureClass = "rejection"
)

// Class returns the failure class of the outcome.
func (o Outcome) Class() FailureClass {
	switch o {
	case OutcomeMalformed, OutcomeInvalidURL:
		return FailureValidation
	case OutcomeDownloadFailed:
		return FailureTransport
	case OutcomeUploadFailed:
		return FailureStorage
	case OutcomeRejected:
		return FailureRejection
	default:
		return FailureNone
	}
}

// Message is the human-readable sentence sent to the submitter.
func (o Outcome) Message() string {
	switch o {
	case OutcomeDelivered:
		return "Release download and upload successful"
	case OutcomeInvalidURL:
		return "Invalid URL: the submission link must point to a release archive"
	case OutcomeDownloadFailed:
		return "Error downloading release from GitHub"
	case OutcomeRejected:
		return "Your submission was rejected"
	case OutcomeUploadFailed:
		return "Error uploading release to Google Cloud Storage"
	default:
		return ""
	}
}

// Status is the short string written to the delivery log.
func (o Outcome) Status() string {
	switch o {
	case OutcomeDelivered:
		return "Release download and upload successful"
	case OutcomeInvalidURL:
		return "URL not valid"
	case OutcomeDownloadFailed:
		return "Error downloading release from GitHub"
	case OutcomeRejected:
		return "Submission rejected"
	case OutcomeUploadFailed:
		return "Error uploading release to Google Cloud Storage"
	default:
		return ""
	}
}

// OutcomeEvent is published to the message bus after each submission.
type OutcomeEvent struct {
	InvocationID string    `json:"invocation_id"`
	Outcome      Outcome   `json:"outcome"`
	Email        string    `json:"email,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`
	Location     string    `json:"location,omitempty"`
	Status       string    `json:"status,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
