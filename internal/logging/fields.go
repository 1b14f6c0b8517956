package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging across the relay.
const (
	FieldService      = "service"
	FieldInvocationID = "invocation_id"
	FieldEmail        = "email"
	FieldURL          = "url"
	FieldOutcome      = "outcome"
	FieldStatus       = "status"
	FieldObject       = "object"
	FieldBytes        = "bytes"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldSubject      = "subject"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// InvocationID returns a slog attribute for the invocation ID.
func InvocationID(id string) slog.Attr {
	return slog.String(FieldInvocationID, id)
}

// Email returns a slog attribute for the submitter email.
func Email(email string) slog.Attr {
	return slog.String(FieldEmail, email)
}

// URL returns a slog attribute for a source URL.
func URL(url string) slog.Attr {
	return slog.String(FieldURL, url)
}

// Outcome returns a slog attribute for a processing outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String(FieldOutcome, outcome)
}

// Status returns a slog attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Object returns a slog attribute for an object location.
func Object(location string) slog.Attr {
	return slog.String(FieldObject, location)
}

// Bytes returns a slog attribute for a payload size.
func Bytes(n int64) slog.Attr {
	return slog.Int64(FieldBytes, n)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// Subject returns a slog attribute for a message broker subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}
