// Package mailer composes and delivers submission outcome emails.
package mailer

import (
	"context"
	"strings"

	"github.com/telhawk-systems/submission-relay/internal/models"
)

const notStored = "not stored"

// Notification is one outcome email to a submitter.
type Notification struct {
	To         string
	Outcome    string
	Submission models.Submission
	Location   string
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	Type() string
}

// Compose renders the fixed body template for n.
func Compose(n Notification) string {
	location := n.Location
	if location == "" {
		location = notStored
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString(n.Outcome)
	b.WriteString(".\n\n")
	b.WriteString("Submission URL: ")
	b.WriteString(n.Submission.GithubRepoURL)
	b.WriteString("\n")
	b.WriteString("Storage location: ")
	b.WriteString(location)
	b.WriteString("\n")
	if n.Submission.RejectionReason != "" {
		b.WriteString("Rejection reason: ")
		b.WriteString(n.Submission.RejectionReason)
		b.WriteString("\n")
	}
	b.WriteString("\nThis message was sent automatically. Please do not reply.\n")
	return b.String()
}
