package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSubmission is returned when a message cannot be turned into a Submission.
var ErrMalformedSubmission = errors.New("malformed submission")

// Submission is the message published by the submission portal for one
// user's archive upload.
type Submission struct {
	UserEmail       string `json:"userEmail"`
	GithubRepoURL   string `json:"githubRepoUrl"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// ParseSubmission decodes the text of a queue message. Email and URL are
// required; surrounding whitespace is trimmed from every field.
func ParseSubmission(text string) (*Submission, error) {
	var s Submission
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSubmission, err)
	}

	s.UserEmail = strings.TrimSpace(s.UserEmail)
	s.GithubRepoURL = strings.TrimSpace(s.GithubRepoURL)
	s.RejectionReason = strings.TrimSpace(s.RejectionReason)

	if s.UserEmail == "" {
		return nil, fmt.Errorf("%w: userEmail is empty", ErrMalformedSubmission)
	}
	if s.GithubRepoURL == "" {
		return nil, fmt.Errorf("%w: githubRepoUrl is empty", ErrMalformedSubmission)
	}

	return &s, nil
}

// Rejected reports whether the submission carries a rejection reason.
func (s *Submission) Rejected() bool {
	return s.RejectionReason != ""
}
