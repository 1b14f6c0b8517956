package relay

import (
	"errors"

	"github.com/telhawk-systems/submission-relay/internal/models"
	"github.com/telhawk-systems/submission-relay/internal/objectstore"
)

// ErrInvalidURL is returned for submission URLs that do not name a release archive.
var ErrInvalidURL = errors.New("invalid submission url")

// Result is the outcome of processing one embedded message.
type Result struct {
	Outcome    models.Outcome
	Submission *models.Submission
	Object     *objectstore.Object
	Err        error

	// Notified and Recorded report whether the side effects succeeded.
	// Their failures never change Outcome.
	Notified bool
	Recorded bool
}

// Class returns the failure class of the result's outcome.
func (r Result) Class() models.FailureClass {
	return r.Outcome.Class()
}

// Location returns the stored object location, or "" when nothing was stored.
func (r Result) Location() string {
	if r.Object == nil {
		return ""
	}
	return r.Object.Location
}

// Summary is the printable form of a Result.
type Summary struct {
	Outcome  models.Outcome      `json:"outcome" yaml:"outcome"`
	Class    models.FailureClass `json:"class,omitempty" yaml:"class,omitempty"`
	Email    string              `json:"email,omitempty" yaml:"email,omitempty"`
	URL      string              `json:"url,omitempty" yaml:"url,omitempty"`
	Object   *objectstore.Object `json:"object,omitempty" yaml:"object,omitempty"`
	Error    string              `json:"error,omitempty" yaml:"error,omitempty"`
	Notified bool                `json:"notified" yaml:"notified"`
	Recorded bool                `json:"recorded" yaml:"recorded"`
}

func (r Result) Summary() Summary {
	s := Summary{
		Outcome:  r.Outcome,
		Class:    r.Class(),
		Object:   r.Object,
		Notified: r.Notified,
		Recorded: r.Recorded,
	}
	if r.Submission != nil {
		s.Email = r.Submission.UserEmail
		s.URL = r.Submission.GithubRepoURL
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}
