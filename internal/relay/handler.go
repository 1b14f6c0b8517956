// Package relay implements the submission relay: validate, download,
// re-upload, notify and record, once per embedded queue message.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/telhawk-systems/submission-relay/internal/auditlog"
	"github.com/telhawk-systems/submission-relay/internal/fetcher"
	"github.com/telhawk-systems/submission-relay/internal/logging"
	"github.com/telhawk-systems/submission-relay/internal/mailer"
	"github.com/telhawk-systems/submission-relay/internal/messaging"
	"github.com/telhawk-systems/submission-relay/internal/metrics"
	"github.com/telhawk-systems/submission-relay/internal/models"
	"github.com/telhawk-systems/submission-relay/internal/objectstore"
)

// Fetcher downloads an archive. *fetcher.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Archive, error)
}

// Dependencies are the service clients the handler drives.
// Publisher, Logger, Clock and NewToken are optional.
type Dependencies struct {
	Fetcher   Fetcher
	Store     objectstore.Store
	Notifier  mailer.Notifier
	Recorder  auditlog.Recorder
	Publisher messaging.Publisher
	Logger    *logging.Logger
	Clock     func() time.Time
	NewToken  func() string
}

// Options tune naming and validation.
type Options struct {
	ArchiveSuffix string
	ObjectPrefix  string
}

// Handler processes submissions. It holds no per-message state and is safe
// to reuse across invocations.
type Handler struct {
	fetcher   Fetcher
	store     objectstore.Store
	notifier  mailer.Notifier
	recorder  auditlog.Recorder
	publisher messaging.Publisher
	logger    *logging.Logger
	now       func() time.Time
	newToken  func() string
	opts      Options
}

// New validates deps and returns a Handler. Missing required clients are
// reported together.
func New(deps Dependencies, opts Options) (*Handler, error) {
	var missing []error
	if deps.Fetcher == nil {
		missing = append(missing, errors.New("fetcher is required"))
	}
	if deps.Store == nil {
		missing = append(missing, errors.New("object store is required"))
	}
	if deps.Notifier == nil {
		missing = append(missing, errors.New("notifier is required"))
	}
	if deps.Recorder == nil {
		missing = append(missing, errors.New("recorder is required"))
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewToken == nil {
		deps.NewToken = objectstore.UniqueToken
	}
	if opts.ArchiveSuffix == "" {
		opts.ArchiveSuffix = ".zip"
	}

	return &Handler{
		fetcher:   deps.Fetcher,
		store:     deps.Store,
		notifier:  deps.Notifier,
		recorder:  deps.Recorder,
		publisher: deps.Publisher,
		logger:    deps.Logger.With(slog.String("component", "relay")),
		now:       deps.Clock,
		newToken:  deps.NewToken,
		opts:      opts,
	}, nil
}

// Process runs one submission document through the pipeline. It never
// returns an error; failures are reported in the Result.
func (h *Handler) Process(ctx context.Context, text string) Result {
	sub, err := models.ParseSubmission(text)
	if err != nil {
		return h.conclude(ctx, Result{Outcome: models.OutcomeMalformed, Err: err})
	}

	if !fetcher.HasArchiveSuffix(sub.GithubRepoURL, h.opts.ArchiveSuffix) {
		return h.conclude(ctx, Result{
			Outcome:    models.OutcomeInvalidURL,
			Submission: sub,
			Err:        fmt.Errorf("%w: %q does not end in %s", ErrInvalidURL, sub.GithubRepoURL, h.opts.ArchiveSuffix),
		})
	}

	started := time.Now()
	archive, err := h.fetcher.Fetch(ctx, sub.GithubRepoURL)
	if err != nil {
		observeDownload(started, err)
		return h.conclude(ctx, Result{Outcome: models.OutcomeDownloadFailed, Submission: sub, Err: err})
	}

	// The rejection check follows the download; the body is discarded unread.
	if sub.Rejected() {
		archive.Body.Close()
		observeDownload(started, nil)
		return h.conclude(ctx, Result{Outcome: models.OutcomeRejected, Submission: sub})
	}

	data, err := io.ReadAll(archive.Body)
	archive.Body.Close()
	observeDownload(started, err)
	if err != nil {
		return h.conclude(ctx, Result{
			Outcome:    models.OutcomeDownloadFailed,
			Submission: sub,
			Err:        fmt.Errorf("%w: read body: %v", fetcher.ErrDownload, err),
		})
	}
	metrics.DownloadBytesTotal.Add(float64(len(data)))

	h.logger.DebugContext(ctx, "Archive downloaded",
		logging.URL(sub.GithubRepoURL),
		logging.Bytes(int64(len(data))),
		logging.Duration(time.Since(started)))

	name := objectstore.ObjectName(h.opts.ObjectPrefix, h.now(), h.newToken(), h.opts.ArchiveSuffix)
	uploadStarted := time.Now()
	obj, err := h.store.Put(ctx, name, data, archive.ContentType)
	metrics.UploadDuration.Observe(time.Since(uploadStarted).Seconds())
	if err != nil {
		if !errors.Is(err, objectstore.ErrUpload) {
			err = fmt.Errorf("%w: %v", objectstore.ErrUpload, err)
		}
		return h.conclude(ctx, Result{Outcome: models.OutcomeUploadFailed, Submission: sub, Err: err})
	}

	return h.conclude(ctx, Result{Outcome: models.OutcomeDelivered, Submission: sub, Object: &obj})
}

func observeDownload(started time.Time, err error) {
	metrics.DownloadDuration.WithLabelValues(metrics.ResultLabel(err)).Observe(time.Since(started).Seconds())
}

// conclude performs the side effects for a terminal outcome: at most one
// notification and one delivery record, then logging, metrics and the
// optional outcome event.
func (h *Handler) conclude(ctx context.Context, res Result) Result {
	if res.Submission != nil {
		res.Notified = h.notify(ctx, res)
		res.Recorded = h.record(ctx, res)
	}

	metrics.SubmissionsTotal.WithLabelValues(string(res.Outcome)).Inc()
	h.logResult(ctx, res)
	h.publish(ctx, res)
	return res
}

func (h *Handler) notify(ctx context.Context, res Result) bool {
	err := h.notifier.Send(ctx, mailer.Notification{
		To:         res.Submission.UserEmail,
		Outcome:    res.Outcome.Message(),
		Submission: *res.Submission,
		Location:   res.Location(),
	})
	metrics.NotificationsTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		h.logger.WarnContext(ctx, "Notification failed",
			logging.Email(res.Submission.UserEmail),
			logging.Outcome(string(res.Outcome)),
			logging.Error(err))
		return false
	}
	return true
}

func (h *Handler) record(ctx context.Context, res Result) bool {
	err := h.recorder.Record(ctx, auditlog.Record{
		Email:  res.Submission.UserEmail,
		Status: res.Outcome.Status(),
		SentAt: h.now(),
	})
	metrics.AuditWritesTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		h.logger.WarnContext(ctx, "Delivery record write failed",
			logging.Email(res.Submission.UserEmail),
			logging.Outcome(string(res.Outcome)),
			logging.Error(err))
		return false
	}
	return true
}

func (h *Handler) publish(ctx context.Context, res Result) {
	if h.publisher == nil {
		return
	}

	event := models.OutcomeEvent{
		InvocationID: logging.InvocationIDFromContext(ctx),
		Outcome:      res.Outcome,
		Location:     res.Location(),
		Status:       res.Outcome.Status(),
		Timestamp:    h.now().UTC(),
	}
	if res.Submission != nil {
		event.Email = res.Submission.UserEmail
		event.SourceURL = res.Submission.GithubRepoURL
	}
	if res.Err != nil {
		event.Error = res.Err.Error()
	}

	subject := messaging.OutcomeSubject(string(res.Outcome))
	err := h.publisher.PublishJSON(ctx, subject, event)
	metrics.OutcomeEventsTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to publish outcome event",
			logging.Subject(subject),
			logging.Error(err))
	}
}

func (h *Handler) logResult(ctx context.Context, res Result) {
	attrs := []any{logging.Outcome(string(res.Outcome))}
	if res.Submission != nil {
		attrs = append(attrs, logging.Email(res.Submission.UserEmail), logging.URL(res.Submission.GithubRepoURL))
	}
	if res.Object != nil {
		attrs = append(attrs, logging.Object(res.Object.Location), logging.Bytes(res.Object.Size))
	}

	switch {
	case res.Outcome == models.OutcomeDelivered:
		h.logger.InfoContext(ctx, "Submission delivered", attrs...)
	case res.Outcome == models.OutcomeRejected:
		h.logger.InfoContext(ctx, "Submission rejected", attrs...)
	default:
		attrs = append(attrs, logging.Error(res.Err))
		h.logger.ErrorContext(ctx, "Submission failed", attrs...)
	}
}
