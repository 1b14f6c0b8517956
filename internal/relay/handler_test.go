package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/submission-relay/internal/auditlog"
	"github.com/telhawk-systems/submission-relay/internal/fetcher"
	"github.com/telhawk-systems/submission-relay/internal/logging"
	"github.com/telhawk-systems/submission-relay/internal/mailer"
	"github.com/telhawk-systems/submission-relay/internal/metrics"
	"github.com/telhawk-systems/submission-relay/internal/models"
	"github.com/telhawk-systems/submission-relay/internal/objectstore"
)

var fixedNow = time.Date(2026, 10, 17, 12, 30, 45, 123_000_000, time.UTC)

type fixture struct {
	fetcher   *mockFetcher
	store     *mockStore
	notifier  *mockNotifier
	recorder  *mockRecorder
	publisher *mockPublisher
	handler   *Handler
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		fetcher:   &mockFetcher{},
		store:     &mockStore{},
		notifier:  &mockNotifier{},
		recorder:  &mockRecorder{},
		publisher: &mockPublisher{},
	}
	h, err := New(Dependencies{
		Fetcher:   f.fetcher,
		Store:     f.store,
		Notifier:  f.notifier,
		Recorder:  f.recorder,
		Publisher: f.publisher,
		Logger:    logging.Discard(),
		Clock:     func() time.Time { return fixedNow },
	}, opts)
	require.NoError(t, err)
	f.handler = h
	return f
}

func submissionJSON(t *testing.T, email, url, reason string) string {
	t.Helper()
	b, err := json.Marshal(models.Submission{UserEmail: email, GithubRepoURL: url, RejectionReason: reason})
	require.NoError(t, err)
	return string(b)
}

func snsEvent(messages ...string) events.SNSEvent {
	var event events.SNSEvent
	for i, m := range messages {
		event.Records = append(event.Records, events.SNSEventRecord{
			SNS: events.SNSEntity{MessageID: fmt.Sprintf("msg-%d", i), Message: m},
		})
	}
	return event
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Dependencies{}, Options{})
	require.Error(t, err)
	for _, want := range []string{"fetcher", "object store", "notifier", "recorder"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestHandleSNS_NoRecords(t *testing.T) {
	f := newFixture(t, Options{})

	results := f.handler.HandleSNS(context.Background(), events.SNSEvent{})

	assert.Empty(t, results)
	assert.Empty(t, f.notifier.sent)
	assert.Empty(t, f.recorder.records)
	assert.Empty(t, f.fetcher.urls)
}

func TestProcess_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "this is not json"},
		{"empty", ""},
		{"missing email", `{"githubRepoUrl":"https://github.com/o/r/archive/v1.zip"}`},
		{"missing url", `{"userEmail":"a@example.com"}`},
		{"wrong types", `{"userEmail":42,"githubRepoUrl":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})

			res := f.handler.Process(context.Background(), tt.text)

			assert.Equal(t, models.OutcomeMalformed, res.Outcome)
			assert.Equal(t, models.FailureValidation, res.Class())
			assert.ErrorIs(t, res.Err, models.ErrMalformedSubmission)
			assert.Empty(t, f.notifier.sent)
			assert.Empty(t, f.recorder.records)
			assert.Empty(t, f.fetcher.urls)
			assert.Empty(t, f.store.calls)
		})
	}
}

func TestProcess_InvalidURL(t *testing.T) {
	email := gofakeit.Email()
	urls := []string{
		"https://github.com/owner/repo",
		"https://github.com/owner/repo/archive/v1.tar.gz",
		"ftp://example.com/release.zip",
		"not a url.zip",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			f := newFixture(t, Options{})

			res := f.handler.Process(context.Background(), submissionJSON(t, email, url, ""))

			assert.Equal(t, models.OutcomeInvalidURL, res.Outcome)
			assert.Equal(t, models.FailureValidation, res.Class())
			assert.ErrorIs(t, res.Err, ErrInvalidURL)
			assert.Empty(t, f.fetcher.urls, "no download may be attempted")

			require.Len(t, f.notifier.sent, 1)
			assert.Equal(t, email, f.notifier.sent[0].To)
			assert.Equal(t, models.OutcomeInvalidURL.Message(), f.notifier.sent[0].Outcome)
			assert.Empty(t, f.notifier.sent[0].Location)

			require.Len(t, f.recorder.records, 1)
			assert.Equal(t, "URL not valid", f.recorder.records[0].Status)
			assert.Equal(t, email, f.recorder.records[0].Email)
		})
	}
}

func TestProcess_SuffixIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, Options{})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(newTrackingBody([]byte("PK"))), nil
	}

	res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://example.com/RELEASE.ZIP", ""))
	assert.Equal(t, models.OutcomeDelivered, res.Outcome)
}

func TestProcess_DownloadFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &fetcher.StatusError{URL: "https://github.com/o/r/archive/v1.zip", StatusCode: 404}},
		{"network", fmt.Errorf("%w: send request: connection refused", fetcher.ErrDownload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				return nil, tt.err
			}
			email := gofakeit.Email()

			res := f.handler.Process(context.Background(), submissionJSON(t, email, "https://github.com/o/r/archive/v1.zip", ""))

			assert.Equal(t, models.OutcomeDownloadFailed, res.Outcome)
			assert.Equal(t, models.FailureTransport, res.Class())
			assert.ErrorIs(t, res.Err, fetcher.ErrDownload)
			assert.Empty(t, f.store.calls, "no upload may be attempted")

			require.Len(t, f.notifier.sent, 1)
			assert.Equal(t, "Error downloading release from GitHub", f.notifier.sent[0].Outcome)
			require.Len(t, f.recorder.records, 1)
			assert.Equal(t, "Error downloading release from GitHub", f.recorder.records[0].Status)
		})
	}
}

func TestProcess_BodyReadFailure(t *testing.T) {
	f := newFixture(t, Options{})
	body := newTrackingBody([]byte("PK"))
	body.readErr = errors.New("connection reset by peer")
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(body), nil
	}

	res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://github.com/o/r/archive/v1.zip", ""))

	assert.Equal(t, models.OutcomeDownloadFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, fetcher.ErrDownload)
	assert.True(t, body.closed)
	assert.Empty(t, f.store.calls)
	assert.Len(t, f.notifier.sent, 1)
	assert.Len(t, f.recorder.records, 1)
}

func TestProcess_RejectedAfterDownload(t *testing.T) {
	f := newFixture(t, Options{})
	body := newTrackingBody([]byte("PK\x03\x04"))
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(body), nil
	}
	email := gofakeit.Email()
	url := "https://github.com/o/r/archive/v1.zip"

	res := f.handler.Process(context.Background(), submissionJSON(t, email, url, "late submission"))

	assert.Equal(t, models.OutcomeRejected, res.Outcome)
	assert.Equal(t, models.FailureRejection, res.Class())
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{url}, f.fetcher.urls, "download happens before the rejection check")
	assert.True(t, body.closed)
	assert.False(t, body.read, "rejected body is discarded unread")
	assert.Empty(t, f.store.calls)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, models.OutcomeRejected.Message(), f.notifier.sent[0].Outcome)
	assert.Equal(t, "late submission", f.notifier.sent[0].Submission.RejectionReason)
	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, "Submission rejected", f.recorder.records[0].Status)
}

func TestProcess_RejectedWithFailedDownload(t *testing.T) {
	f := newFixture(t, Options{})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return nil, &fetcher.StatusError{URL: rawURL, StatusCode: 500}
	}

	res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://github.com/o/r/archive/v1.zip", "plagiarism"))

	assert.Equal(t, models.OutcomeDownloadFailed, res.Outcome)
	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, "Error downloading release from GitHub", f.recorder.records[0].Status)
}

func TestProcess_Delivered(t *testing.T) {
	f := newFixture(t, Options{ObjectPrefix: "uploads/"})
	payload := []byte(gofakeit.LoremIpsumSentence(20))
	body := newTrackingBody(payload)
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(body), nil
	}
	email := gofakeit.Email()
	url := "https://github.com/owner/repo/releases/download/v1.0/release.zip"

	res := f.handler.Process(context.Background(), submissionJSON(t, email, url, ""))

	assert.Equal(t, models.OutcomeDelivered, res.Outcome)
	assert.Equal(t, models.FailureNone, res.Class())
	assert.NoError(t, res.Err)
	assert.True(t, res.Notified)
	assert.True(t, res.Recorded)
	assert.True(t, body.closed)

	require.Len(t, f.store.calls, 1)
	call := f.store.calls[0]
	assert.Regexp(t, `^uploads/release-20261017T123045\.123Z-[0-9a-f]{8}\.zip$`, call.name)
	assert.Equal(t, payload, call.data)
	assert.Equal(t, "application/zip", call.contentType)

	require.NotNil(t, res.Object)
	assert.Equal(t, "gs://submissions/"+call.name, res.Location())

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, email, n.To)
	assert.Equal(t, "Release download and upload successful", n.Outcome)
	assert.Equal(t, url, n.Submission.GithubRepoURL)
	assert.Equal(t, res.Location(), n.Location)

	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	assert.Equal(t, email, rec.Email)
	assert.Equal(t, "Release download and upload successful", rec.Status)
	assert.True(t, fixedNow.Equal(rec.SentAt))
}

func TestProcess_UploadFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"wrapped", fmt.Errorf("%w: bucket not found", objectstore.ErrUpload)},
		{"bare", errors.New("googleapi: Error 403: forbidden")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				return archiveOf(newTrackingBody([]byte("PK"))), nil
			}
			f.store.putFunc = func(ctx context.Context, name string, data []byte, contentType string) (objectstore.Object, error) {
				return objectstore.Object{}, tt.err
			}

			res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://github.com/o/r/archive/v1.zip", ""))

			assert.Equal(t, models.OutcomeUploadFailed, res.Outcome)
			assert.Equal(t, models.FailureStorage, res.Class())
			assert.ErrorIs(t, res.Err, objectstore.ErrUpload)
			assert.Nil(t, res.Object)

			require.Len(t, f.notifier.sent, 1)
			assert.Equal(t, "Error uploading release to Google Cloud Storage", f.notifier.sent[0].Outcome)
			assert.Empty(t, f.notifier.sent[0].Location)
			require.Len(t, f.recorder.records, 1)
			assert.Equal(t, "Error uploading release to Google Cloud Storage", f.recorder.records[0].Status)
		})
	}
}

func TestProcess_SideEffectFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t, Options{})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(newTrackingBody([]byte("PK"))), nil
	}
	f.notifier.sendFunc = func(ctx context.Context, n mailer.Notification) error {
		return errors.New("mailgun: 401 unauthorized")
	}
	f.recorder.recordFunc = func(ctx context.Context, rec auditlog.Record) error {
		return errors.New("dynamodb: ResourceNotFoundException")
	}

	res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://github.com/o/r/archive/v1.zip", ""))

	assert.Equal(t, models.OutcomeDelivered, res.Outcome)
	assert.NoError(t, res.Err)
	assert.False(t, res.Notified)
	assert.False(t, res.Recorded)
	assert.Len(t, f.notifier.sent, 1, "notification is not retried")
	assert.Len(t, f.recorder.records, 1, "record is still written after a notification failure")
}

func TestProcess_PublishesOutcomeEvent(t *testing.T) {
	f := newFixture(t, Options{})
	email := gofakeit.Email()
	ctx := logging.WithInvocationID(context.Background(), "inv-1")

	f.handler.Process(ctx, submissionJSON(t, email, "https://github.com/o/r", ""))

	require.Len(t, f.publisher.publishings, 1)
	p := f.publisher.publishings[0]
	assert.Equal(t, "relay.outcomes.invalid_url", p.subject)

	event, ok := p.value.(models.OutcomeEvent)
	require.True(t, ok)
	assert.Equal(t, "inv-1", event.InvocationID)
	assert.Equal(t, models.OutcomeInvalidURL, event.Outcome)
	assert.Equal(t, email, event.Email)
	assert.Equal(t, "URL not valid", event.Status)
	assert.Contains(t, event.Error, "invalid submission url")
	assert.True(t, fixedNow.Equal(event.Timestamp))
}

func TestProcess_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t, Options{})
	f.publisher.publishErr = errors.New("nats: connection closed")

	res := f.handler.Process(context.Background(), "garbage")
	assert.Equal(t, models.OutcomeMalformed, res.Outcome)
	assert.Len(t, f.publisher.publishings, 1)
}

func TestProcess_NoPublisher(t *testing.T) {
	h, err := New(Dependencies{
		Fetcher:  &mockFetcher{},
		Store:    &mockStore{},
		Notifier: &mockNotifier{},
		Recorder: &mockRecorder{},
		Logger:   logging.Discard(),
	}, Options{})
	require.NoError(t, err)

	res := h.Process(context.Background(), "garbage")
	assert.Equal(t, models.OutcomeMalformed, res.Outcome)
}

func TestProcess_CustomSuffix(t *testing.T) {
	f := newFixture(t, Options{ArchiveSuffix: ".tar.gz"})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(newTrackingBody([]byte{0x1f, 0x8b})), nil
	}

	res := f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://example.com/v1.tar.gz", ""))

	assert.Equal(t, models.OutcomeDelivered, res.Outcome)
	require.Len(t, f.store.calls, 1)
	assert.True(t, strings.HasSuffix(f.store.calls[0].name, ".tar.gz"))
}

func TestHandleSNS_ProcessesRecordsInOrder(t *testing.T) {
	f := newFixture(t, Options{})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(newTrackingBody([]byte("PK"))), nil
	}
	first, second := gofakeit.Email(), gofakeit.Email()

	results := f.handler.HandleSNS(context.Background(), snsEvent(
		submissionJSON(t, first, "https://example.com/a.zip", ""),
		"{broken",
		submissionJSON(t, second, "https://example.com/b", ""),
	))

	require.Len(t, results, 3)
	assert.Equal(t, models.OutcomeDelivered, results[0].Outcome)
	assert.Equal(t, models.OutcomeMalformed, results[1].Outcome)
	assert.Equal(t, models.OutcomeInvalidURL, results[2].Outcome)

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, first, f.notifier.sent[0].To)
	assert.Equal(t, second, f.notifier.sent[1].To)
}

func TestHandleLambda_AlwaysReturnsNil(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty object", `{}`},
		{"no records", `{"Records":[]}`},
		{"not json", `not json at all`},
		{"wrong shape", `{"Records":"nope"}`},
		{"null", `null`},
		{"invalid message", `{"Records":[{"Sns":{"Message":"{}"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})

			err := f.handler.HandleLambda(context.Background(), json.RawMessage(tt.payload))

			assert.NoError(t, err)
			assert.Empty(t, f.notifier.sent)
			assert.Empty(t, f.recorder.records)
		})
	}
}

func TestHandleLambda_UsesRequestID(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-42"})
	payload, err := json.Marshal(snsEvent(submissionJSON(t, gofakeit.Email(), "https://example.com/x", "")))
	require.NoError(t, err)

	require.NoError(t, f.handler.HandleLambda(ctx, payload))

	require.Len(t, f.publisher.publishings, 1)
	event := f.publisher.publishings[0].value.(models.OutcomeEvent)
	assert.Equal(t, "req-42", event.InvocationID)
}

func TestHandleLambda_RecoversPanic(t *testing.T) {
	f := newFixture(t, Options{})
	f.fetcher.fetchFunc = func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
		return archiveOf(newTrackingBody([]byte("PK"))), nil
	}
	f.store.putFunc = func(ctx context.Context, name string, data []byte, contentType string) (objectstore.Object, error) {
		panic("storage client exploded")
	}
	payload, err := json.Marshal(snsEvent(submissionJSON(t, gofakeit.Email(), "https://example.com/x.zip", "")))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.NoError(t, f.handler.HandleLambda(context.Background(), payload))
	})
}

func TestResult_Summary(t *testing.T) {
	res := Result{
		Outcome:    models.OutcomeUploadFailed,
		Submission: &models.Submission{UserEmail: "a@example.com", GithubRepoURL: "https://example.com/x.zip"},
		Err:        objectstore.ErrUpload,
		Notified:   true,
	}

	s := res.Summary()
	assert.Equal(t, models.OutcomeUploadFailed, s.Outcome)
	assert.Equal(t, models.FailureStorage, s.Class)
	assert.Equal(t, "a@example.com", s.Email)
	assert.Equal(t, "https://example.com/x.zip", s.URL)
	assert.Equal(t, "upload failed", s.Error)
	assert.True(t, s.Notified)
	assert.False(t, s.Recorded)
	assert.Nil(t, s.Object)
}

func TestHandleSNS_DistinctObjectNamesWithinOneInstant(t *testing.T) {
	store := objectstore.NewMemoryStore("submissions", "")
	h, err := New(Dependencies{
		Fetcher: &mockFetcher{fetchFunc: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
			return archiveOf(newTrackingBody([]byte(rawURL))), nil
		}},
		Store:    store,
		Notifier: &mockNotifier{},
		Recorder: &mockRecorder{},
		Logger:   logging.Discard(),
		Clock:    func() time.Time { return fixedNow },
	}, Options{})
	require.NoError(t, err)

	first, second := "https://example.com/first.zip", "https://example.com/second.zip"
	results := h.HandleSNS(context.Background(), snsEvent(
		submissionJSON(t, gofakeit.Email(), first, ""),
		submissionJSON(t, gofakeit.Email(), second, ""),
	))

	require.Len(t, results, 2)
	require.NotNil(t, results[0].Object)
	require.NotNil(t, results[1].Object)
	assert.NotEqual(t, results[0].Object.Name, results[1].Object.Name)
	assert.Equal(t, 2, store.Len())

	// Each submitter's location still holds their own archive.
	data, ok := store.Get(results[0].Object.Name)
	require.True(t, ok)
	assert.Equal(t, first, string(data))
	data, ok = store.Get(results[1].Object.Name)
	require.True(t, ok)
	assert.Equal(t, second, string(data))
}

func TestProcess_ObjectNameUsesToken(t *testing.T) {
	h, err := New(Dependencies{
		Fetcher: &mockFetcher{fetchFunc: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
			return archiveOf(newTrackingBody([]byte("PK"))), nil
		}},
		Store:    &mockStore{},
		Notifier: &mockNotifier{},
		Recorder: &mockRecorder{},
		Logger:   logging.Discard(),
		Clock:    func() time.Time { return fixedNow },
		NewToken: func() string { return "0badcafe" },
	}, Options{ObjectPrefix: "uploads/"})
	require.NoError(t, err)

	res := h.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://example.com/v1.zip", ""))

	require.NotNil(t, res.Object)
	assert.Equal(t, "uploads/release-20261017T123045.123Z-0badcafe.zip", res.Object.Name)
}

func downloadSamples(t *testing.T, result string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, metrics.DownloadDuration.WithLabelValues(result).(prometheus.Metric).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestProcess_DownloadDurationObserved(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		fetch  func(ctx context.Context, rawURL string) (*fetcher.Archive, error)
		result string
	}{
		{
			name: "fetch error",
			fetch: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				return nil, &fetcher.StatusError{URL: rawURL, StatusCode: 502}
			},
			result: metrics.ResultError,
		},
		{
			name:   "rejected",
			reason: "duplicate",
			fetch: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				return archiveOf(newTrackingBody([]byte("PK"))), nil
			},
			result: metrics.ResultSuccess,
		},
		{
			name: "body read error",
			fetch: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				body := newTrackingBody([]byte("PK"))
				body.readErr = errors.New("unexpected EOF")
				return archiveOf(body), nil
			},
			result: metrics.ResultError,
		},
		{
			name: "delivered",
			fetch: func(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
				return archiveOf(newTrackingBody([]byte("PK"))), nil
			},
			result: metrics.ResultSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.fetcher.fetchFunc = tt.fetch
			before := downloadSamples(t, tt.result)

			f.handler.Process(context.Background(), submissionJSON(t, gofakeit.Email(), "https://example.com/v1.zip", tt.reason))

			assert.Equal(t, before+1, downloadSamples(t, tt.result))
		})
	}
}
