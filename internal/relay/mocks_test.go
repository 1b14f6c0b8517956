package relay

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/telhawk-systems/submission-relay/internal/auditlog"
	"github.com/telhawk-systems/submission-relay/internal/fetcher"
	"github.com/telhawk-systems/submission-relay/internal/mailer"
	"github.com/telhawk-systems/submission-relay/internal/objectstore"
)

type mockFetcher struct {
	fetchFunc func(ctx context.Context, rawURL string) (*fetcher.Archive, error)
	urls      []string
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) (*fetcher.Archive, error) {
	m.urls = append(m.urls, rawURL)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, rawURL)
	}
	return nil, errors.New("fetchFunc not set")
}

// trackingBody records whether it was read and closed.
type trackingBody struct {
	*bytes.Reader
	read    bool
	closed  bool
	readErr error
}

func newTrackingBody(data []byte) *trackingBody {
	return &trackingBody{Reader: bytes.NewReader(data)}
}

func (b *trackingBody) Read(p []byte) (int, error) {
	b.read = true
	if b.readErr != nil {
		return 0, b.readErr
	}
	return b.Reader.Read(p)
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func archiveOf(body *trackingBody) *fetcher.Archive {
	return &fetcher.Archive{Body: body, ContentType: "application/zip", ContentLength: int64(body.Len())}
}

type putCall struct {
	name        string
	data        []byte
	contentType string
}

type mockStore struct {
	putFunc func(ctx context.Context, name string, data []byte, contentType string) (objectstore.Object, error)
	calls   []putCall
}

func (m *mockStore) Put(ctx context.Context, name string, data []byte, contentType string) (objectstore.Object, error) {
	m.calls = append(m.calls, putCall{name: name, data: data, contentType: contentType})
	if m.putFunc != nil {
		return m.putFunc(ctx, name, data, contentType)
	}
	return objectstore.Object{
		Bucket:   "submissions",
		Name:     name,
		Size:     int64(len(data)),
		Location: objectstore.Location("", "submissions", name),
	}, nil
}

type mockNotifier struct {
	sendFunc func(ctx context.Context, n mailer.Notification) error
	sent     []mailer.Notification
}

func (m *mockNotifier) Send(ctx context.Context, n mailer.Notification) error {
	m.sent = append(m.sent, n)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, n)
	}
	return nil
}

func (m *mockNotifier) Type() string { return "mock" }

type mockRecorder struct {
	recordFunc func(ctx context.Context, rec auditlog.Record) error
	records    []auditlog.Record
}

func (m *mockRecorder) Record(ctx context.Context, rec auditlog.Record) error {
	m.records = append(m.records, rec)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, rec)
	}
	return nil
}

func (m *mockRecorder) Type() string { return "mock" }

type published struct {
	subject string
	value   interface{}
}

type mockPublisher struct {
	mu          sync.Mutex
	publishErr  error
	publishings []published
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return m.PublishJSON(ctx, subject, data)
}

func (m *mockPublisher) PublishJSON(ctx context.Context, subject string, v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishings = append(m.publishings, published{subject: subject, value: v})
	return m.publishErr
}
