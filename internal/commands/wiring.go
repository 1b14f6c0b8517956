package commands

import (
	"context"
	"fmt"

	"github.com/telhawk-systems/submission-relay/internal/auditlog"
	"github.com/telhawk-systems/submission-relay/internal/config"
	"github.com/telhawk-systems/submission-relay/internal/fetcher"
	"github.com/telhawk-systems/submission-relay/internal/logging"
	"github.com/telhawk-systems/submission-relay/internal/mailer"
	"github.com/telhawk-systems/submission-relay/internal/messaging"
	"github.com/telhawk-systems/submission-relay/internal/objectstore"
	"github.com/telhawk-systems/submission-relay/internal/relay"
)

// cleanup releases a client created during wiring.
type cleanup func()

func noop() {}

func newStore(ctx context.Context, cfg config.StorageConfig) (objectstore.Store, cleanup, error) {
	switch cfg.Backend {
	case "memory":
		bucket := cfg.Bucket
		if bucket == "" {
			bucket = "local"
		}
		return objectstore.NewMemoryStore(bucket, cfg.BucketURL), noop, nil
	case "gcs", "":
		store, err := objectstore.NewGCSStore(ctx, objectstore.GCSConfig{
			Bucket:      cfg.Bucket,
			BucketURL:   cfg.BucketURL,
			Credentials: cfg.Credentials,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newNotifier(cfg config.MailConfig, logger *logging.Logger) (mailer.Notifier, error) {
	switch cfg.Backend {
	case "log":
		return mailer.NewLogNotifier(logger), nil
	case "mailgun", "":
		return mailer.NewMailgunNotifier(mailer.MailgunConfig{
			Domain:  cfg.Domain,
			APIKey:  cfg.APIKey,
			APIBase: cfg.APIBase,
			From:    cfg.SenderAddress(),
			Subject: cfg.Subject,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

func newRecorder(ctx context.Context, cfg config.AuditConfig, logger *logging.Logger) (auditlog.Recorder, cleanup, error) {
	switch cfg.Backend {
	case "log":
		return auditlog.NewLogRecorder(logger), noop, nil
	case "redis":
		r, err := auditlog.NewRedisRecorder(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case "postgres":
		r, err := auditlog.NewPostgresRecorder(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case "sqlite":
		r, err := auditlog.NewSQLiteRecorder(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case "dynamodb", "":
		r, err := auditlog.NewDynamoDBRecorder(ctx, cfg.Table, cfg.Region)
		if err != nil {
			return nil, nil, err
		}
		return r, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}

// newHandler constructs every backend client once and injects them into a
// relay handler. publisher may be nil.
func newHandler(ctx context.Context, cfg *config.Config, logger *logging.Logger, publisher messaging.Publisher) (*relay.Handler, cleanup, error) {
	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize object store: %w", err)
	}

	notifier, err := newNotifier(cfg.Mail, logger)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	recorder, closeRecorder, err := newRecorder(ctx, cfg.Audit, logger)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to initialize audit recorder: %w", err)
	}

	h, err := relay.New(relay.Dependencies{
		Fetcher:   fetcher.New(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		Store:     store,
		Notifier:  notifier,
		Recorder:  recorder,
		Publisher: publisher,
		Logger:    logger,
	}, relay.Options{
		ArchiveSuffix: cfg.Fetch.ArchiveSuffix,
		ObjectPrefix:  cfg.Storage.ObjectPrefix,
	})
	if err != nil {
		closeRecorder()
		closeStore()
		return nil, nil, err
	}

	logger.Info("Relay handler initialized",
		"storage_backend", backendName(cfg.Storage.Backend, "gcs"),
		"mail_backend", notifier.Type(),
		"audit_backend", recorder.Type())

	return h, func() {
		closeRecorder()
		closeStore()
	}, nil
}

func backendName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
