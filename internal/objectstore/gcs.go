package objectstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig holds Google Cloud Storage settings.
type GCSConfig struct {
	Bucket      string
	BucketURL   string
	Credentials string // base64-encoded service account key, or the raw JSON
}

// GCSStore writes objects to a single Google Cloud Storage bucket.
type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCSStore builds a storage client from the configured service account.
// Without credentials the client falls back to application default credentials.
func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.BucketURL,
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte, contentType string) (Object, error) {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("%w: write gs://%s/%s: %v", ErrUpload, s.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("%w: close gs://%s/%s: %v", ErrUpload, s.bucket, name, err)
	}

	return Object{
		Bucket:   s.bucket,
		Name:     name,
		Size:     int64(len(data)),
		Location: Location(s.baseURL, s.bucket, name),
	}, nil
}

// clientOptions returns the storage client options for cfg. Requests are
// billed to the bucket owner, so no quota project is attached.
func clientOptions(cfg GCSConfig) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		keyJSON, err := DecodeCredentials(cfg.Credentials)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(keyJSON))
	}
	return opts, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// DecodeCredentials accepts a service account key either as raw JSON or
// base64-encoded JSON and returns the JSON bytes.
func DecodeCredentials(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		if !json.Valid([]byte(value)) {
			return nil, errors.New("service account key is not valid JSON")
		}
		return []byte(value), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}
	if !json.Valid(decoded) {
		return nil, errors.New("decoded service account key is not valid JSON")
	}
	return decoded, nil
}
