// Package objectstore writes submission archives to object storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUpload wraps every failure to write an object.
var ErrUpload = errors.New("upload failed")

// Object describes a stored archive.
type Object struct {
	Bucket   string `json:"bucket"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
}

// Store persists archive bytes under a name.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (Object, error)
}

// ObjectName derives an object name from the upload time and a unique token.
// The format is <prefix>release-<yyyymmddThhmmss.mmm>Z-<unique><ext>; the
// token is omitted when empty.
func ObjectName(prefix string, now time.Time, unique, ext string) string {
	if ext == "" {
		ext = ".zip"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	stamp := now.UTC().Format("20060102T150405.000")
	if unique == "" {
		return fmt.Sprintf("%srelease-%sZ%s", prefix, stamp, ext)
	}
	return fmt.Sprintf("%srelease-%sZ-%s%s", prefix, stamp, unique, ext)
}

// UniqueToken returns eight random hex characters. Uploads in the same
// millisecond differ by token.
func UniqueToken() string {
	return uuid.NewString()[:8]
}

// Location returns the public reference for an object: baseURL/name when a
// base URL is configured, otherwise gs://bucket/name.
func Location(baseURL, bucket, name string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/" + name
	}
	return fmt.Sprintf("gs://%s/%s", bucket, name)
}
