package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
)

// Uploader stores an object under key. Satisfied by *storage.MinIOStorage.
type Uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// ObjectSink archives reports as JSON objects named <prefix>/<runId>.json.
type ObjectSink struct {
	up     Uploader
	prefix string
}

func NewObjectSink(up Uploader, prefix string) *ObjectSink {
	return &ObjectSink{up: up, prefix: prefix}
}

// Key returns the object key for a report.
func (s *ObjectSink) Key(r *Report) string {
	return path.Join(s.prefix, r.RunID+".json")
}

func (s *ObjectSink) Store(ctx context.Context, r *Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.up.UploadFile(ctx, s.Key(r), bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	return nil
}
