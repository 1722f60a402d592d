package seed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeUploader) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	f.key, f.contentType, f.body = key, contentType, b
	return nil
}

func TestObjectSinkUploadsJSON(t *testing.T) {
	up := &fakeUploader{}
	sink := NewObjectSink(up, "seed-reports")
	rep := &Report{RunID: "run-1", Database: "shop", Collection: "customers", Steps: []StepResult{{Index: 1, Op: KindInsertOne, Inserted: 1}}}

	require.NoError(t, sink.Store(context.Background(), rep))
	require.Equal(t, "seed-reports/run-1.json", up.key)
	require.Equal(t, "application/json", up.contentType)

	var got Report
	require.NoError(t, json.Unmarshal(up.body, &got))
	require.Equal(t, "run-1", got.RunID)
	require.Equal(t, KindInsertOne, got.Steps[0].Op)
}

func TestObjectSinkWrapsUploadError(t *testing.T) {
	boom := errors.New("access denied")
	sink := NewObjectSink(&fakeUploader{err: boom}, "")

	err := sink.Store(context.Background(), &Report{RunID: "r"})
	require.ErrorIs(t, err, boom)
}
