package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMinIOConfig(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_ACCESS_KEY", "ak")
	t.Setenv("MINIO_SECRET_KEY", "sk")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_BUCKET", "")

	cfg := LoadMinIOConfig()
	require.True(t, cfg.Enabled())
	require.True(t, cfg.UseSSL)
	require.Equal(t, "shopseed-reports", cfg.Bucket)
}

func TestNewMinIOStorage_Disabled(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")

	cfg := LoadMinIOConfig()
	require.False(t, cfg.Enabled())

	_, err := NewMinIOStorage(context.Background(), cfg)
	require.Error(t, err)

	var nilCfg *MinIOConfig
	require.False(t, nilCfg.Enabled())
}
