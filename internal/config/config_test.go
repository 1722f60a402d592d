package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "shop", cfg.MongoDB.Database)
	require.Equal(t, "customers", cfg.MongoDB.Collection)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.False(t, cfg.Seed.ContinueOnError)
	require.True(t, cfg.Seed.OrderedInserts)
	require.Equal(t, time.Minute, cfg.Seed.LockTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "shop_test")
	t.Setenv("SEED_CONTINUE_ON_ERROR", "true")
	t.Setenv("SEED_ORDERED_INSERTS", "false")
	t.Setenv("MONGODB_CONNECT_ATTEMPTS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "shop_test", cfg.MongoDB.Database)
	require.True(t, cfg.Seed.ContinueOnError)
	require.False(t, cfg.Seed.OrderedInserts)
	require.Equal(t, 1, cfg.MongoDB.ConnectAttempts)
}

func TestLoadConfig_MissingURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrMissingMongoURI)
}

func TestRedisAddr_Unconfigured(t *testing.T) {
	require.Equal(t, "", RedisConfig{}.Addr())
	require.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380"}.Addr())
}

func TestLoadJWTConfig_WithoutMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_OPERATOR_TOKEN_TTL", "15")

	jc := LoadJWTConfig()
	require.Equal(t, "s3cret", jc.Secret)
	require.Equal(t, 15*time.Minute, jc.OperatorTokenTTL)
}
