package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingMongoURI is returned when MONGODB_URI is not set.
var ErrMissingMongoURI = errors.New("environment variable MONGODB_URI is required")

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI             string
	Database        string
	Collection      string
	Timeout         time.Duration
	ConnectAttempts int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

type JWTConfig struct {
	Secret           string
	OperatorTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// SeedConfig controls how the mutation plan is applied.
type SeedConfig struct {
	ContinueOnError   bool
	OrderedInserts    bool
	LockName          string
	LockTTL           time.Duration
	HistoryCollection string
	ReportPrefix      string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5020")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "shop")
	viper.SetDefault("MONGODB_COLLECTION", "customers")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MONGODB_CONNECT_ATTEMPTS", 5)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("JWT_OPERATOR_TOKEN_TTL", 60)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 1)
	viper.SetDefault("RATE_LIMIT_BURST", 2)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("SEED_CONTINUE_ON_ERROR", false)
	viper.SetDefault("SEED_ORDERED_INSERTS", true)
	viper.SetDefault("SEED_LOCK_NAME", "customers-seed")
	viper.SetDefault("SEED_LOCK_TTL", 60)
	viper.SetDefault("SEED_HISTORY_COLLECTION", "seed_runs")
	viper.SetDefault("SEED_REPORT_PREFIX", "seed-reports")

	uri := viper.GetString("MONGODB_URI")
	if uri == "" {
		return nil, ErrMissingMongoURI
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:             uri,
			Database:        viper.GetString("MONGODB_DATABASE"),
			Collection:      viper.GetString("MONGODB_COLLECTION"),
			Timeout:         time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
			ConnectAttempts: viper.GetInt("MONGODB_CONNECT_ATTEMPTS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Keycloak: KeycloakConfig{
			URL:      viper.GetString("KEYCLOAK_URL"),
			Realm:    viper.GetString("KEYCLOAK_REALM"),
			ClientID: viper.GetString("KEYCLOAK_CLIENT_ID"),
		},
		JWT: jwtConfig(),
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Seed: SeedConfig{
			ContinueOnError:   viper.GetBool("SEED_CONTINUE_ON_ERROR"),
			OrderedInserts:    viper.GetBool("SEED_ORDERED_INSERTS"),
			LockName:          viper.GetString("SEED_LOCK_NAME"),
			LockTTL:           time.Duration(viper.GetInt("SEED_LOCK_TTL")) * time.Second,
			HistoryCollection: viper.GetString("SEED_HISTORY_COLLECTION"),
			ReportPrefix:      viper.GetString("SEED_REPORT_PREFIX"),
		},
	}

	if cfg.MongoDB.ConnectAttempts < 1 {
		cfg.MongoDB.ConnectAttempts = 1
	}

	return cfg, nil
}

// LoadJWTConfig reads only the operator token settings. Commands that mint
// tokens use it so they work without a database configured.
func LoadJWTConfig() JWTConfig {
	_ = godotenv.Load()
	viper.AutomaticEnv()
	viper.SetDefault("JWT_OPERATOR_TOKEN_TTL", 60)
	return jwtConfig()
}

func jwtConfig() JWTConfig {
	return JWTConfig{
		Secret:           os.Getenv("JWT_SECRET"),
		OperatorTokenTTL: time.Duration(viper.GetInt("JWT_OPERATOR_TOKEN_TTL")) * time.Minute,
	}
}
