package config

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort     string
	AppVersion  string
	DatabaseURL string
	DBMaxConns  int32
	DBTimeout   time.Duration

	LogLevel string
	LogJSON  bool

	// Rate limiting (fixed window, per client IP)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	CORSAllowed  []string
	OTLPEndpoint string // empty disables tracing
	JWTSecret    string // empty disables bearer auth

	// Board policy
	AllowEmptyBoards   bool
	StrictTaskWorkflow bool
}

// Load reads the environment (and .env when present). Invalid config is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromViper(newViper())
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_TIMEOUT_SECONDS", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("API_RATE_LIMIT", 100)
	v.SetDefault("API_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("ALLOW_EMPTY_BOARDS", true)
	v.SetDefault("STRICT_TASK_WORKFLOW", false)
	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	port := v.GetString("APP_PORT")
	if port == "" {
		port = v.GetString("PORT")
	}
	if port == "" {
		port = "8081"
	}

	limit := v.GetInt("API_RATE_LIMIT")
	if limit <= 0 {
		limit = 100
	}
	window := v.GetInt("API_RATE_WINDOW_SECONDS")
	if window <= 0 {
		window = 60
	}
	timeout := v.GetInt("DB_TIMEOUT_SECONDS")
	if timeout <= 0 {
		timeout = 30
	}
	maxConns := v.GetInt32("DB_MAX_CONNS")
	if maxConns <= 0 {
		maxConns = 10
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		AppPort:            port,
		AppVersion:         v.GetString("APP_VERSION"),
		DatabaseURL:        dbURL,
		DBMaxConns:         maxConns,
		DBTimeout:          time.Duration(timeout) * time.Second,
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogJSON:            v.GetBool("LOG_JSON"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		APIRateLimit:       limit,
		APIRateWindow:      time.Duration(window) * time.Second,
		CORSAllowed:        origins,
		JWTSecret:          v.GetString("JWT_SECRET"),
		OTLPEndpoint:       v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		AllowEmptyBoards:   v.GetBool("ALLOW_EMPTY_BOARDS"),
		StrictTaskWorkflow: v.GetBool("STRICT_TASK_WORKFLOW"),
	}, nil
}
