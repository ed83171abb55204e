package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver          string // mysql | postgres | sqlite
		DSN             string
		Host            string
		Port            string
		User            string
		Password        string
		Name            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host        string
		Port        string
		CORSOrigins []string
		RateLimit   float64 // requests per second per client, 0 disables
	}

	// GRPC is the ops listener (health + reflection).
	GRPC struct {
		Host string
		Port string
	}

	JWT struct {
		Secret string
		TTL    time.Duration
	}

	Match struct {
		PairLock            bool
		PairLockTTL         time.Duration
		PotentialMatchLimit int
	}

	S3 struct {
		Bucket          string
		Region          string
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		PresignTTL      time.Duration
	}

	Sentry struct {
		DSN              string
		TracesSampleRate float64
	}
}

// New builds the config from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "api")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DB.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DB.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	cfg.DB.DSN = os.Getenv("DB_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	}
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "")
		cfg.DB.Name = getEnvDefault("DB_NAME", "desireyourlove")

		switch cfg.DB.Driver {
		case "postgres":
			cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port,
			)
		case "sqlite":
			cfg.DB.DSN = getEnvDefault("SQLITE_PATH", cfg.DB.Name+".db")
		default:
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("PORT", "5000")
	cfg.HTTP.CORSOrigins = splitList(getEnvDefault("CORS_ORIGINS", "http://localhost:3000"))
	if v, err := strconv.ParseFloat(getEnvDefault("RATE_LIMIT_RPS", "20"), 64); err == nil {
		cfg.HTTP.RateLimit = v
	}

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// JWT
	cfg.JWT.Secret = getEnvDefault("JWT_SECRET", "")
	cfg.JWT.TTL = getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour)

	// Matching
	cfg.Match.PairLock = isTruthy(getEnvDefault("MATCH_PAIR_LOCK", "true"))
	cfg.Match.PairLockTTL = getEnvDuration("MATCH_PAIR_LOCK_TTL", 5*time.Second)
	cfg.Match.PotentialMatchLimit = getEnvInt("POTENTIAL_MATCH_LIMIT", 12)

	// S3
	cfg.S3.Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3.Region = getEnvDefault("AWS_REGION", "us-east-1")
	cfg.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.S3.PresignTTL = getEnvDuration("S3_PRESIGN_TTL", 5*time.Minute)

	// Sentry
	cfg.Sentry.DSN = os.Getenv("SENTRY_DSN")
	if v, err := strconv.ParseFloat(getEnvDefault("SENTRY_TRACES_SAMPLE_RATE", "0.2"), 64); err == nil {
		cfg.Sentry.TracesSampleRate = v
	}

	return cfg
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.App.ENV == "development"
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return v
	}
	return def
}

// getEnvDuration accepts Go durations ("90s") and the "7d" day shorthand.
func getEnvDuration(k string, def time.Duration) time.Duration {
	v := getEnvDefault(k, "")
	if v == "" {
		return def
	}
	if strings.HasSuffix(v, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(v, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
