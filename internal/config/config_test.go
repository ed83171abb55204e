package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("MATCH_PAIR_LOCK", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg := New()

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "root:secret@tcp(localhost:3306)/desireyourlove?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.True(t, cfg.Match.PairLock)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 12, cfg.Match.PotentialMatchLimit)
}

func TestNew_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "dating")
	t.Setenv("DB_PORT", "")

	cfg := New()

	assert.Equal(t, "host=db user=app password=pw dbname=dating port=5432 sslmode=disable TimeZone=UTC", cfg.DB.DSN)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("MATCH_PAIR_LOCK", "off")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("MATCH_PAIR_LOCK_TTL", "750ms")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("APP_ENV", "development")

	cfg := New()

	assert.False(t, cfg.Match.PairLock)
	assert.Equal(t, 48*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 750*time.Millisecond, cfg.Match.PairLockTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
}
