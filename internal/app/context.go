package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/cache"
	"github.com/oggyb/desire-match/internal/config"
	"github.com/oggyb/desire-match/internal/storage"
	"github.com/oggyb/desire-match/internal/token"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.).
// Services receive it at construction time; nothing reads globals.
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Config     *config.Config
	Photos     *storage.PhotoStore
	Tokens     *token.Issuer
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, cfg *config.Config) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Config:     cfg,
		Photos:     &storage.PhotoStore{},
		Tokens:     token.NewIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
	}
}
