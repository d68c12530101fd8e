package cache

import (
	"fmt"

	"github.com/aidat/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds cache stores from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(config.RedisConfig) (*redis.Client, error)
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable redis degrades to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns a connected redis client, or nil when redis is disabled
// or unreachable and fallback is allowed.
func (f *Factory) Client() (*redis.Client, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("redis disabled, using in-memory stores")
		return nil, nil
	}

	client, err := f.connect(f.redisConfig)
	if err == nil {
		f.logger.Info("using redis", zap.String("addr", f.redisConfig.Addr()))
		return client, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("redis unavailable, falling back to in-memory stores; "+
		"cached data is not shared across instances",
		zap.String("addr", f.redisConfig.Addr()),
		zap.Error(err),
	)
	return nil, nil
}

// NewStore returns a redis store on client, or an in-memory store when client is nil
func NewStore(client *redis.Client, keyPrefix string) Store {
	if client == nil {
		return NewInMemoryStore()
	}
	return NewRedisStore(client, keyPrefix)
}
