package drafts

import (
	"context"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=memory file redis mongo"`

	// Dir is the file backend's directory.
	Dir string `mapstructure:"dir"`

	// URL is the redis or mongo connection string.
	URL string `mapstructure:"url" validate:"required_if=Backend redis,required_if=Backend mongo"`

	// Database is the mongo database. Prefix namespaces redis keys.
	Database string `mapstructure:"database"`
	Prefix   string `mapstructure:"prefix"`
}

// Open creates the store named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.URL, cfg.Prefix)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.URL, cfg.Database)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown draft backend %q (must be one of: memory, file, redis, mongo)", cfg.Backend)
}
