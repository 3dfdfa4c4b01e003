package session

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"shopadmin/internal/config"
)

// StorageAuthorizeKey is the key the auth token is stored under
const StorageAuthorizeKey = "authorization"

// ErrNotFound is returned by Store.Get for a missing or cleared key
var ErrNotFound = errors.New("session: key not found")

// Store persists string values by key. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// NewStore selects the driver named by cfg.Session.Driver. client is only
// used by the redis driver.
func NewStore(cfg *config.Config, client goredis.Cmdable) (Store, error) {
	switch cfg.Session.Driver {
	case "file", "":
		return NewFileStore(cfg.Session.File), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis session driver needs a redis client")
		}
		return NewRedisStore(client, cfg.Session.KeyPrefix), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session driver: %q", cfg.Session.Driver)
	}
}
