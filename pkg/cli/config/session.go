package config

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/infra/store"
	"github.com/urfave/cli/v3"
)

// Session holds session store configuration
type Session struct {
	Store    string
	RedisURL string
	TTL      time.Duration
}

// Flags returns CLI flags for session store configuration
func (c *Session) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-store",
			Usage:       "Session store backend (memory, redis)",
			Value:       "memory",
			Destination: &c.Store,
			Sources:     cli.EnvVars("UNIDL_SESSION_STORE"),
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL for the redis session store (redis://host:6379/0)",
			Destination: &c.RedisURL,
			Sources:     cli.EnvVars("UNIDL_REDIS_URL"),
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which a session and its pending file are dropped",
			Value:       store.DefaultTTL,
			Destination: &c.TTL,
			Sources:     cli.EnvVars("UNIDL_SESSION_TTL"),
		},
	}
}

// Build creates the configured store. The returned function releases it.
func (c *Session) Build(ctx context.Context) (interfaces.SessionStore, func(), error) {
	switch c.Store {
	case "memory", "":
		return store.NewMemory(c.TTL), func() {}, nil

	case "redis":
		if c.RedisURL == "" {
			return nil, nil, goerr.New("redis-url is required for the redis session store")
		}
		r, err := store.NewRedis(ctx, c.RedisURL, c.TTL)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown session store", goerr.V("store", c.Store))
	}
}
