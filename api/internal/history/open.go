package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/redis/go-redis/v9"
)

// Options selects and configures a Store backend.
type Options struct {
	Backend   string // file|postgres|redis|memory
	Dir       string
	DSN       string
	RedisAddr string
	RedisDB   int
}

// Open builds the configured Store. The returned close func releases its connections.
func Open(ctx context.Context, o Options) (Store, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(o.Backend)) {
	case "", "file":
		s, err := NewFileStore(o.Dir)
		return s, noop, err
	case "memory":
		return NewMemoryStore(), noop, nil
	case "postgres":
		if o.DSN == "" {
			return nil, noop, fmt.Errorf("history: postgres backend needs a DSN")
		}
		db, err := sql.Open("pgx", o.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("sql.Open: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(time.Hour)

		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("db.Ping: %w", err)
		}
		s := NewPostgresStore(db)
		if err := s.EnsureSchema(pctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("history schema: %w", err)
		}
		return s, db.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: o.RedisAddr, DB: o.RedisDB})
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisStore(client, ""), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("history: unknown backend %q", o.Backend)
	}
}
