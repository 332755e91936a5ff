// Package db holds the Postgres connection helpers shared by the dataset loader.
package db

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Pool is the subset of *pgxpool.Pool the loaders use. pgxmock.PgxPoolIface
// satisfies it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// ConnectOptions bounds the startup connection attempts.
type ConnectOptions struct {
	Attempts int           // total tries including the first; default 3
	Backoff  time.Duration // delay before the first retry, doubled per retry; default 500ms
}

func (o ConnectOptions) withDefaults() ConnectOptions {
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Backoff <= 0 {
		o.Backoff = 500 * time.Millisecond
	}
	return o
}

// Connect opens a pool for dsn and verifies it with a ping. Transient
// failures (refused or reset connections, timeouts, a server still starting
// up) are retried with exponential backoff; anything else fails at once.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, eris.New("db: no database_url configured")
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: parse database_url")
	}
	opts = opts.withDefaults()

	var lastErr error
	attempt := 1
	for ; ; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if attempt >= opts.Attempts || ctx.Err() != nil || !IsTransient(err) {
			break
		}

		delay := opts.Backoff << (attempt - 1)
		zap.L().Warn("db: retrying connection",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, eris.Wrap(lastErr, "db: connect cancelled")
		case <-timer.C:
		}
	}
	return nil, eris.Wrapf(lastErr, "db: connect failed after %d attempt(s)", attempt)
}

// IsTransient reports whether a connection error is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// cannot_connect_now, too_many_connections
		return pgErr.Code == "57P03" || pgErr.Code == "53300"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset by peer",
		"i/o timeout",
		"temporary failure in name resolution",
		"the database system is starting up",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// QualifiedTable sanitizes a possibly schema-qualified table name such as
// "fed_data.faskes_clusters".
func QualifiedTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
