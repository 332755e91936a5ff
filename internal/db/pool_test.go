package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifiedTable(t *testing.T) {
	assert.Equal(t, `"faskes"`, QualifiedTable("faskes"))
	assert.Equal(t, `"fed_data"."faskes_clusters"`, QualifiedTable("fed_data.faskes_clusters"))
	assert.Equal(t, `"bad""name"`, QualifiedTable(`bad"name`))
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", ConnectOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database_url")
}

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://user@host:notaport/db", ConnectOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database_url")
}

func TestConnect_RetriesRefused(t *testing.T) {
	// Port 1 on loopback refuses connections.
	dsn := "postgres://faskes@127.0.0.1:1/faskes?connect_timeout=2&sslmode=disable"
	start := time.Now()
	_, err := Connect(context.Background(), dsn, ConnectOptions{Attempts: 2, Backoff: 5 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempt(s)")
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestConnect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dsn := "postgres://faskes@127.0.0.1:1/faskes?connect_timeout=2&sslmode=disable"
	_, err := Connect(ctx, dsn, ConnectOptions{Attempts: 5, Backoff: time.Hour})
	require.Error(t, err)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"timeout", fmt.Errorf("connect: %w", timeoutErr{}), true},
		{"starting up", &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"bad password", &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}, false},
		{"message only", errors.New("failed to connect: connection refused"), true},
		{"other", errors.New("relation does not exist"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
