package persistence

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/config"
)

func TestNilRedisIsSafe(t *testing.T) {
	var r *Redis
	r.Close()
	if err := r.Ping(context.Background()); err == nil {
		t.Error("Ping() on nil Redis should fail")
	}
	if _, err := r.Backlog(context.Background(), "k"); err == nil {
		t.Error("Backlog() on nil Redis should fail")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	if _, err := NewPostgres(context.Background(), config.PostgresConfig{}, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
