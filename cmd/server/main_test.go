package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/HammerMeetNail/pitchside/internal/config"
	"github.com/HammerMeetNail/pitchside/internal/database"
	"github.com/HammerMeetNail/pitchside/internal/logging"
)

func noEnv(string) (string, bool) { return "", false }

func TestResolveWriteRateLimit_Production(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "production"},
		RateLimit: config.RateLimitConfig{WritesPerWindow: 60},
	}

	if limit := resolveWriteRateLimit(cfg, logger, noEnv); limit != 60 {
		t.Fatalf("expected 60, got %d", limit)
	}
}

func TestResolveWriteRateLimit_DevelopmentDefault(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "development"},
		RateLimit: config.RateLimitConfig{WritesPerWindow: 60},
	}

	if limit := resolveWriteRateLimit(cfg, logger, noEnv); limit != 600 {
		t.Fatalf("expected dev limit 600, got %d", limit)
	}
}

func TestResolveWriteRateLimit_DevelopmentExplicitEnv(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "development"},
		RateLimit: config.RateLimitConfig{WritesPerWindow: 5},
	}

	limit := resolveWriteRateLimit(cfg, logger, func(key string) (string, bool) {
		return "5", key == "RATE_LIMIT_WRITES"
	})
	if limit != 5 {
		t.Fatalf("expected explicit limit 5, got %d", limit)
	}
}

func TestResolveWriteRateLimit_NonPositiveFallsBack(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})
	cfg := &config.Config{Server: config.ServerConfig{Environment: "production"}}

	if limit := resolveWriteRateLimit(cfg, logger, noEnv); limit != 60 {
		t.Fatalf("expected fallback 60, got %d", limit)
	}
}

func TestResolveRecomputeTimeout(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})
	cfg := &config.Config{Ratings: config.RatingsConfig{RecomputeTimeout: 3 * time.Second}}

	if got := resolveRecomputeTimeout(cfg, logger, noEnv); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}

	cfg.Ratings.RecomputeTimeout = 0
	if got := resolveRecomputeTimeout(cfg, logger, noEnv); got != 10*time.Second {
		t.Fatalf("expected default 10s, got %v", got)
	}
}

func TestResolveRecomputeTimeout_WarnsOnInvalidEnv(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New().SetOutput(buf)
	cfg := &config.Config{Ratings: config.RatingsConfig{RecomputeTimeout: 10 * time.Second}}

	got := resolveRecomputeTimeout(cfg, logger, func(string) (string, bool) { return "soon", true })
	if got != 10*time.Second {
		t.Fatalf("expected fallback 10s, got %v", got)
	}
	if !strings.Contains(buf.String(), "RATINGS_RECOMPUTE_TIMEOUT") {
		t.Fatalf("expected warning, got %s", buf.String())
	}
}

func TestResolvePoolSettings(t *testing.T) {
	logger := logging.New().SetOutput(&bytes.Buffer{})

	if got := resolvePoolSettings(logger, noEnv); got != database.DefaultPoolSettings {
		t.Fatalf("expected defaults, got %+v", got)
	}

	got := resolvePoolSettings(logger, func(string) (string, bool) { return "1", true })
	if got.MaxConns != 1 || got.MinConns != 1 {
		t.Fatalf("expected max 1 and clamped min, got %+v", got)
	}

	got = resolvePoolSettings(logger, func(string) (string, bool) { return "zero", true })
	if got.MaxConns != database.DefaultPoolSettings.MaxConns {
		t.Fatalf("expected default on invalid env, got %+v", got)
	}
}
