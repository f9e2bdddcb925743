// Package health probes the storefront's two dependencies: the backend API and
// the local redis state store.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Probe checks dependency reachability before interactive flows start.
type Probe struct {
	HTTP           *http.Client
	APIBaseURL     string
	Redis          *redis.Client
	BackendTimeout time.Duration
	RedisTimeout   time.Duration
}

// Status reports the outcome per dependency, "ok" or the failure reason.
type Status struct {
	Backend string `json:"backend"`
	Redis   string `json:"redis"`
}

// Healthy reports whether every probe passed.
func (s Status) Healthy() bool {
	return s.Backend == "ok" && s.Redis == "ok"
}

// Check probes both dependencies.
func (p Probe) Check(ctx context.Context) Status {
	status := Status{Backend: "ok", Redis: "ok"}
	if err := p.pingBackend(ctx); err != nil {
		status.Backend = err.Error()
	}
	if err := p.pingRedis(ctx); err != nil {
		status.Redis = err.Error()
	}
	return status
}

func (p Probe) pingBackend(ctx context.Context) error {
	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, p.backendTimeout())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.APIBaseURL+"/products", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}

func (p Probe) pingRedis(ctx context.Context) error {
	if p.Redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.redisTimeout())
	defer cancel()
	return p.Redis.Ping(ctx).Err()
}

func (p Probe) backendTimeout() time.Duration {
	if p.BackendTimeout <= 0 {
		return 2 * time.Second
	}
	return p.BackendTimeout
}

func (p Probe) redisTimeout() time.Duration {
	if p.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return p.RedisTimeout
}
