// Package clients consumes the external client/user store read-only. The
// directory only feeds the client-selection control and display strings;
// this service never writes to the user store.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"letsarc/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKey = "letsarc:clients:directory"

// Client mirrors the user store's wire shape.
type Client struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

type Directory struct {
	baseURL    string
	httpClient *http.Client
	rdb        *redis.Client
	ttl        time.Duration
	logger     *zap.Logger
}

// NewDirectory builds a directory over the user store at baseURL. rdb may be
// nil, in which case every lookup goes upstream.
func NewDirectory(baseURL string, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		rdb:        rdb,
		ttl:        ttl,
		logger:     logger,
	}
}

// List returns the known clients, serving from the Redis cache when fresh.
func (d *Directory) List(ctx context.Context) ([]Client, error) {
	if d.rdb != nil {
		cached, err := d.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var clients []Client
			if jsonErr := json.Unmarshal(cached, &clients); jsonErr == nil {
				metrics.IncrementClientDirectoryFetch("cache")
				return clients, nil
			}
			// Corrupt entry; drop it and fall through to the upstream fetch.
			d.rdb.Del(ctx, cacheKey)
		} else if !errors.Is(err, redis.Nil) {
			d.logger.Warn("Client directory cache read failed", zap.Error(err))
		}
	}

	clients, err := d.fetch(ctx)
	if err != nil {
		metrics.IncrementClientDirectoryFetch("error")
		return nil, err
	}
	metrics.IncrementClientDirectoryFetch("upstream")

	if d.rdb != nil {
		if body, err := json.Marshal(clients); err == nil {
			if err := d.rdb.Set(ctx, cacheKey, body, d.ttl).Err(); err != nil {
				d.logger.Warn("Client directory cache write failed", zap.Error(err))
			}
		}
	}

	return clients, nil
}

func (d *Directory) fetch(ctx context.Context) ([]Client, error) {
	url := d.baseURL + "/api/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error("User store request failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("User store returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("user store returned status %d", resp.StatusCode)
	}

	var clients []Client
	if err := json.NewDecoder(resp.Body).Decode(&clients); err != nil {
		return nil, fmt.Errorf("failed to decode user store response: %w", err)
	}
	return clients, nil
}
