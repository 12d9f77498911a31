package airspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"backend-flightlog/internal/geo"

	"github.com/redis/go-redis/v9"
)

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Zone is one airspace volume as served by the remote provider.
type Zone struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Class    string          `json:"class"`
	FloorM   float64         `json:"floor_m"`
	CeilingM float64         `json:"ceiling_m"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

// Result carries zones plus a flag marking them as served from the stale
// cache because the remote was unreachable.
type Result struct {
	Zones []Zone `json:"zones"`
	Stale bool   `json:"stale"`
}

// Client fetches airspace by bounding box from a remote service, caching
// responses in redis. A nil redis client disables caching.
type Client struct {
	http    *http.Client
	baseURL string
	redis   *redis.Client
	ttl     time.Duration
}

func NewClient(baseURL string, ttlSec int, redisClient *redis.Client) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		redis:   redisClient,
		ttl:     time.Duration(ttlSec) * time.Second,
	}
}

func cacheKey(b geo.Bounds) string {
	return fmt.Sprintf("airspace:%.3f:%.3f:%.3f:%.3f", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
}

// ZonesForBounds serves from the fresh cache when possible, otherwise asks
// the remote. When the remote is down, the last known zones for the box come
// back marked stale so clients can degrade instead of failing.
func (c *Client) ZonesForBounds(ctx context.Context, b geo.Bounds) (Result, error) {
	key := cacheKey(b)

	if zones, ok := c.cached(ctx, key); ok {
		return Result{Zones: zones}, nil
	}

	zones, err := c.fetch(ctx, b)
	if err != nil {
		if zones, ok := c.cached(ctx, "stale:"+key); ok {
			return Result{Zones: zones, Stale: true}, nil
		}
		return Result{}, err
	}

	c.store(ctx, key, zones)
	return Result{Zones: zones}, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]Zone, bool) {
	if c.redis == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var zones []Zone
	if err := json.Unmarshal(raw, &zones); err != nil {
		return nil, false
	}
	return zones, true
}

func (c *Client) store(ctx context.Context, key string, zones []Zone) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(zones)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, raw, c.ttl)
	// the stale copy never expires and backs the offline fallback
	c.redis.Set(ctx, "stale:"+key, raw, 0)
}

func (c *Client) fetch(ctx context.Context, b geo.Bounds) ([]Zone, error) {
	url := fmt.Sprintf("%s/airspaces?min_lat=%f&min_lng=%f&max_lat=%f&max_lng=%f",
		c.baseURL, b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("airspace service returned %d", resp.StatusCode)
			continue
		}

		var zones []Zone
		err = json.NewDecoder(resp.Body).Decode(&zones)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return zones, nil
	}
	if lastErr == nil {
		lastErr = errors.New("airspace fetch failed")
	}
	return nil, lastErr
}
