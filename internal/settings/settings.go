package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	KeyMapProvider     = "map_provider"
	KeyLegendCollapsed = "legend_collapsed"
	KeyPlaybackSpeed   = "playback_speed"
)

var ErrUnknownKey = errors.New("unknown setting key")

// defaults apply until a pilot overrides a key.
var defaults = map[string]string{
	KeyMapProvider:     "openstreetmap",
	KeyLegendCollapsed: "false",
	KeyPlaybackSpeed:   "1",
}

// Repository stores per-pilot preferences. Callers depend on this interface,
// not on the redis implementation behind it.
type Repository interface {
	Get(ctx context.Context, pilotID, key string) (string, error)
	Set(ctx context.Context, pilotID, key, value string) error
	All(ctx context.Context, pilotID string) (map[string]string, error)
}

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func settingsKey(pilotID string) string {
	return "settings:" + pilotID
}

func (r *RedisRepository) Get(ctx context.Context, pilotID, key string) (string, error) {
	def, ok := defaults[key]
	if !ok {
		return "", ErrUnknownKey
	}

	val, err := r.client.HGet(ctx, settingsKey(pilotID), key).Result()
	if errors.Is(err, redis.Nil) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisRepository) Set(ctx context.Context, pilotID, key, value string) error {
	if _, ok := defaults[key]; !ok {
		return ErrUnknownKey
	}
	return r.client.HSet(ctx, settingsKey(pilotID), key, value).Err()
}

// All returns every setting with defaults filled in for unset keys.
func (r *RedisRepository) All(ctx context.Context, pilotID string) (map[string]string, error) {
	stored, err := r.client.HGetAll(ctx, settingsKey(pilotID)).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(defaults))
	for k, def := range defaults {
		if v, ok := stored[k]; ok {
			out[k] = v
		} else {
			out[k] = def
		}
	}
	return out, nil
}
