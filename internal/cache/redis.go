package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/metrics"
)

// UnreadTTL is how long an unread-notification counter lives without access.
const UnreadTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// UserCard is the display data the feed attaches to events.
type UserCard struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return &RedisCache{Client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

//
// Geocoding
//

// KeyForAddress normalizes an address into its geocode cache key.
func (c *RedisCache) KeyForAddress(address string) string {
	return "geo:addr:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// GetPoint returns the cached coordinates of an address. found is false on miss.
func (c *RedisCache) GetPoint(ctx context.Context, address string) (geo.Point, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForAddress(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return geo.Point{}, false, nil
	} else if err != nil {
		return geo.Point{}, false, err
	}

	var p geo.Point
	if err := json.Unmarshal(val, &p); err != nil {
		return geo.Point{}, false, fmt.Errorf("decode cached point: %w", err)
	}
	return p, true, nil
}

func (c *RedisCache) SetPoint(ctx context.Context, address string, p geo.Point, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.KeyForAddress(address), b, ttl).Err()
}

//
// User cards
//

func (c *RedisCache) KeyForUserCard(userID string) string {
	return "users:card:" + userID
}

// GetCards returns the cached cards for ids. Missing ids are absent from the map.
func (c *RedisCache) GetCards(ctx context.Context, ids []string) (map[string]UserCard, error) {
	out := make(map[string]UserCard, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.KeyForUserCard(id)
	}

	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var card UserCard
		if err := json.Unmarshal([]byte(s), &card); err == nil {
			out[ids[i]] = card
		}
	}
	return out, nil
}

// SetCards writes cards in one pipeline.
func (c *RedisCache) SetCards(ctx context.Context, cards []UserCard, ttl time.Duration) error {
	if len(cards) == 0 {
		return nil
	}
	pipe := c.Client.Pipeline()
	for _, card := range cards {
		b, err := json.Marshal(card)
		if err != nil {
			return err
		}
		pipe.Set(ctx, c.KeyForUserCard(card.ID), b, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) InvalidateCard(ctx context.Context, userID string) error {
	return c.Client.Del(ctx, c.KeyForUserCard(userID)).Err()
}

//
// Unread notification counters
//

// KeyForUnreadCount generates Redis key for a user's unread notification count
func (c *RedisCache) KeyForUnreadCount(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// GetUnreadCount returns the cached counter. found is false on miss.
func (c *RedisCache) GetUnreadCount(ctx context.Context, userID string) (int64, bool, error) {
	key := c.KeyForUnreadCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, UnreadTTL).Err()
	return n, true, nil
}

func (c *RedisCache) SetUnreadCount(ctx context.Context, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(userID), count, UnreadTTL).Err()
}

// decrIfPresent adjusts a live counter without creating it or going below zero.
var decrIfPresent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
local v = redis.call('DECRBY', KEYS[1], ARGV[1])
if v < 0 then
	redis.call('SET', KEYS[1], 0)
	v = 0
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return v
`)

// IncrUnread raises a live counter by n. Returns -1 when nothing was cached,
// leaving the next read to recount from the DB.
func (c *RedisCache) IncrUnread(ctx context.Context, userID string, n int64) (int64, error) {
	return c.DecrUnread(ctx, userID, -n)
}

// DecrUnread lowers the cached counter by n. Returns -1 when nothing was cached.
func (c *RedisCache) DecrUnread(ctx context.Context, userID string, n int64) (int64, error) {
	return decrIfPresent.Run(ctx, c.Client,
		[]string{c.KeyForUnreadCount(userID)},
		n, int64(UnreadTTL/time.Second),
	).Int64()
}

//
// Hooks
//

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}
