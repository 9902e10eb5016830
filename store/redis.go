package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store and Publisher against a single Redis instance.
type Redis struct {
	client *redis.Client
	prefix string
}

// Dial parses the URL, connects and pings. The prefix namespaces pub/sub
// channels per deployment; keys are not prefixed.
func Dial(ctx context.Context, url, channelPrefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Redis{client: client, prefix: channelPrefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *Redis) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SAdd(ctx, key, args...).Err()
}

func (r *Redis) SRem(ctx context.Context, key string, members ...string) error {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SRem(ctx, key, args...).Err()
}

func (r *Redis) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return r.client.SIsMember(ctx, key, member).Result()
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	return r.client.SMembers(ctx, key).Result()
}

func (r *Redis) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

func (r *Redis) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.ZRange(ctx, key, start, stop).Result()
}

func (r *Redis) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.prefix+channel, data).Err()
}

// Subscribe opens a pattern subscription over every channel under the
// deployment prefix. The caller owns the returned subscription.
func (r *Redis) Subscribe(ctx context.Context) *redis.PubSub {
	return r.client.PSubscribe(ctx, r.prefix+"*")
}

// ChannelName strips the deployment prefix from a delivered channel.
func (r *Redis) ChannelName(full string) string {
	if len(full) >= len(r.prefix) && full[:len(r.prefix)] == r.prefix {
		return full[len(r.prefix):]
	}
	return full
}

func (r *Redis) Close() error {
	return r.client.Close()
}
