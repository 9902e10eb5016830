// Package store abstracts the key-value store and pub/sub channel the
// protocols run against. The relationship graph and chat logs live entirely
// in the store; the server keeps no durable state of its own.
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is the command surface the protocols need: plain values for user
// records, sets for the friend graph, and a sorted set per chat acting as an
// append-only message log scored by timestamp.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Publisher delivers a named event to a channel. Delivery is fire-and-forget;
// callers treat a publish error as advisory and never roll back on it.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// Event is the envelope carried on every channel.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
