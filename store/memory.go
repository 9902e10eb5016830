package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory implements Store and Publisher in process. It backs the tests and
// lets the server run without Redis during development. Sorted-set entries
// with equal scores keep insertion order.
type Memory struct {
	mu    sync.RWMutex
	kv    map[string]string
	sets  map[string]map[string]struct{}
	zsets map[string][]zentry
	subs  []func(channel string, payload []byte)
}

type zentry struct {
	score  float64
	member string
}

func NewMemory() *Memory {
	return &Memory{
		kv:    make(map[string]string),
		sets:  make(map[string]map[string]struct{}),
		zsets: make(map[string][]zentry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.kv[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *Memory) SAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	if set == nil {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}
	return nil
}

func (m *Memory) SRem(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	for _, member := range members {
		delete(set, member)
	}
	return nil
}

func (m *Memory) SIsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *Memory) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *Memory) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.zsets[key]
	for i, e := range entries {
		if e.member == member {
			entries[i].score = score
			m.zsets[key] = entries
			m.resort(key)
			return nil
		}
	}
	m.zsets[key] = append(entries, zentry{score: score, member: member})
	m.resort(key)
	return nil
}

func (m *Memory) resort(key string) {
	entries := m.zsets[key]
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score < entries[j].score
	})
}

func (m *Memory) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.zsets[key]
	n := int64(len(entries))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if start >= n || stop < start {
		return []string{}, nil
	}
	if stop >= n {
		stop = n - 1
	}
	members := make([]string, 0, stop-start+1)
	for _, e := range entries[start : stop+1] {
		members = append(members, e.member)
	}
	return members, nil
}

func (m *Memory) Publish(_ context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		return err
	}
	m.mu.RLock()
	subs := make([]func(string, []byte), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(channel, data)
	}
	return nil
}

// Subscribe registers a callback invoked synchronously on every publish.
func (m *Memory) Subscribe(fn func(channel string, payload []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}
