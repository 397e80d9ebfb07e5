package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

type entry struct {
	b   []byte
	exp time.Time
}

// KV is an in-process stand-in for the redis store. Values are stored as
// JSON so callers never share memory with what they saved.
type KV struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

var _ domain.KV = (*KV)(nil)

func NewKV() *KV { return &KV{m: map[string]entry{}, now: time.Now} }

func (s *KV) Get(ctx context.Context, key string, dst any) (bool, error) {
	s.mu.Lock()
	e, ok := s.m[key]
	if ok && !e.exp.IsZero() && !s.now().Before(e.exp) {
		delete(s.m, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		observability.ObserveSession("memory", "miss")
		return false, nil
	}
	observability.ObserveSession("memory", "hit")
	return true, json.Unmarshal(e.b, dst)
}

func (s *KV) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := entry{b: b}
	if ttl > 0 {
		e.exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	observability.ObserveSession("memory", "set")
	return nil
}

func (s *KV) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	observability.ObserveSession("memory", "del")
	return nil
}
