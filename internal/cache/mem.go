package cache

import (
	"context"
	"sync"
	"time"
)

type memStore struct {
	mu    sync.RWMutex
	byKey map[string]Entry
}

func newMemStore() *memStore {
	return &memStore{byKey: make(map[string]Entry)}
}

func (m *memStore) Get(ctx context.Context, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byKey[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *memStore) Put(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[e.Key] = e
	return nil
}

func (m *memStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.byKey {
		if olderThan.IsZero() || e.CreatedAt.Before(olderThan) {
			delete(m.byKey, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var st Stats
	for _, e := range m.byKey {
		st.Entries++
		st.Bytes += int64(len(e.Result))
		if st.Oldest.IsZero() || e.CreatedAt.Before(st.Oldest) {
			st.Oldest = e.CreatedAt
		}
		if e.CreatedAt.After(st.Newest) {
			st.Newest = e.CreatedAt
		}
	}
	return st, nil
}

func (m *memStore) Close() error { return nil }
