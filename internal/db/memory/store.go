// Package memory is a process-local db.Store used for development and tests.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/db"
)

var _ db.Store = (*Store)(nil)

type blob struct {
	value     []byte
	expiresAt time.Time
}

type member struct {
	name  string
	score float64
}

// Store keeps hashes, blobs and sorted sets in maps guarded by one RWMutex.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	blobs  map[string]blob
	zsets  map[string]map[string]float64
	now    func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		hashes: make(map[string]map[string]string),
		blobs:  make(map[string]blob),
		zsets:  make(map[string]map[string]float64),
		now:    time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// HSet merges fields into the hash at key.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hsetLocked(key, fields)
	return nil
}

// HSetMulti merges every item under a single lock.
func (s *Store) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.hsetLocked(item.Key, item.Fields)
	}
	return nil
}

func (s *Store) hsetLocked(key string, fields map[string]string) {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	maps.Copy(h, fields)
}

// HGetAll returns a copy of the hash; missing keys yield an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.hashes[key]), nil
}

// HGetAllMulti returns copies of several hashes in key order.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = maps.Clone(s.hashes[k])
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

// Exists reports whether a key of any type is present.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.hashes[key]; ok {
		return true, nil
	}
	if b, ok := s.blobs[key]; ok && !s.expired(b) {
		return true, nil
	}
	_, ok := s.zsets[key]
	return ok, nil
}

// Del removes keys of any type.
func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.hashes, k)
		delete(s.blobs, k)
		delete(s.zsets, k)
	}
	return nil
}

// HSetNX sets field only if it is absent and reports whether it did.
func (s *Store) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[key][field]; ok {
		return false, nil
	}
	s.hsetLocked(key, map[string]string{field: value})
	return true, nil
}

// HCompareAndSet merges fields only while field still equals expected.
func (s *Store) HCompareAndSet(
	_ context.Context, key, field, expected string, fields map[string]string,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.hashes[key][field]
	if !ok || cur != expected {
		return false, nil
	}
	s.hsetLocked(key, fields)
	return true, nil
}

// Get returns a copy of the blob at key or db.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok || s.expired(b) {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), b.value...), nil
}

// Set stores a blob without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{value: append([]byte(nil), value...)}
	return nil
}

// SetWithTTL stores a blob that expires after ttl; ttl <= 0 keeps it forever.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := blob{value: append([]byte(nil), value...)}
	if ttl > 0 {
		b.expiresAt = s.now().Add(ttl)
	}
	s.blobs[key] = b
	return nil
}

func (s *Store) expired(b blob) bool {
	return !b.expiresAt.IsZero() && !s.now().Before(b.expiresAt)
}

// ZAdd inserts or rescores a member.
func (s *Store) ZAdd(_ context.Context, key string, score float64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zsets[key]
	if !ok {
		z = make(map[string]float64)
		s.zsets[key] = z
	}
	z[name] = score
	return nil
}

// ZRevRange orders by score descending, then member descending, like ZRANGE REV.
func (s *Store) ZRevRange(_ context.Context, key string, offset, limit int) ([]string, error) {
	s.mu.RLock()
	members := make([]member, 0, len(s.zsets[key]))
	for name, score := range s.zsets[key] {
		members = append(members, member{name: name, score: score})
	}
	s.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		if members[i].score != members[j].score {
			return members[i].score > members[j].score
		}
		return members[i].name > members[j].name
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(members) {
		return []string{}, nil
	}
	end := len(members)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]string, 0, end-offset)
	for _, m := range members[offset:end] {
		out = append(out, m.name)
	}
	return out, nil
}

// ZRem removes members; the set is dropped once empty.
func (s *Store) ZRem(_ context.Context, key string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zsets[key]
	if !ok {
		return nil
	}
	for _, n := range names {
		delete(z, n)
	}
	if len(z) == 0 {
		delete(s.zsets, key)
	}
	return nil
}

// ZCard returns the member count.
func (s *Store) ZCard(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.zsets[key])), nil
}
