package ratings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mpdclerk/clerkd/internal/infra/blob"
)

// Store is the album rating store: a msgpack map from album key to rating,
// persisted after every state-changing mutation. Callers decide when to
// Reload; the store itself never refreshes behind their back. Several
// processes may share the file; concurrent writers race and the last writer
// wins, there is no cross-process lock.
type Store struct {
	blobs *blob.Store

	mu    sync.RWMutex
	byKey map[string]string
}

// NewStore creates a rating store backed by the given blob store.
func NewStore(blobs *blob.Store) *Store {
	return &Store{
		blobs: blobs,
		byKey: make(map[string]string),
	}
}

// Reload replaces the in-memory mapping wholesale from disk. A missing or
// empty ratings file yields an empty mapping, not an error.
func (s *Store) Reload() error {
	m := make(map[string]string)
	if err := s.blobs.Load(blob.RatingsCache, &m); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("reload ratings: %w", err)
	}

	s.mu.Lock()
	s.byKey = m
	s.mu.Unlock()
	return nil
}

// Get returns the rating stored for key, if any.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byKey[key]
	return v, ok
}

// Len returns the number of stored ratings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byKey)
}

// Apply performs a rating mutation for key and persists the whole mapping
// when state actually changed. Setting an already-stored value or unsetting
// an absent key reports changed=false and does not write.
func (s *Store) Apply(key string, change Change) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	switch change.Op {
	case OpNone:
		return false, nil
	case OpUnset:
		if _, ok := s.byKey[key]; ok {
			delete(s.byKey, key)
			changed = true
		}
	case OpSet:
		if s.byKey[key] != change.Value {
			s.byKey[key] = change.Value
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	if err := s.blobs.Save(blob.RatingsCache, s.byKey); err != nil {
		return false, fmt.Errorf("persist ratings: %w", err)
	}
	return true, nil
}
