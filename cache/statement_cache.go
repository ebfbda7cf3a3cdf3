package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/querykit/database"
)

// Preparer is the part of database.Conn the statement cache needs.
type Preparer interface {
	Prepare(ctx context.Context, query string) (database.Stmt, error)
}

// StatementCache keeps prepared statements keyed by query fingerprint and
// closes them when they fall out of the cache.
type StatementCache struct {
	cache *lru.Cache[uint64, database.Stmt]
	mu    sync.RWMutex
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = 256
	}
	cache, _ := lru.NewWithEvict(size, func(key uint64, stmt database.Stmt) {
		_ = stmt.Close()
	})

	return &StatementCache{
		cache: cache,
	}
}

func (s *StatementCache) Get(key uint64) (database.Stmt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Get(key)
}

func (s *StatementCache) GetOrPrepare(ctx context.Context, key uint64, db Preparer, query string) (database.Stmt, error) {
	// Fast path: try to get from cache with read lock
	s.mu.RLock()
	if stmt, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return stmt, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := db.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, stmt)
	return stmt, nil
}

// Remove drops and closes the statement stored under key.
func (s *StatementCache) Remove(key uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge() // This will trigger the evict callback for all items
	return nil
}
