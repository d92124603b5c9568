// Package memory implements repository.KV on an in-process go-cache.
//
// Nothing expires: the store mirrors localStorage, which keeps a draft until
// it is explicitly cleared. Contents are lost when the process exits.
package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/zadnan82/newcv-sub002/internal/repository"
)

var _ repository.KV = (*Store)(nil)

// Store is safe for concurrent use; go-cache locks internally.
type Store struct {
	c *cache.Cache
}

// New returns an empty store. The janitor is disabled because no item can
// expire.
func New() *Store {
	return &Store{c: cache.New(cache.NoExpiration, 0)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false, nil
	}
	str, _ := v.(string)
	return str, true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	return s.c.ItemCount()
}
