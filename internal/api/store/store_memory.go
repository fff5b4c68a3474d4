package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the non-durable Store used in development and tests. It
// holds exactly one value per key and never expires entries.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) GetLastCity(_ context.Context) (string, error) {
	if v, found := s.c.Get(lastCityKey); found {
		return v.(string), nil
	}
	return "", nil
}

func (s *MemoryStore) SetLastCity(_ context.Context, city string) error {
	s.c.Set(lastCityKey, city, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) GetLastWeather(_ context.Context) ([]byte, error) {
	if v, found := s.c.Get(lastWeatherKey); found {
		return v.([]byte), nil
	}
	return nil, nil
}

func (s *MemoryStore) SetLastWeather(_ context.Context, raw []byte) error {
	s.c.Set(lastWeatherKey, raw, cache.NoExpiration)
	return nil
}
