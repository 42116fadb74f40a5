package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/crime-dashboard/internal/domain/repository"
)

// queryCache - кеш агрегаций в памяти процесса.
// Данные набора неизменны между перезагрузками, поэтому сброс делается целиком через Flush.
type queryCache struct {
	store *gocache.Cache
}

// NewQueryCache создаёт кеш с TTL; ttl <= 0 - записи без срока жизни
func NewQueryCache(ttl time.Duration) repository.QueryCache {
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &queryCache{store: gocache.New(expiration, cleanup)}
}

func (c *queryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *queryCache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

func (c *queryCache) Flush() {
	c.store.Flush()
}
