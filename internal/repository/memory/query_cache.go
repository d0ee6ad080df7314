package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// QueryCache is the read-model cache for listings and stats. Entries are
// keyed by user and query parameters and dropped wholesale for a user when
// any of their notes mutate.
type QueryCache struct {
	cache *cache.Cache
}

func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// Key builds a cache key scoped to one user. The user prefix is what
// InvalidateUser matches on.
func (c *QueryCache) Key(userId uuid.UUID, parts ...string) string {
	return userId.String() + "|" + strings.Join(parts, ":")
}

func (c *QueryCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *QueryCache) Set(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

// InvalidateUser drops every cached read model belonging to the user.
func (c *QueryCache) InvalidateUser(userId uuid.UUID) {
	prefix := userId.String() + "|"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}
