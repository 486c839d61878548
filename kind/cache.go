package kind

import "sync"

// Cache builds each (kind name, policy) schema at most once. Kind names must
// be unique within the kinds that share a Cache.
type Cache struct {
	m sync.Map // cacheKey -> *cacheEntry
}

type cacheKey struct {
	kind   string
	policy Policy
}

type cacheEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// Get returns the cached schema of k under p, building it on first use.
// Concurrent first calls for the same key build once.
func (c *Cache) Get(k Kind, p Policy) (*Schema, error) {
	v, _ := c.m.LoadOrStore(cacheKey{kind: k.Name, policy: p}, &cacheEntry{})
	e := v.(*cacheEntry)
	e.once.Do(func() {
		e.schema, e.err = Build(k, p)
	})
	return e.schema, e.err
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

var shared Cache

// Shared returns the process-wide cache.
func Shared() *Cache { return &shared }
