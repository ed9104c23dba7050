package analyzer

import (
	"hash/fnv"
	"sync"

	"apilens/internal/model"
)

// Cache memoizes parse results per document path. Each entry is keyed by a
// content fingerprint: when the content changes the old result is discarded
// wholesale and rebuilt, there is no partial invalidation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	shared  *model.TypeCatalog
}

type cacheEntry struct {
	fingerprint uint64
	result      *DocumentResult
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// WithSharedTypes sets a project-wide type catalog used when classifying
// body parameters. Call before the first Parse; changing it later does not
// invalidate existing entries.
func (c *Cache) WithSharedTypes(catalog *model.TypeCatalog) *Cache {
	c.shared = catalog
	return c
}

// Fingerprint returns the FNV-1a hash of the document content.
func Fingerprint(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// Get returns the cached result for path if its fingerprint still matches
// content, or nil on a miss.
func (c *Cache) Get(path, content string) *DocumentResult {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok || entry.fingerprint != Fingerprint(content) {
		return nil
	}
	return entry.result
}

// Parse returns the endpoint model for the document at path, reusing the
// cached result when the content is unchanged.
func (c *Cache) Parse(path, content string) *DocumentResult {
	fp := Fingerprint(content)

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.fingerprint == fp {
		return entry.result
	}

	result := ParseDocumentWithTypes(content, c.shared)

	c.mu.Lock()
	c.entries[path] = cacheEntry{fingerprint: fp, result: result}
	c.mu.Unlock()

	return result
}

// Invalidate drops the cached entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
