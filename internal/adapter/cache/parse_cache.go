package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"cky/internal/domain"
	"cky/internal/port"
)

// ParseCache is an in-memory LRU of parse results with a TTL.
// Invalidate drops every entry, including those read concurrently.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	gen     uint64
	now     func() time.Time
}

type cacheEntry struct {
	trees     []domain.Tree
	timestamp time.Time
	gen       uint64
}

func NewParseCache(maxSize int, ttl time.Duration) *ParseCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ParseCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(grammarHash string, tokens []string) string {
	h := sha256.New()
	h.Write([]byte(grammarHash))
	for _, tok := range tokens {
		h.Write([]byte{0})
		h.Write([]byte(tok))
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func (c *ParseCache) Get(grammarHash string, tokens []string) ([]domain.Tree, bool) {
	key := cacheKey(grammarHash, tokens)

	c.mu.RLock()
	entry, exists := c.entries[key]
	currentGen := c.gen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	expired := c.now().Sub(entry.timestamp) > c.ttl || entry.gen != currentGen

	// A concurrent Put may have replaced or evicted the entry since the read.
	c.mu.Lock()
	if c.entries[key] == entry {
		if expired {
			delete(c.entries, key)
			c.removeFromOrder(key)
		} else {
			c.moveToEnd(key)
		}
	}
	c.mu.Unlock()

	if expired {
		return nil, false
	}

	return entry.trees, true
}

func (c *ParseCache) Put(grammarHash string, tokens []string, trees []domain.Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(grammarHash, tokens)
	entry := &cacheEntry{
		trees:     trees,
		timestamp: c.now(),
		gen:       c.gen,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *ParseCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.gen++
}

func (c *ParseCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ParseCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ParseCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ParseCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedParser serves repeated sentences from a ParseCache.
type CachedParser struct {
	parser port.SentenceParser
	cache  *ParseCache
}

func NewCachedParser(parser port.SentenceParser, cache *ParseCache) *CachedParser {
	return &CachedParser{
		parser: parser,
		cache:  cache,
	}
}

func (p *CachedParser) ParseContext(ctx context.Context, tokens []string) ([]domain.Tree, error) {
	hash := p.parser.GrammarHash()
	if trees, hit := p.cache.Get(hash, tokens); hit {
		return trees, nil
	}

	trees, err := p.parser.ParseContext(ctx, tokens)
	if err != nil {
		return nil, err
	}

	p.cache.Put(hash, tokens, trees)

	return trees, nil
}

func (p *CachedParser) GrammarHash() string {
	return p.parser.GrammarHash()
}
