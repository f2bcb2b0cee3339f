package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cky/internal/domain"
)

func treesFor(label string) []domain.Tree {
	return []domain.Tree{domain.Node(label, domain.Leaf("w"))}
}

func TestParseCache_PutGet(t *testing.T) {
	c := NewParseCache(10, time.Minute)

	c.Put("g1", []string{"a", "b"}, treesFor("S"))

	trees, ok := c.Get("g1", []string{"a", "b"})
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(trees) != 1 || trees[0].Label != "S" {
		t.Errorf("unexpected trees: %v", trees)
	}

	if _, ok := c.Get("g2", []string{"a", "b"}); ok {
		t.Error("different grammar must miss")
	}
	if _, ok := c.Get("g1", []string{"ab"}); ok {
		t.Error("token boundaries must be part of the key")
	}
}

func TestParseCache_EmptyResultIsCached(t *testing.T) {
	c := NewParseCache(10, time.Minute)
	c.Put("g", []string{"x"}, nil)

	trees, ok := c.Get("g", []string{"x"})
	if !ok {
		t.Fatal("ungrammatical sentences are cached too")
	}
	if len(trees) != 0 {
		t.Errorf("expected no trees, got %d", len(trees))
	}
}

func TestParseCache_Eviction(t *testing.T) {
	c := NewParseCache(2, time.Minute)

	c.Put("g", []string{"1"}, nil)
	c.Put("g", []string{"2"}, nil)
	c.Get("g", []string{"1"})
	c.Put("g", []string{"3"}, nil)

	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	if _, ok := c.Get("g", []string{"2"}); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get("g", []string{"1"}); !ok {
		t.Error("recently used entry should survive")
	}
}

func TestParseCache_ConcurrentGetPutKeepsOrderConsistent(t *testing.T) {
	c := NewParseCache(4, time.Minute)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tokens := []string{strconv.Itoa((w + i) % 12)}
				if i%2 == 0 {
					c.Put("g", tokens, nil)
				} else {
					c.Get("g", tokens)
				}
			}
		}(w)
	}
	wg.Wait()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) > 4 {
		t.Errorf("cache grew past max size: %d entries", len(c.entries))
	}
	if len(c.order) != len(c.entries) {
		t.Fatalf("order has %d keys, entries has %d", len(c.order), len(c.entries))
	}
	for _, k := range c.order {
		if _, ok := c.entries[k]; !ok {
			t.Errorf("order holds evicted key %s", k)
		}
	}
}

func TestParseCache_TTL(t *testing.T) {
	c := NewParseCache(10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("g", []string{"a"}, nil)
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("g", []string{"a"}); ok {
		t.Error("expired entry should miss")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry should be removed, size %d", c.Size())
	}
}

func TestParseCache_Invalidate(t *testing.T) {
	c := NewParseCache(10, time.Minute)
	c.Put("g", []string{"a"}, nil)
	c.Invalidate()

	if _, ok := c.Get("g", []string{"a"}); ok {
		t.Error("invalidated entry should miss")
	}
}

type countingParser struct {
	calls atomic.Int32
	err   error
}

func (p *countingParser) ParseContext(ctx context.Context, tokens []string) ([]domain.Tree, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return treesFor("S"), nil
}

func (p *countingParser) GrammarHash() string { return "h" }

func TestCachedParser(t *testing.T) {
	inner := &countingParser{}
	p := NewCachedParser(inner, NewParseCache(10, time.Minute))

	for i := 0; i < 3; i++ {
		trees, err := p.ParseContext(context.Background(), []string{"a"})
		if err != nil {
			t.Fatal(err)
		}
		if len(trees) != 1 {
			t.Fatalf("expected 1 tree, got %d", len(trees))
		}
	}
	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected 1 underlying parse, got %d", got)
	}
	if p.GrammarHash() != "h" {
		t.Errorf("expected hash h, got %s", p.GrammarHash())
	}
}

func TestCachedParser_ErrorsAreNotCached(t *testing.T) {
	inner := &countingParser{err: errors.New("boom")}
	p := NewCachedParser(inner, NewParseCache(10, time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := p.ParseContext(context.Background(), []string{"a"}); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("expected 2 underlying parses, got %d", got)
	}
}
