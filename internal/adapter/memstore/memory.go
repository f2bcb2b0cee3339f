package memstore

import (
	"fmt"
	"sync"

	"cky/internal/domain"
)

type resultKey struct {
	grammar  string
	sentence string
}

// MemoryStore is a ResultStore that keeps everything in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	grammars map[string]domain.GrammarInfo
	results  map[resultKey]domain.ParseResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grammars: make(map[string]domain.GrammarInfo),
		results:  make(map[resultKey]domain.ParseResult),
	}
}

func (s *MemoryStore) PutGrammar(info domain.GrammarInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grammars[info.Hash] = info
	return nil
}

func (s *MemoryStore) GetGrammar(hash string) (domain.GrammarInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.grammars[hash]
	if !ok {
		return domain.GrammarInfo{}, fmt.Errorf("grammar not found: %s", hash)
	}
	return info, nil
}

func (s *MemoryStore) ListGrammars() ([]domain.GrammarInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GrammarInfo, 0, len(s.grammars))
	for _, info := range s.grammars {
		out = append(out, info)
	}
	return out, nil
}

func (s *MemoryStore) PutResult(grammarHash string, result domain.ParseResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey{grammarHash, result.Sentence}] = result
	return nil
}

func (s *MemoryStore) GetResult(grammarHash, sentence string) (domain.ParseResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[resultKey{grammarHash, sentence}]
	return res, ok, nil
}

// DeleteResults removes every result of one grammar and returns how many were dropped.
func (s *MemoryStore) DeleteResults(grammarHash string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.results {
		if k.grammar == grammarHash {
			delete(s.results, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored results.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *MemoryStore) Close() error {
	return nil
}
