package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"cky/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

var (
	bucketGrammars = []byte("grammars")
	bucketParses   = []byte("parses")
	bucketStats    = []byte("stats")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketGrammars, bucketParses, bucketStats}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type parseRecord struct {
	Sentence string        `json:"sentence"`
	Tokens   []string      `json:"tokens"`
	Trees    []domain.Tree `json:"trees"`
	Stored   int64         `json:"stored"`
}

// resultKey is "<grammar hash>/<sentence digest>" so that all results of one
// grammar share a prefix.
func resultKey(grammarHash, sentence string) []byte {
	sum := sha256.Sum256([]byte(sentence))
	return []byte(grammarHash + "/" + hex.EncodeToString(sum[:16]))
}

func (s *BoltStore) PutGrammar(info domain.GrammarInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketGrammars).Put([]byte(info.Hash), data)
	})
}

func (s *BoltStore) GetGrammar(hash string) (domain.GrammarInfo, error) {
	var info domain.GrammarInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketGrammars).Get([]byte(hash))
		if data == nil {
			return fmt.Errorf("grammar %s: %w", hash, ErrNotFound)
		}
		return json.Unmarshal(data, &info)
	})
	return info, err
}

func (s *BoltStore) ListGrammars() ([]domain.GrammarInfo, error) {
	var out []domain.GrammarInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGrammars).ForEach(func(k, v []byte) error {
			var info domain.GrammarInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return err
			}
			out = append(out, info)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) PutResult(grammarHash string, result domain.ParseResult) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(parseRecord{
			Sentence: result.Sentence,
			Tokens:   result.Tokens,
			Trees:    result.Trees,
			Stored:   time.Now().Unix(),
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketParses).Put(resultKey(grammarHash, result.Sentence), data)
	})
}

func (s *BoltStore) GetResult(grammarHash, sentence string) (domain.ParseResult, bool, error) {
	var result domain.ParseResult
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketParses).Get(resultKey(grammarHash, sentence))
		if data == nil {
			return nil
		}
		var rec parseRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		// Digest collisions are treated as misses.
		if rec.Sentence != sentence {
			return nil
		}
		result = domain.ParseResult{
			Sentence: rec.Sentence,
			Tokens:   rec.Tokens,
			Trees:    rec.Trees,
		}
		found = true
		return nil
	})
	return result, found, err
}

// DeleteResults removes every stored result of one grammar.
func (s *BoltStore) DeleteResults(grammarHash string) (int, error) {
	deleted := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		prefix := []byte(grammarHash + "/")
		c := tx.Bucket(bucketParses).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
			if err := c.Delete(); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// StoreStats counts stored records.
type StoreStats struct {
	Grammars  int            `json:"grammars"`
	Parses    int            `json:"parses"`
	ByGrammar map[string]int `json:"by_grammar"`
}

func (s *BoltStore) Stats() (StoreStats, error) {
	stats := StoreStats{ByGrammar: make(map[string]int)}
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.Grammars = tx.Bucket(bucketGrammars).Stats().KeyN
		return tx.Bucket(bucketParses).ForEach(func(k, _ []byte) error {
			hash, _, _ := bytes.Cut(k, []byte("/"))
			stats.ByGrammar[string(hash)]++
			stats.Parses++
			return nil
		})
	})
	return stats, err
}
