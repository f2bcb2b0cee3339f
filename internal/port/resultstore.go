package port

import "cky/internal/domain"

// ResultStore persists parse results per grammar, keyed by sentence text.
type ResultStore interface {
	PutGrammar(info domain.GrammarInfo) error

	GetGrammar(hash string) (domain.GrammarInfo, error)

	PutResult(grammarHash string, result domain.ParseResult) error

	// GetResult returns the stored result and whether an entry exists.
	GetResult(grammarHash, sentence string) (domain.ParseResult, bool, error)

	Close() error
}
