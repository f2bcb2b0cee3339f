package port

import (
	"context"

	"cky/internal/domain"
)

// SentenceParser returns every derivation of a tokenized sentence.
// Implementations must be safe for concurrent use.
type SentenceParser interface {
	// ParseContext parses one sentence. An ungrammatical sentence yields
	// an empty slice and a nil error.
	ParseContext(ctx context.Context, tokens []string) ([]domain.Tree, error)

	// GrammarHash identifies the grammar the parser was built from.
	GrammarHash() string
}
