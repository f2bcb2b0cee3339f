// Package cky implements a bottom-up CKY chart parser for grammars in
// Chomsky Normal Form. It returns every derivation of a sentence rooted at the
// grammar's start symbol.
package cky

import (
	"context"
	"errors"

	"cky/internal/domain"
)

// ErrNodeBudget is returned when a parse would create more chart nodes than
// allowed by WithMaxNodes.
var ErrNodeBudget = errors.New("chart node budget exceeded")

// Options tunes a Parser.
type Options struct {
	// Workers > 1 fills cells of equal width concurrently.
	Workers int
	// MaxNodes > 0 bounds the number of chart nodes per sentence.
	MaxNodes int
}

type Option func(*Options)

// WithWorkers sets the number of goroutines used to fill one chart.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithMaxNodes bounds the chart size of a single parse.
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.MaxNodes = n }
}

// Parse returns every tree for tokens rooted at g.Start, using an index
// previously built from g. It returns nil for ungrammatical input.
func Parse(tokens []string, g domain.Grammar, idx *Index) []domain.Tree {
	// Without a budget or a cancellable context the fill cannot fail.
	trees, _ := run(context.Background(), tokens, g.Start, idx, Options{})
	return trees
}

// Parser holds an indexed grammar and is safe for concurrent use. Each call
// builds and discards its own chart.
type Parser struct {
	grammar domain.Grammar
	index   *Index
	hash    string
	opts    Options
}

// NewParser indexes g and returns a parser for it.
func NewParser(g domain.Grammar, hash string, opts ...Option) *Parser {
	p := &Parser{
		grammar: g,
		index:   BuildIndex(g),
		hash:    hash,
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// Parse parses tokens without limits.
func (p *Parser) Parse(tokens []string) []domain.Tree {
	return Parse(tokens, p.grammar, p.index)
}

// ParseContext parses tokens honoring ctx and the parser's options. On error
// no trees are returned.
func (p *Parser) ParseContext(ctx context.Context, tokens []string) ([]domain.Tree, error) {
	return run(ctx, tokens, p.grammar.Start, p.index, p.opts)
}

// Index returns the parser's grammar index.
func (p *Parser) Index() *Index {
	return p.index
}

// GrammarHash returns the hash the parser was created with.
func (p *Parser) GrammarHash() string {
	return p.hash
}

func run(ctx context.Context, tokens []string, start domain.Symbol, idx *Index, opts Options) ([]domain.Tree, error) {
	b := newBuilder(idx, tokens, opts)
	if err := b.fill(ctx); err != nil {
		return nil, err
	}
	return b.extract(start), nil
}
