package cky

import "cky/internal/domain"

type pairKey struct {
	left, right domain.Symbol
}

// Index is a read-only lookup view of a CNF grammar keyed by right-hand side.
// It is built once and may be shared by any number of concurrent parses.
type Index struct {
	start   domain.Symbol
	lexical map[domain.Symbol][]domain.Symbol
	binary  map[pairKey][]domain.Symbol

	numLexical int
	numBinary  int
}

// BuildIndex indexes the productions of g in one pass.
// Productions that are neither A -> w nor A -> B C are ignored.
func BuildIndex(g domain.Grammar) *Index {
	idx := &Index{
		start:   g.Start,
		lexical: make(map[domain.Symbol][]domain.Symbol),
		binary:  make(map[pairKey][]domain.Symbol),
	}

	for _, p := range g.Productions {
		switch len(p.RHS) {
		case 1:
			w := p.RHS[0]
			if !containsSymbol(idx.lexical[w], p.LHS) {
				idx.lexical[w] = append(idx.lexical[w], p.LHS)
				idx.numLexical++
			}
		case 2:
			key := pairKey{left: p.RHS[0], right: p.RHS[1]}
			if !containsSymbol(idx.binary[key], p.LHS) {
				idx.binary[key] = append(idx.binary[key], p.LHS)
				idx.numBinary++
			}
		}
	}

	return idx
}

// Start returns the grammar's start symbol.
func (idx *Index) Start() domain.Symbol {
	return idx.start
}

// ByTerminal returns every A with A -> word, in declaration order.
// The returned slice must not be modified.
func (idx *Index) ByTerminal(word domain.Symbol) []domain.Symbol {
	return idx.lexical[word]
}

// ByPair returns every A with A -> b c, in declaration order.
// The returned slice must not be modified.
func (idx *Index) ByPair(b, c domain.Symbol) []domain.Symbol {
	return idx.binary[pairKey{left: b, right: c}]
}

// NumLexical returns the number of distinct indexed lexical productions.
func (idx *Index) NumLexical() int {
	return idx.numLexical
}

// NumBinary returns the number of distinct indexed binary productions.
func (idx *Index) NumBinary() int {
	return idx.numBinary
}

func containsSymbol(list []domain.Symbol, s domain.Symbol) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
