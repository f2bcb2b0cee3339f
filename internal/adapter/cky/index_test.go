package cky

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cky/internal/domain"
)

func TestBuildIndex_Lookups(t *testing.T) {
	idx := BuildIndex(toyGrammar())

	assert.Equal(t, domain.Symbol("S"), idx.Start())
	assert.Equal(t, []domain.Symbol{"N"}, idx.ByTerminal("dog"))
	assert.Equal(t, []domain.Symbol{"Det"}, idx.ByTerminal("the"))
	assert.Equal(t, []domain.Symbol{"S"}, idx.ByPair("NP", "VP"))
	assert.Equal(t, []domain.Symbol{"VP"}, idx.ByPair("V", "NP"))
	assert.Equal(t, 4, idx.NumLexical())
	assert.Equal(t, 3, idx.NumBinary())
}

func TestBuildIndex_MissingKeysAreEmpty(t *testing.T) {
	idx := BuildIndex(toyGrammar())

	assert.Empty(t, idx.ByTerminal("unicorn"))
	assert.Empty(t, idx.ByPair("VP", "NP"), "pair order matters")
	assert.Empty(t, idx.ByPair("S", "S"))
}

func TestBuildIndex_DeclarationOrderAndDedup(t *testing.T) {
	g := grammarOf(
		"S -> A B",
		"X -> A B",
		"S -> A B",
		"A -> 'w'",
		"B -> 'w'",
		"A -> 'w'",
	)
	idx := BuildIndex(g)

	assert.Equal(t, []domain.Symbol{"S", "X"}, idx.ByPair("A", "B"))
	assert.Equal(t, []domain.Symbol{"A", "B"}, idx.ByTerminal("w"))
	assert.Equal(t, 2, idx.NumBinary())
	assert.Equal(t, 2, idx.NumLexical())
}

func TestBuildIndex_IgnoresOtherArities(t *testing.T) {
	g := domain.Grammar{
		Start: "S",
		Productions: []domain.Production{
			{LHS: "S", RHS: []domain.Symbol{"A", "B", "C"}},
			{LHS: "S"},
		},
	}
	idx := BuildIndex(g)

	assert.Zero(t, idx.NumBinary())
	assert.Zero(t, idx.NumLexical())
}

func TestBuildIndex_RepeatedQueriesAreStable(t *testing.T) {
	idx := BuildIndex(ppGrammar())

	first := idx.ByPair("NP", "PP")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, idx.ByPair("NP", "PP"))
	}
}
