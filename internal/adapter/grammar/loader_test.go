package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cky/internal/domain"
)

const toyCFG = `# toy grammar
S -> NP VP
NP -> Det N
VP -> V NP

Det -> 'the'
N -> 'dog' | "cat"   # two nouns
V -> 'chased'`

func TestLoad_ToyGrammar(t *testing.T) {
	l := NewLoader("", true, nil)

	g, info, err := l.Load("toy.cfg", toyCFG)
	require.NoError(t, err)

	assert.Equal(t, domain.Symbol("S"), g.Start)
	require.Len(t, g.Productions, 7)
	assert.Equal(t, domain.Production{LHS: "S", RHS: []domain.Symbol{"NP", "VP"}}, g.Productions[0])
	assert.Equal(t, domain.Production{LHS: "N", RHS: []domain.Symbol{"dog"}}, g.Productions[4])
	assert.Equal(t, domain.Production{LHS: "N", RHS: []domain.Symbol{"cat"}}, g.Productions[5])

	assert.Equal(t, "toy.cfg", info.Path)
	assert.Equal(t, "S", info.Start)
	assert.Equal(t, 7, info.Productions)
	assert.Equal(t, 4, info.Lexical)
	assert.Equal(t, 3, info.Binary)
	assert.Equal(t, 6, info.Nonterminals)
	assert.Equal(t, 4, info.Terminals)
	assert.Len(t, info.Hash, 16)
}

func TestLoad_StartSymbol(t *testing.T) {
	src := "%start VP\nS -> NP VP\nVP -> V NP\nNP -> 'x'\nV -> 'y'\n"

	g, _, err := NewLoader("", true, nil).Load("g", src)
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol("VP"), g.Start)

	g, _, err = NewLoader("NP", true, nil).Load("g", src)
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol("NP"), g.Start, "explicit start overrides the directive")
}

func TestLoad_QuotedTerminals(t *testing.T) {
	src := `A -> 'don\'t' | "say \"hi\"" | ',' | '->'` + "\n"

	g, _, err := NewLoader("", true, nil).Load("g", src)
	require.NoError(t, err)

	var words []string
	for _, p := range g.Productions {
		words = append(words, string(p.RHS[0]))
	}
	assert.Equal(t, []string{"don't", `say "hi"`, ",", "->"}, words)
}

func TestLoad_HyphenatedNonterminals(t *testing.T) {
	g, _, err := NewLoader("", true, nil).Load("g", "S->NP-SBJ VP\nNP-SBJ -> 'a'\nVP -> 'b'\n")
	require.NoError(t, err)
	assert.Equal(t, []domain.Symbol{"NP-SBJ", "VP"}, g.Productions[0].RHS)
}

func TestLoad_SyntaxError(t *testing.T) {
	cases := map[string]string{
		"missing arrow": "S NP VP\n",
		"empty rhs":     "S ->\n",
		"dangling pipe": "S -> A |\n",
		"unterminated":  "S -> 'abc\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := NewLoader("", true, nil).Load("bad.cfg", src)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	_, _, err := NewLoader("", true, nil).Load("empty.cfg", "# nothing here\n\n")
	assert.Error(t, err)
}

func TestLoad_NonCNF(t *testing.T) {
	src := "S -> NP VP PP\nS -> NP\nNP -> 'the' N\nN -> 'dog'\nVP -> 'runs'\nPP -> 'in'\n"

	_, _, err := NewLoader("", true, nil).Load("g", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotCNF)

	var cnfErr *CNFError
	require.ErrorAs(t, err, &cnfErr)
	assert.Len(t, cnfErr.Violations, 3)

	g, _, err := NewLoader("", false, nil).Load("g", src)
	require.NoError(t, err, "lenient mode only warns")
	assert.Len(t, g.Productions, 6)
}

func TestLoad_UnknownStart(t *testing.T) {
	_, _, err := NewLoader("ROOT", true, nil).Load("g", toyCFG)
	assert.ErrorIs(t, err, ErrNotCNF)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.cfg")
	require.NoError(t, os.WriteFile(path, []byte(toyCFG), 0644))

	g, info, err := NewLoader("", true, nil).LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, g.Productions, 7)
	assert.Equal(t, path, info.Path)

	_, _, err = NewLoader("", true, nil).LoadFile(filepath.Join(t.TempDir(), "missing.cfg"))
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	l := NewLoader("", true, nil)
	a, _, err := l.Load("a", toyCFG)
	require.NoError(t, err)
	b, _, err := l.Load("b", "# same rules, different layout\n"+toyCFG+"\n\n")
	require.NoError(t, err)

	assert.Equal(t, Hash(a), Hash(b))

	b.Productions = b.Productions[:6]
	assert.NotEqual(t, Hash(a), Hash(b))
}

func TestCheckCNF(t *testing.T) {
	g := domain.Grammar{
		Start: "S",
		Productions: []domain.Production{
			{LHS: "S", RHS: []domain.Symbol{"A", "B"}},
			{LHS: "S", RHS: []domain.Symbol{"A"}},
			{LHS: "A", RHS: []domain.Symbol{"a"}},
			{LHS: "B", RHS: []domain.Symbol{"b", "B"}},
		},
	}

	v := CheckCNF(g)
	require.Len(t, v, 2)
	assert.Equal(t, "S -> A: unit production -> A", v[0].String())
	assert.Equal(t, "terminal in binary production", v[1].Reason)
}
