package domain

import (
	"strconv"
	"strings"
)

// Symbol is a grammar symbol: a nonterminal name or a terminal word form.
type Symbol string

// Production is a single grammar rule LHS -> RHS.
// In CNF the RHS is either one terminal or two nonterminals.
type Production struct {
	LHS Symbol
	RHS []Symbol
}

// IsBinary reports whether the production has the form A -> B C.
func (p Production) IsBinary() bool {
	return len(p.RHS) == 2
}

// IsLexical reports whether the production has the form A -> w.
func (p Production) IsLexical() bool {
	return len(p.RHS) == 1
}

// String renders the production with quoted terminals.
func (p Production) String() string {
	var b strings.Builder
	b.WriteString(string(p.LHS))
	b.WriteString(" ->")
	for _, s := range p.RHS {
		b.WriteByte(' ')
		if p.IsLexical() {
			b.WriteString(strconv.Quote(string(s)))
		} else {
			b.WriteString(string(s))
		}
	}
	return b.String()
}

// Grammar is an immutable production set with a designated start symbol.
type Grammar struct {
	Start       Symbol
	Productions []Production
}

// Nonterminals returns every LHS symbol, in declaration order.
func (g Grammar) Nonterminals() []Symbol {
	seen := make(map[Symbol]struct{})
	var out []Symbol
	for _, p := range g.Productions {
		if _, ok := seen[p.LHS]; ok {
			continue
		}
		seen[p.LHS] = struct{}{}
		out = append(out, p.LHS)
	}
	return out
}

// Terminals returns every word form of a lexical production, in declaration order.
func (g Grammar) Terminals() []Symbol {
	seen := make(map[Symbol]struct{})
	var out []Symbol
	for _, p := range g.Productions {
		if !p.IsLexical() {
			continue
		}
		w := p.RHS[0]
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Tree is a materialized parse tree.
// A leaf carries only Word. An internal node carries Label and either a single
// leaf child (lexical rule) or two internal children (binary rule).
type Tree struct {
	Label    string `json:"label,omitempty"`
	Word     string `json:"word,omitempty"`
	Children []Tree `json:"children,omitempty"`
}

// Leaf builds a terminal leaf.
func Leaf(word string) Tree {
	return Tree{Word: word}
}

// Node builds an internal node.
func Node(label string, children ...Tree) Tree {
	return Tree{Label: label, Children: children}
}

// IsLeaf reports whether t is a terminal leaf.
func (t Tree) IsLeaf() bool {
	return t.Label == "" && len(t.Children) == 0
}

// Leaves returns the yield of the tree: its terminals from left to right.
func (t Tree) Leaves() []string {
	var out []string
	stack := []Tree{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsLeaf() {
			out = append(out, cur.Word)
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
	return out
}

// Height returns the number of levels; a leaf has height 0.
func (t Tree) Height() int {
	if t.IsLeaf() {
		return 0
	}
	h := 0
	for _, c := range t.Children {
		if ch := c.Height(); ch > h {
			h = ch
		}
	}
	return h + 1
}

// String renders the tree in single-line bracketed form.
func (t Tree) String() string {
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t Tree) writeTo(b *strings.Builder) {
	if t.IsLeaf() {
		b.WriteString(t.Word)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteByte(' ')
		c.writeTo(b)
	}
	b.WriteByte(')')
}

// ParseResult holds every derivation found for one sentence. Error is set
// when parsing was aborted, e.g. by a node budget or timeout.
type ParseResult struct {
	Sentence string   `json:"sentence"`
	Tokens   []string `json:"tokens"`
	Trees    []Tree   `json:"trees"`
	Error    string   `json:"error,omitempty"`
}

// Count returns the number of parses.
func (r ParseResult) Count() int {
	return len(r.Trees)
}

// GrammarInfo summarizes a loaded grammar.
type GrammarInfo struct {
	Hash         string `json:"hash"`
	Path         string `json:"path"`
	Start        string `json:"start"`
	Productions  int    `json:"productions"`
	Lexical      int    `json:"lexical"`
	Binary       int    `json:"binary"`
	Nonterminals int    `json:"nonterminals"`
	Terminals    int    `json:"terminals"`
}
