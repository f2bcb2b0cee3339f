package cky

import (
	"sort"
	"strings"

	"cky/internal/domain"
)

// grammarOf builds a grammar from rules written as "A -> B C" or "A -> 'w'".
// The start symbol is the LHS of the first rule.
func grammarOf(rules ...string) domain.Grammar {
	var g domain.Grammar
	for _, r := range rules {
		lhs, rhs, _ := strings.Cut(r, "->")
		p := domain.Production{LHS: domain.Symbol(strings.TrimSpace(lhs))}
		for _, f := range strings.Fields(rhs) {
			p.RHS = append(p.RHS, domain.Symbol(strings.Trim(f, `'`)))
		}
		if g.Start == "" {
			g.Start = p.LHS
		}
		g.Productions = append(g.Productions, p)
	}
	return g
}

func toyGrammar() domain.Grammar {
	return grammarOf(
		"S -> NP VP",
		"NP -> Det N",
		"VP -> V NP",
		"Det -> 'the'",
		"N -> 'dog'",
		"N -> 'cat'",
		"V -> 'chased'",
	)
}

func ppGrammar() domain.Grammar {
	return grammarOf(
		"S -> NP VP",
		"NP -> Det N",
		"NP -> NP PP",
		"NP -> 'I'",
		"VP -> V NP",
		"VP -> VP PP",
		"PP -> P NP",
		"Det -> 'the'",
		"N -> 'man'",
		"N -> 'telescope'",
		"V -> 'saw'",
		"P -> 'with'",
	)
}

// enumerate lists every derivation of sym over tokens[i:j] directly from the
// production list, without a chart.
func enumerate(g domain.Grammar, sym domain.Symbol, tokens []string, i, j int) []domain.Tree {
	var out []domain.Tree
	for _, p := range g.Productions {
		if p.LHS != sym {
			continue
		}
		switch {
		case p.IsLexical() && j == i+1 && string(p.RHS[0]) == tokens[i]:
			out = append(out, domain.Node(string(sym), domain.Leaf(tokens[i])))
		case p.IsBinary() && j > i+1:
			for k := i + 1; k < j; k++ {
				for _, l := range enumerate(g, p.RHS[0], tokens, i, k) {
					for _, r := range enumerate(g, p.RHS[1], tokens, k, j) {
						out = append(out, domain.Node(string(sym), l, r))
					}
				}
			}
		}
	}
	return out
}

func sortedStrings(trees []domain.Tree) []string {
	out := make([]string, len(trees))
	for i, t := range trees {
		out[i] = t.String()
	}
	sort.Strings(out)
	return out
}

// licensed reports whether every node of t is justified by a production of g.
func licensed(g domain.Grammar, t domain.Tree) bool {
	has := func(lhs string, rhs ...string) bool {
	next:
		for _, p := range g.Productions {
			if string(p.LHS) != lhs || len(p.RHS) != len(rhs) {
				continue
			}
			for i := range rhs {
				if string(p.RHS[i]) != rhs[i] {
					continue next
				}
			}
			return true
		}
		return false
	}

	stack := []domain.Tree{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case len(cur.Children) == 1 && cur.Children[0].IsLeaf():
			if !has(cur.Label, cur.Children[0].Word) {
				return false
			}
		case len(cur.Children) == 2:
			if !has(cur.Label, cur.Children[0].Label, cur.Children[1].Label) {
				return false
			}
			stack = append(stack, cur.Children...)
		default:
			return false
		}
	}
	return true
}
