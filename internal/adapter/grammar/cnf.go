package grammar

import (
	"fmt"
	"strings"

	"cky/internal/domain"
)

// Violation describes one production that is not in CNF.
type Violation struct {
	Production domain.Production
	Reason     string
}

func (v Violation) String() string {
	rhs := make([]string, len(v.Production.RHS))
	for i, s := range v.Production.RHS {
		rhs[i] = string(s)
	}
	return fmt.Sprintf("%s -> %s: %s", v.Production.LHS, strings.Join(rhs, " "), v.Reason)
}

// CNFError lists every non-CNF production of a grammar.
type CNFError struct {
	Violations []Violation
}

func (e *CNFError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrNotCNF, strings.Join(parts, "; "))
}

func (e *CNFError) Unwrap() error {
	return ErrNotCNF
}

// CheckCNF reports productions of g that are neither A -> w nor A -> B C.
// Without quoting information, a unary RHS is taken to be a terminal unless it
// also appears as a left-hand side.
func CheckCNF(g domain.Grammar) []Violation {
	lhs := make(map[domain.Symbol]bool)
	for _, p := range g.Productions {
		lhs[p.LHS] = true
	}
	kinds := make([][]bool, len(g.Productions))
	for i, p := range g.Productions {
		kinds[i] = make([]bool, len(p.RHS))
		for j, s := range p.RHS {
			kinds[i][j] = !lhs[s]
		}
	}
	return checkCNF(g, kinds)
}

func checkCNF(g domain.Grammar, terminal [][]bool) []Violation {
	var out []Violation
	for i, p := range g.Productions {
		var reason string
		switch len(p.RHS) {
		case 1:
			if !terminal[i][0] {
				reason = fmt.Sprintf("unit production -> %s", p.RHS[0])
			}
		case 2:
			if terminal[i][0] || terminal[i][1] {
				reason = "terminal in binary production"
			}
		default:
			reason = fmt.Sprintf("right-hand side has %d symbols", len(p.RHS))
		}
		if reason != "" {
			out = append(out, Violation{Production: p, Reason: reason})
		}
	}

	hasStart := false
	for _, p := range g.Productions {
		if p.LHS == g.Start {
			hasStart = true
			break
		}
	}
	if !hasStart && len(g.Productions) > 0 {
		out = append(out, Violation{
			Production: domain.Production{LHS: g.Start},
			Reason:     "start symbol has no productions",
		})
	}
	return out
}
