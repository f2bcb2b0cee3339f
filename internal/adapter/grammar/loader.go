package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"cky/internal/domain"
)

// ErrNotCNF is returned in strict mode when a grammar has non-CNF productions.
var ErrNotCNF = errors.New("grammar is not in Chomsky Normal Form")

// Loader reads grammar files.
type Loader struct {
	start     string
	strictCNF bool
	logger    *zap.Logger
}

// NewLoader creates a loader. A non-empty start overrides both a %start
// directive and the default start symbol, the LHS of the first rule.
func NewLoader(start string, strictCNF bool, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		start:     start,
		strictCNF: strictCNF,
		logger:    logger,
	}
}

// LoadFile reads and parses the grammar at path.
func (l *Loader) LoadFile(path string) (domain.Grammar, domain.GrammarInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Grammar{}, domain.GrammarInfo{}, fmt.Errorf("failed to read grammar: %w", err)
	}

	g, info, err := l.Load(path, string(data))
	if err != nil {
		return domain.Grammar{}, domain.GrammarInfo{}, err
	}
	return g, info, nil
}

// Load parses grammar source text. name is used in error positions.
func (l *Loader) Load(name, src string) (domain.Grammar, domain.GrammarInfo, error) {
	g, kinds, err := parseSource(name, src)
	if err != nil {
		return domain.Grammar{}, domain.GrammarInfo{}, err
	}
	if len(g.Productions) == 0 {
		return domain.Grammar{}, domain.GrammarInfo{}, fmt.Errorf("grammar %s has no productions", name)
	}

	if l.start != "" {
		g.Start = domain.Symbol(l.start)
	}

	if violations := checkCNF(g, kinds); len(violations) > 0 {
		if l.strictCNF {
			return domain.Grammar{}, domain.GrammarInfo{}, &CNFError{Violations: violations}
		}
		for _, v := range violations {
			l.logger.Warn("non-CNF production", zap.String("grammar", name), zap.String("production", v.String()))
		}
	}

	info := Describe(g)
	info.Path = name
	return g, info, nil
}

// parseSource returns the grammar together with, for every production, which
// RHS symbols were written as quoted terminals.
func parseSource(name, src string) (domain.Grammar, [][]bool, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}

	file, err := cfgParser.ParseString(name, src)
	if err != nil {
		return domain.Grammar{}, nil, fmt.Errorf("failed to parse grammar: %w", err)
	}

	var g domain.Grammar
	var kinds [][]bool
	var declared domain.Symbol
	for _, entry := range file.Entries {
		if entry.Start != nil {
			declared = domain.Symbol(*entry.Start)
			continue
		}
		rule := entry.Rule
		lhs := domain.Symbol(rule.LHS)
		if g.Start == "" {
			g.Start = lhs
		}
		for _, alt := range rule.Alternatives {
			p := domain.Production{LHS: lhs}
			terminal := make([]bool, 0, len(alt.Symbols))
			for _, s := range alt.Symbols {
				if s.Terminal != nil {
					p.RHS = append(p.RHS, domain.Symbol(*s.Terminal))
					terminal = append(terminal, true)
				} else {
					p.RHS = append(p.RHS, domain.Symbol(*s.Nonterminal))
					terminal = append(terminal, false)
				}
			}
			g.Productions = append(g.Productions, p)
			kinds = append(kinds, terminal)
		}
	}
	if declared != "" {
		g.Start = declared
	}
	return g, kinds, nil
}

// Describe summarizes g and computes its content hash.
func Describe(g domain.Grammar) domain.GrammarInfo {
	info := domain.GrammarInfo{
		Hash:         Hash(g),
		Start:        string(g.Start),
		Productions:  len(g.Productions),
		Nonterminals: len(g.Nonterminals()),
		Terminals:    len(g.Terminals()),
	}
	for _, p := range g.Productions {
		switch {
		case p.IsLexical():
			info.Lexical++
		case p.IsBinary():
			info.Binary++
		}
	}
	return info
}

// Hash identifies a grammar by its start symbol and ordered productions.
func Hash(g domain.Grammar) string {
	h := sha256.New()
	fmt.Fprintf(h, "start %q\n", g.Start)
	for _, p := range g.Productions {
		fmt.Fprintf(h, "%q", p.LHS)
		for _, s := range p.RHS {
			fmt.Fprintf(h, " %q", s)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
