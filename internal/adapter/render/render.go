// Package render formats parse trees as text.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"cky/internal/domain"
	"cky/internal/port"
)

// DefaultMargin is the line width Pretty tries to stay within.
const DefaultMargin = 70

// New returns the renderer for format: "bracket", "pretty" or "json".
func New(format string, margin int) (port.Renderer, error) {
	switch format {
	case "bracket":
		return Bracket{}, nil
	case "pretty", "":
		return Pretty{Margin: margin}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// Bracket renders a tree on a single line: (S (NP (Det the) (N dog)) ...).
type Bracket struct{}

func (Bracket) Render(t domain.Tree) string {
	return t.String()
}

// JSON renders a tree as a single-line JSON object with label, word and
// children fields.
type JSON struct{}

func (JSON) Render(t domain.Tree) string {
	data, err := json.Marshal(t)
	if err != nil {
		// Tree holds only strings and slices of Tree.
		panic(fmt.Sprintf("render: encoding tree: %v", err))
	}
	return string(data)
}

// Pretty renders a tree on one line when it fits strictly within Margin
// columns and otherwise puts every child, leaves included, on its own line
// indented two spaces deeper than its parent.
type Pretty struct {
	Margin int
}

func (p Pretty) Render(t domain.Tree) string {
	margin := p.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}
	var b strings.Builder
	p.write(&b, t, 0, margin)
	return b.String()
}

func (p Pretty) write(b *strings.Builder, t domain.Tree, indent, margin int) {
	flat := t.String()
	if t.IsLeaf() || indent+len(flat) < margin {
		b.WriteString(flat)
		return
	}

	b.WriteByte('(')
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", indent+2))
		p.write(b, c, indent+2, margin)
	}
	b.WriteByte(')')
}
