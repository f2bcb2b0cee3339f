package cky

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"cky/internal/domain"
)

// builder fills one chart for one sentence. It is never shared between parses.
type builder struct {
	index  *Index
	tokens []string
	opts   Options

	nodes []Node
	chart *chart
}

func newBuilder(index *Index, tokens []string, opts Options) *builder {
	return &builder{
		index:  index,
		tokens: tokens,
		opts:   opts,
		chart:  newChart(len(tokens)),
	}
}

// candidate is a binary node computed but not yet committed to the arena.
type candidate struct {
	label       domain.Symbol
	left, right NodeID
}

func (b *builder) fill(ctx context.Context) error {
	if b.opts.Workers > 1 {
		return b.fillByWidth(ctx)
	}
	return b.fillSequential(ctx)
}

// fillSequential walks columns left to right and each column bottom-up, so
// every sub-span of (i, j) is complete before (i, j) is computed.
func (b *builder) fillSequential(ctx context.Context) error {
	n := len(b.tokens)
	for j := 1; j <= n; j++ {
		if err := b.fillDiagonal(j); err != nil {
			return err
		}
		// For i = j-1 there is no split point and the cell stays as filled above.
		for i := j - 1; i >= 0; i-- {
			if err := ctx.Err(); err != nil {
				return err
			}
			for k := i + 1; k < j; k++ {
				var err error
				b.combine(i, k, j, func(c candidate) bool {
					err = b.commit(i, j, c)
					return err == nil
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fillByWidth computes all cells of the same width concurrently. Each cell
// only reads narrower cells, and candidates are committed in cell order once
// the whole width is done, so the arena layout of every cell matches the
// sequential fill.
func (b *builder) fillByWidth(ctx context.Context) error {
	n := len(b.tokens)
	for j := 1; j <= n; j++ {
		if err := b.fillDiagonal(j); err != nil {
			return err
		}
	}

	for width := 2; width <= n; width++ {
		pending := make([][]candidate, n-width+1)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.opts.Workers)
		for i := 0; i+width <= n; i++ {
			i, j := i, i+width
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				var out []candidate
				for k := i + 1; k < j; k++ {
					b.combine(i, k, j, func(c candidate) bool {
						out = append(out, c)
						return true
					})
				}
				pending[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, cands := range pending {
			for _, c := range cands {
				if err := b.commit(i, i+width, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fillDiagonal creates one leaf node per nonterminal that derives token j-1.
func (b *builder) fillDiagonal(j int) error {
	word := b.tokens[j-1]
	for _, label := range b.index.ByTerminal(domain.Symbol(word)) {
		id, err := b.push(Node{
			Label: label,
			Span:  Span{Start: j - 1, End: j},
			Word:  word,
			Left:  NoNode,
			Right: NoNode,
		})
		if err != nil {
			return err
		}
		b.chart.add(j-1, j, id)
	}
	return nil
}

// combine emits every A -> B C with B in cell (i, k) and C in cell (k, j).
// It only reads the chart and the arena. Emission stops when emit returns false.
func (b *builder) combine(i, k, j int, emit func(candidate) bool) {
	lefts := b.chart.cell(i, k)
	if len(lefts) == 0 {
		return
	}
	rights := b.chart.cell(k, j)
	for _, l := range lefts {
		for _, r := range rights {
			for _, a := range b.index.ByPair(b.nodes[l].Label, b.nodes[r].Label) {
				if !emit(candidate{label: a, left: l, right: r}) {
					return
				}
			}
		}
	}
}

func (b *builder) commit(i, j int, c candidate) error {
	id, err := b.push(Node{
		Label: c.label,
		Span:  Span{Start: i, End: j},
		Left:  c.left,
		Right: c.right,
	})
	if err != nil {
		return err
	}
	b.chart.add(i, j, id)
	return nil
}

// maxArenaNodes is the largest arena a NodeID can address.
var maxArenaNodes = math.MaxInt32

func (b *builder) push(n Node) (NodeID, error) {
	if b.opts.MaxNodes > 0 && len(b.nodes) >= b.opts.MaxNodes {
		return NoNode, ErrNodeBudget
	}
	if len(b.nodes) >= maxArenaNodes {
		return NoNode, fmt.Errorf("%w: arena is limited to %d nodes", ErrNodeBudget, maxArenaNodes)
	}
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1), nil
}
