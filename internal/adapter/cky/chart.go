package cky

import (
	"fmt"

	"cky/internal/domain"
)

// NodeID addresses a node in a parse's arena.
type NodeID int32

// NoNode marks the absent children of a leaf node.
const NoNode NodeID = -1

// Span is the half-open token range [Start, End).
type Span struct {
	Start int
	End   int
}

// Node is one derivation step. Leaf nodes cover a single token through a
// lexical rule; binary nodes point at the two nodes they were built from.
// Nodes are never modified after they are added to the arena.
type Node struct {
	Label domain.Symbol
	Span  Span
	Word  string
	Left  NodeID
	Right NodeID
}

// IsLeaf reports whether the node covers its token directly.
func (n Node) IsLeaf() bool {
	return n.Left == NoNode
}

// chart is the triangular table of per-span node lists.
// Cell (i, j) is stored at i*(n+1)+j; only i < j is valid.
type chart struct {
	n     int
	cells [][]NodeID
}

func newChart(n int) *chart {
	return &chart{
		n:     n,
		cells: make([][]NodeID, (n+1)*(n+1)),
	}
}

func (c *chart) offset(i, j int) int {
	if i < 0 || j > c.n || i >= j {
		panic(fmt.Sprintf("cky: invalid chart cell (%d, %d) for %d tokens", i, j, c.n))
	}
	return i*(c.n+1) + j
}

func (c *chart) cell(i, j int) []NodeID {
	return c.cells[c.offset(i, j)]
}

func (c *chart) add(i, j int, id NodeID) {
	off := c.offset(i, j)
	c.cells[off] = append(c.cells[off], id)
}
