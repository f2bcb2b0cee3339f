package cky

import "cky/internal/domain"

// extract materializes one tree per node in cell (0, n) labeled start,
// in the order the nodes were added to the cell.
func (b *builder) extract(start domain.Symbol) []domain.Tree {
	n := len(b.tokens)
	if n == 0 {
		return nil
	}

	var trees []domain.Tree
	for _, id := range b.chart.cell(0, n) {
		if b.nodes[id].Label != start {
			continue
		}
		trees = append(trees, expand(b.nodes, id))
	}
	return trees
}

// expand builds the tree rooted at root with an explicit stack. A node shared
// by several parents is expanded separately under each of them.
func expand(nodes []Node, root NodeID) domain.Tree {
	type frame struct {
		id   NodeID
		done bool
	}

	stack := []frame{{id: root}}
	var built []domain.Tree
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := nodes[f.id]

		if n.IsLeaf() {
			built = append(built, domain.Node(string(n.Label), domain.Leaf(n.Word)))
			continue
		}
		if !f.done {
			stack = append(stack, frame{id: f.id, done: true}, frame{id: n.Right}, frame{id: n.Left})
			continue
		}

		left, right := built[len(built)-2], built[len(built)-1]
		built = built[:len(built)-2]
		built = append(built, domain.Node(string(n.Label), left, right))
	}
	return built[0]
}
