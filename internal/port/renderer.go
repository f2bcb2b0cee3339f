package port

import "cky/internal/domain"

// Renderer formats a parse tree for human consumption.
type Renderer interface {
	Render(t domain.Tree) string
}
