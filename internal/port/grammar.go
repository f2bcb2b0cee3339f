package port

import "cky/internal/domain"

type GrammarLoader interface {
	LoadFile(path string) (domain.Grammar, domain.GrammarInfo, error)
}
