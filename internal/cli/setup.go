package cli

import (
	"fmt"

	"go.uber.org/zap"

	"cky/config"
	"cky/internal/adapter/analyzer"
	"cky/internal/adapter/cache"
	"cky/internal/adapter/cky"
	"cky/internal/adapter/grammar"
	"cky/internal/adapter/store"
	"cky/internal/domain"
	"cky/internal/port"
	"cky/internal/usecase"
)

// session holds everything needed to parse sentences against one grammar.
type session struct {
	info    domain.GrammarInfo
	parser  *cky.Parser
	useCase *usecase.ParseUseCase
	store   *store.BoltStore
}

func (s *session) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// openSession loads the grammar and wires parser, caches and store per cfg.
func openSession(grammarPath string, cfg *config.Config, useCache bool, logger *zap.Logger) (*session, error) {
	var loader port.GrammarLoader = grammar.NewLoader(cfg.Grammar.Start, cfg.Grammar.StrictCNF, logger)
	g, info, err := loader.LoadFile(grammarPath)
	if err != nil {
		return nil, err
	}
	logger.Info("grammar loaded",
		zap.String("path", info.Path),
		zap.String("start", info.Start),
		zap.Int("productions", info.Productions),
		zap.String("hash", info.Hash))

	parser := cky.NewParser(g, info.Hash,
		cky.WithWorkers(cfg.Parse.ChartWorkers),
		cky.WithMaxNodes(cfg.Parse.MaxNodes))

	s := &session{info: info, parser: parser}

	var sp port.SentenceParser = parser
	if useCache && cfg.Cache.Enabled {
		sp = cache.NewCachedParser(parser, cache.NewParseCache(cfg.Cache.Size, cfg.Cache.TTL))
	}

	var rs port.ResultStore
	if useCache && cfg.Cache.Persist {
		st, err := openStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := st.PutGrammar(info); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to record grammar: %w", err)
		}
		s.store = st
		rs = st
	}

	tokenizer := analyzer.NewTokenizer(cfg.Tokenize.Lowercase, cfg.Tokenize.SplitPunct)
	s.useCase = usecase.NewParseUseCase(sp, tokenizer, rs, cfg.Parse, logger)
	return s, nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (*store.BoltStore, error) {
	if err := config.EnsureCKYDir(GetRootDir()); err != nil {
		return nil, fmt.Errorf("failed to create .cky directory: %w", err)
	}

	dbPath := config.StoreDBPath(GetRootDir())
	st, migration, err := store.Open(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open parse store: %w", err)
	}
	if migration.NeedsRebuild {
		logger.Info("parse store cleared", zap.String("reason", migration.Reason))
	} else if migration.NeedsMigration {
		logger.Info("parse store migrated", zap.String("reason", migration.Reason))
	}
	return st, nil
}
