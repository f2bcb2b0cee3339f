package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cky/config"
	"cky/internal/domain"
	"cky/internal/port"
)

// ParseUseCase tokenizes and parses sentences against one grammar.
type ParseUseCase struct {
	parser    port.SentenceParser
	tokenizer port.Tokenizer
	store     port.ResultStore // optional
	workers   int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewParseUseCase creates a new parse use case. store may be nil.
func NewParseUseCase(
	parser port.SentenceParser,
	tokenizer port.Tokenizer,
	store port.ResultStore,
	cfg config.ParseConfig,
	logger *zap.Logger,
) *ParseUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &ParseUseCase{
		parser:    parser,
		tokenizer: tokenizer,
		store:     store,
		workers:   workers,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// ProgressFunc is called after each sentence of a batch completes.
type ProgressFunc func(done, total int)

// ParseSentence parses one raw sentence. An ungrammatical sentence is not an
// error: the result simply has no trees.
func (u *ParseUseCase) ParseSentence(ctx context.Context, sentence string) (domain.ParseResult, error) {
	hash := u.parser.GrammarHash()

	if u.store != nil {
		stored, found, err := u.store.GetResult(hash, sentence)
		if err != nil {
			u.logger.Warn("failed to read stored result", zap.String("sentence", sentence), zap.Error(err))
		} else if found {
			return stored, nil
		}
	}

	result := domain.ParseResult{
		Sentence: sentence,
		Tokens:   u.tokenizer.Tokenize(sentence),
	}

	pctx := ctx
	if u.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	start := time.Now()
	trees, err := u.parser.ParseContext(pctx, result.Tokens)
	if err != nil {
		return domain.ParseResult{}, fmt.Errorf("failed to parse %q: %w", sentence, err)
	}
	result.Trees = trees

	u.logger.Debug("parsed sentence",
		zap.Int("tokens", len(result.Tokens)),
		zap.Int("parses", len(trees)),
		zap.Duration("elapsed", time.Since(start)))

	if u.store != nil {
		if err := u.store.PutResult(hash, result); err != nil {
			u.logger.Warn("failed to store result", zap.String("sentence", sentence), zap.Error(err))
		}
	}

	return result, nil
}

// ParseAll parses sentences concurrently and returns results in input order.
// A sentence that fails on its own (budget, timeout) is reported through
// ParseResult.Error; cancellation of ctx aborts the whole batch.
func (u *ParseUseCase) ParseAll(ctx context.Context, sentences []string, progress ProgressFunc) ([]domain.ParseResult, error) {
	results := make([]domain.ParseResult, len(sentences))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, sentence := range sentences {
		i, sentence := i, sentence
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result, err := u.ParseSentence(gctx, sentence)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				u.logger.Warn("sentence skipped", zap.Int("line", i+1), zap.Error(err))
				result = domain.ParseResult{
					Sentence: sentence,
					Tokens:   u.tokenizer.Tokenize(sentence),
					Error:    err.Error(),
				}
			}
			results[i] = result

			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(sentences))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
