package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cky/config"
	"cky/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "parses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleResult(sentence string) domain.ParseResult {
	return domain.ParseResult{
		Sentence: sentence,
		Tokens:   []string{"dog", "barks"},
		Trees: []domain.Tree{
			domain.Node("S", domain.Node("NP", domain.Leaf("dog")), domain.Node("VP", domain.Leaf("barks"))),
		},
	}
}

func TestBoltStore_Results(t *testing.T) {
	st := openTestStore(t)

	_, found, err := st.GetResult("g1", "dog barks")
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleResult("dog barks")
	require.NoError(t, st.PutResult("g1", want))

	got, found, err := st.GetResult("g1", "dog barks")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	_, found, err = st.GetResult("g2", "dog barks")
	require.NoError(t, err)
	assert.False(t, found, "results are scoped per grammar")
}

func TestBoltStore_EmptyResult(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.PutResult("g", domain.ParseResult{Sentence: "dog dog", Tokens: []string{"dog", "dog"}}))

	got, found, err := st.GetResult("g", "dog dog")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Zero(t, got.Count())
}

func TestBoltStore_Grammars(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetGrammar("abc")
	assert.True(t, errors.Is(err, ErrNotFound))

	info := domain.GrammarInfo{Hash: "abc", Path: "toy.cfg", Start: "S", Productions: 7}
	require.NoError(t, st.PutGrammar(info))

	got, err := st.GetGrammar("abc")
	require.NoError(t, err)
	assert.Equal(t, info, got)

	list, err := st.ListGrammars()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBoltStore_StatsAndDelete(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.PutGrammar(domain.GrammarInfo{Hash: "g1"}))
	require.NoError(t, st.PutResult("g1", sampleResult("a")))
	require.NoError(t, st.PutResult("g1", sampleResult("b")))
	require.NoError(t, st.PutResult("g2", sampleResult("a")))

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Grammars)
	assert.Equal(t, 3, stats.Parses)
	assert.Equal(t, map[string]int{"g1": 2, "g2": 1}, stats.ByGrammar)

	n, err := st.DeleteResults("g1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err = st.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Parses)

	require.NoError(t, st.Clear())
	stats, err = st.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Parses)
	assert.Zero(t, stats.Grammars)
}

func TestMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parses.db")
	cfg := config.DefaultConfig()

	st, result, err := Open(path, cfg)
	require.NoError(t, err)
	assert.True(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)
	require.NoError(t, st.PutResult("g", sampleResult("dog barks")))
	require.NoError(t, st.Close())

	st, result, err = Open(path, cfg)
	require.NoError(t, err)
	assert.False(t, result.NeedsMigration)
	assert.False(t, result.NeedsRebuild)
	_, found, err := st.GetResult("g", "dog barks")
	require.NoError(t, err)
	assert.True(t, found, "results survive reopening with the same config")
	require.NoError(t, st.Close())

	cfg.Tokenize.Lowercase = !cfg.Tokenize.Lowercase
	st, result, err = Open(path, cfg)
	require.NoError(t, err)
	defer st.Close()
	assert.True(t, result.NeedsRebuild)
	_, found, err = st.GetResult("g", "dog barks")
	require.NoError(t, err)
	assert.False(t, found, "tokenizer change clears stored results")

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, ComputeConfigHash(cfg), info.ConfigHash)
}

func TestMigration_NewerSchema(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1}))

	result, err := st.CheckMigration(config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)
}

func TestOpen_FreshStoreStartsAtFirstSchema(t *testing.T) {
	cfg := config.DefaultConfig()
	st, result, err := Open(filepath.Join(t.TempDir(), "parses.db"), cfg)
	require.NoError(t, err)
	defer st.Close()

	assert.True(t, result.NeedsMigration)
	assert.Equal(t, 0, result.OldVersion)
	assert.Equal(t, 1, result.NewVersion)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Version)
}
