//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"cky/config"
	"cky/internal/adapter/analyzer"
	"cky/internal/adapter/cky"
	"cky/internal/adapter/grammar"
	"cky/internal/adapter/memstore"
	"cky/internal/adapter/render"
	"cky/internal/domain"
	"cky/internal/usecase"
)

var (
	store     *memstore.MemoryStore
	tokenizer *analyzer.Tokenizer
	info      domain.GrammarInfo
	parseUC   *usecase.ParseUseCase
)

func init() {
	store = memstore.NewMemoryStore()
	tokenizer = analyzer.NewTokenizer(false, true)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("ckyLoadGrammar", js.FuncOf(loadGrammar))
	js.Global().Set("ckyParse", js.FuncOf(parseSentence))
	js.Global().Set("ckyClear", js.FuncOf(clearResults))
	js.Global().Set("ckyStats", js.FuncOf(getStats))

	<-c
}

func loadGrammar(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ckyLoadGrammar(source, [start])")
	}

	start := ""
	if len(args) > 1 {
		start = args[1].String()
	}

	g, loaded, err := grammar.NewLoader(start, true, nil).Load("grammar.cfg", args[0].String())
	if err != nil {
		return makeError("grammar load failed: " + err.Error())
	}

	info = loaded
	store.PutGrammar(info)
	parser := cky.NewParser(g, info.Hash)
	parseUC = usecase.NewParseUseCase(parser, tokenizer, store, config.ParseConfig{Workers: 1}, nil)

	return makeResult(map[string]interface{}{
		"success": true,
		"grammar": info,
	})
}

func parseSentence(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: ckyParse(sentence, [format])")
	}
	if parseUC == nil {
		return makeError("no grammar loaded")
	}

	format := "bracket"
	if len(args) > 1 {
		format = args[1].String()
	}
	renderer, err := render.New(format, render.DefaultMargin)
	if err != nil {
		return makeError(err.Error())
	}

	res, err := parseUC.ParseSentence(context.Background(), args[0].String())
	if err != nil {
		return makeError("parse failed: " + err.Error())
	}

	trees := make([]string, len(res.Trees))
	for i, t := range res.Trees {
		trees[i] = renderer.Render(t)
	}

	return makeResult(map[string]interface{}{
		"sentence": res.Sentence,
		"tokens":   res.Tokens,
		"trees":    trees,
		"count":    res.Count(),
	})
}

func clearResults(this js.Value, args []js.Value) interface{} {
	n, _ := store.DeleteResults(info.Hash)
	return makeResult(map[string]interface{}{
		"success": true,
		"deleted": n,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"grammar": info,
		"results": store.Len(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
