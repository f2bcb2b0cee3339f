package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cky/config"
	"cky/internal/adapter/analyzer"
	"cky/internal/adapter/cky"
	"cky/internal/adapter/grammar"
)

func main() {
	grammarPath := flag.String("grammar", "", "Path to CNF grammar file")
	sentence := flag.String("s", "", "Sentence to parse")
	iterations := flag.Int("n", 20, "Parses per configuration")
	maxWorkers := flag.Int("workers", 8, "Largest chart worker count to try")
	dir := flag.String("dir", ".", "Directory holding cky.yaml")
	flag.Parse()

	if *grammarPath == "" || *sentence == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -grammar grammar.cfg -s \"sentence\"")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Sequential chart fill")
		fmt.Println("  2. Width-parallel chart fill with 2, 4, ... workers")
		fmt.Println("  3. Agreement of parse counts across fills")
		os.Exit(1)
	}
	if err := validateRuns(*iterations, *maxWorkers); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	g, info, err := grammar.NewLoader(cfg.Grammar.Start, cfg.Grammar.StrictCNF, nil).LoadFile(*grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading grammar: %v\n", err)
		os.Exit(1)
	}

	tokens := analyzer.NewTokenizer(cfg.Tokenize.Lowercase, cfg.Tokenize.SplitPunct).Tokenize(*sentence)

	fmt.Println("CKY CHART BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Grammar: %s (%d productions, start %s)\n", info.Path, info.Productions, info.Start)
	fmt.Printf("Tokens:  %d\n", len(tokens))
	fmt.Printf("Runs:    %d per configuration\n", *iterations)
	fmt.Println(strings.Repeat("-", 70))

	baseline := -1
	var baseTime time.Duration
	for workers := 1; workers <= *maxWorkers; workers *= 2 {
		parser := cky.NewParser(g, info.Hash,
			cky.WithWorkers(workers),
			cky.WithMaxNodes(cfg.Parse.MaxNodes))

		var count int
		start := time.Now()
		for i := 0; i < *iterations; i++ {
			trees, err := parser.ParseContext(context.Background(), tokens)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
				os.Exit(1)
			}
			count = len(trees)
		}
		avg := time.Since(start) / time.Duration(*iterations)

		speedup := 1.0
		if baseline < 0 {
			baseline = count
			baseTime = avg
		} else if avg > 0 {
			speedup = float64(baseTime) / float64(avg)
		}

		status := "OK"
		if count != baseline {
			status = "MISMATCH"
		}
		fmt.Printf("workers=%-2d  avg %-12s  speedup %.2fx  parses %d  [%s]\n", workers, avg, speedup, count, status)
	}
}

func validateRuns(iterations, maxWorkers int) error {
	if iterations <= 0 {
		return fmt.Errorf("-n must be positive, got %d", iterations)
	}
	if maxWorkers <= 0 {
		return fmt.Errorf("-workers must be positive, got %d", maxWorkers)
	}
	return nil
}
