package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cky/internal/adapter/grammar"
)

var grammarJSON bool

var grammarCmd = &cobra.Command{
	Use:   "grammar <grammar>",
	Short: "Check a grammar and show its statistics",
	Long: `Load a grammar file, verify that it is in Chomsky Normal Form and print
a summary of its productions and symbols.

Examples:
  cky grammar grammar.cfg
  cky grammar grammar.cfg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGrammar,
}

func init() {
	grammarCmd.Flags().BoolVar(&grammarJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(grammarCmd)
}

func runGrammar(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	loader := grammar.NewLoader(cfg.Grammar.Start, true, GetLogger())
	_, info, err := loader.LoadFile(args[0])

	var cnfErr *grammar.CNFError
	if errors.As(err, &cnfErr) {
		fmt.Fprintf(out, "%s is not in Chomsky Normal Form:\n", args[0])
		for _, v := range cnfErr.Violations {
			fmt.Fprintf(out, "  - %s\n", v)
		}
		return grammar.ErrNotCNF
	}
	if err != nil {
		return err
	}

	if grammarJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Grammar: %s\n", info.Path)
	fmt.Fprintf(out, "  Hash:          %s\n", info.Hash)
	fmt.Fprintf(out, "  Start symbol:  %s\n", info.Start)
	fmt.Fprintf(out, "  Productions:   %d (%d lexical, %d binary)\n", info.Productions, info.Lexical, info.Binary)
	fmt.Fprintf(out, "  Nonterminals:  %d\n", info.Nonterminals)
	fmt.Fprintf(out, "  Terminals:     %d\n", info.Terminals)
	return nil
}
