package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	sentenceText   string
	sentenceFormat string
)

var sentenceCmd = &cobra.Command{
	Use:   "sentence <grammar>",
	Short: "Parse a single sentence",
	Long: `Parse one sentence given on the command line and print its parse trees.

Examples:
  cky sentence grammar.cfg -s "the dog barks"
  cky sentence grammar.cfg -s "I saw the man with the telescope" -f bracket`,
	Args: cobra.ExactArgs(1),
	RunE: runSentence,
}

func init() {
	sentenceCmd.Flags().StringVarP(&sentenceText, "sentence", "s", "", "sentence to parse (required)")
	sentenceCmd.Flags().StringVarP(&sentenceFormat, "format", "f", "", "output format: pretty, bracket, json (default from config)")
	sentenceCmd.MarkFlagRequired("sentence")
	rootCmd.AddCommand(sentenceCmd)
}

func runSentence(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if strings.TrimSpace(sentenceText) == "" {
		return fmt.Errorf("sentence cannot be empty")
	}

	format := cfg.Output.Format
	if sentenceFormat != "" {
		format = sentenceFormat
	}

	sess, err := openSession(args[0], cfg, true, GetLogger())
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.useCase.ParseSentence(cmd.Context(), sentenceText)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), format, cfg.Output.Margin, res)
}
