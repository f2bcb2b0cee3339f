package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cky/internal/adapter/fs"
	"cky/internal/domain"
	"cky/internal/port"
	"cky/internal/usecase"
)

var (
	parseFormat  string
	parseWorkers int
	parseNoCache bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <grammar> <sentences> [output]",
	Short: "Parse every sentence of a file",
	Long: `Parse each line of a sentence file with a CNF grammar and write every
parse tree, followed by the number of parses, for each sentence.

If <sentences> is a directory, all files matching the input include patterns
are parsed in path order. Output goes to stdout unless [output] is given.

Examples:
  cky parse grammar.cfg sentences.txt              # Print to stdout
  cky parse grammar.cfg sentences.txt out.txt      # Write to out.txt
  cky parse grammar.cfg corpus/ --format bracket   # Parse a directory`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: pretty, bracket, json (default from config)")
	parseCmd.Flags().IntVarP(&parseWorkers, "workers", "w", 0, "sentences parsed concurrently (default from config)")
	parseCmd.Flags().BoolVar(&parseNoCache, "no-cache", false, "disable parse caching")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()

	if parseWorkers > 0 {
		cfg.Parse.Workers = parseWorkers
	}
	format := cfg.Output.Format
	if parseFormat != "" {
		format = parseFormat
	}

	sentences, err := collectSentences(args[1], cfg.Input.Includes, cfg.Input.Excludes, log)
	if err != nil {
		return err
	}

	sess, err := openSession(args[0], cfg, !parseNoCache, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	var out io.Writer = cmd.OutOrStdout()
	if len(args) == 3 {
		f, err := os.Create(args[2])
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	report, err := usecase.NewReportWriter(out, format, cfg.Output.Margin)
	if err != nil {
		return err
	}

	var progress usecase.ProgressFunc
	if len(sentences) > 1 {
		progress = newProgress(cmd.ErrOrStderr())
	}

	start := time.Now()
	results, err := sess.useCase.ParseAll(cmd.Context(), sentences, progress)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := report.Write(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	total, failed := 0, 0
	for _, r := range results {
		total += r.Count()
		if r.Error != "" {
			failed++
		}
	}
	log.Info("parse complete",
		zap.Int("sentences", len(results)),
		zap.Int("parses", total),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))

	if len(args) == 3 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Output written to: %s\n", args[2])
	}
	return nil
}

// collectSentences reads one sentence per line from path, or from every
// matching file under path when it is a directory.
func collectSentences(path string, includes, excludes []string, log *zap.Logger) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("sentence input does not exist: %w", err)
	}
	if !info.IsDir() {
		return fs.ReadSentences(path)
	}

	var walker port.FileWalker = fs.NewWalker(includes, excludes)
	files, err := walker.Walk(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	var sentences []string
	for _, f := range files {
		lines, err := fs.ReadSentences(f.Path)
		if err != nil {
			return nil, err
		}
		log.Debug("sentence file", zap.String("path", f.Path), zap.Int("lines", len(lines)))
		sentences = append(sentences, lines...)
	}
	log.Info("sentence files collected", zap.Int("files", len(files)), zap.Int("sentences", len(sentences)))
	return sentences, nil
}

func newProgress(w io.Writer) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Parsing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}

		bar.Set(done)

		if done > 0 {
			rate := float64(done) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Parsing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

func printResult(w io.Writer, format string, margin int, res domain.ParseResult) error {
	report, err := usecase.NewReportWriter(w, format, margin)
	if err != nil {
		return err
	}
	return report.Write([]domain.ParseResult{res})
}
