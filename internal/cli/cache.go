package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"cky/config"
)

var clearGrammar string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persistent parse store",
	Long: `Parse results are kept in .cky/parses.db when cache.persist is enabled.

Examples:
  cky cache stats
  cky cache clear
  cky cache clear --grammar 3f2a9c1b0d4e5f60`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored grammars and parse counts",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored parse results",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().StringVar(&clearGrammar, "grammar", "", "only delete results for this grammar hash")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func storeExists() bool {
	_, err := os.Stat(config.StoreDBPath(GetRootDir()))
	return err == nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !storeExists() {
		fmt.Fprintln(out, "No parse store found.")
		return nil
	}

	st, err := openStore(GetConfig(), GetLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}
	grammars, err := st.ListGrammars()
	if err != nil {
		return fmt.Errorf("failed to list grammars: %w", err)
	}
	sort.Slice(grammars, func(i, j int) bool { return grammars[i].Path < grammars[j].Path })

	fmt.Fprintf(out, "Parse store: %s\n", config.StoreDBPath(GetRootDir()))
	fmt.Fprintf(out, "  Grammars: %d\n", stats.Grammars)
	fmt.Fprintf(out, "  Parses:   %d\n", stats.Parses)
	for _, g := range grammars {
		fmt.Fprintf(out, "  - %s %s (%d results)\n", g.Hash, g.Path, stats.ByGrammar[g.Hash])
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !storeExists() {
		fmt.Fprintln(out, "No parse store found.")
		return nil
	}

	st, err := openStore(GetConfig(), GetLogger())
	if err != nil {
		return err
	}
	defer st.Close()

	if clearGrammar != "" {
		n, err := st.DeleteResults(clearGrammar)
		if err != nil {
			return fmt.Errorf("failed to delete results: %w", err)
		}
		fmt.Fprintf(out, "Deleted %d results for grammar %s\n", n, clearGrammar)
		return nil
	}

	if err := st.Clear(); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	fmt.Fprintln(out, "Parse store cleared.")
	return nil
}
