package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "innersee",
	Short: "Psychological self-assessment toolkit",
	Long: `Inner See: take self-assessment tests, keep a local history of results and
ask an AI model for a personal interpretation. Works offline with a bundled
question set when the API is unreachable.`,
	SilenceUsage: true,
}

// Execute runs the CLI with ctx as every command's context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides INNERSEE_DB env var)")
	rootCmd.PersistentFlags().String("question-bank", "", "Path to the packaged question database (overrides INNERSEE_QUESTION_BANK)")
	rootCmd.PersistentFlags().String("env-file", "", "Load settings from this file instead of ./.env")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print collected metrics (Prometheus text format) to stderr on exit")

	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the --db flag when set (creating its directory), or
// an empty string so configuration decides.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return "", nil
}
