// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordscore/internal/index"
	"github.com/pdiddy/wordscore/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the score index (store, query, export, runs)",
	Long: `Index keeps the scores of many runs in a local SQLite database. Each
word keeps the highest score any stored run gave it. Use subcommands to
store a scores file, query the index, export it, or list stored runs.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store [scores_file]",
	Short: "Merge a word:score file into the index",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	path := "all_words_scores.txt"
	if len(args) > 0 {
		path = args[0]
	}

	s, err := openIndex()
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.Ingest(context.Background(), path, cmd.OutOrStdout())
	return err
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List indexed words by score and prefix",
	Args:  cobra.NoArgs,
	RunE:  runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	s, err := openIndex()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.Query(context.Background(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "%-30s  %5s  %s\n", "Word", "Score", "Run")
	fmt.Fprintln(out, strings.Repeat("-", 75))
	for _, e := range entries {
		fmt.Fprintf(out, "%-30s  %5d  %s\n", e.Word, e.Score, e.RunID)
	}
	fmt.Fprintf(out, "\n%d results\n", len(entries))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to YAML or JSON",
	Long: `Export writes the indexed words (or a filtered subset) and the list of
stored runs to export.yaml or export.json in the index directory.`,
	Args: cobra.NoArgs,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openIndex()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(context.Background(), opts)
	case "json":
		path, err = s.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- runs subcommand ---

var indexRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the scores files stored in the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openIndex()
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Runs(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %s  %s  (%d words, %d skipped lines)\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source, r.Words, r.Skipped)
		}
		return nil
	},
}

// --- shared helpers ---

func openIndex() (*index.Store, error) {
	s, err := index.NewStore(types.IndexConfig{
		Dir:        viper.GetString("index.dir"),
		Collation:  viper.GetString("index.collation"),
		MaxResults: viper.GetInt("index.max_results"),
	})
	if err != nil {
		return nil, err
	}
	s.SetLogger(logger)
	return s, nil
}

func queryOptsFromFlags(cmd *cobra.Command) index.QueryOptions {
	minScore, _ := cmd.Flags().GetInt("min-score")
	prefix, _ := cmd.Flags().GetString("prefix")
	limit, _ := cmd.Flags().GetInt("limit")
	return index.QueryOptions{
		MinScore: minScore,
		Prefix:   prefix,
		Limit:    limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	pf := indexCmd.PersistentFlags()
	pf.String("index-dir", "index", "directory holding wordscore.db and exports")
	pf.String("index-collation", "tr", "word order for query and export results")
	pf.Int("max-results", 50, "default maximum number of query results")

	bindFlag("index.dir", pf.Lookup("index-dir"))
	bindFlag("index.collation", pf.Lookup("index-collation"))
	bindFlag("index.max_results", pf.Lookup("max-results"))

	// Query flags.
	indexQueryCmd.Flags().Int("min-score", 0, "minimum score (inclusive)")
	indexQueryCmd.Flags().String("prefix", "", "only words starting with this prefix")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().Int("min-score", 0, "minimum score (inclusive) for partial export")
	indexExportCmd.Flags().String("prefix", "", "only export words starting with this prefix")

	// Wire subcommands.
	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(indexRunsCmd)

	rootCmd.AddCommand(indexCmd)
}
