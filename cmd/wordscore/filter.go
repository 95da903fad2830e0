// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordscore/internal/filter"
	"github.com/pdiddy/wordscore/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keep the words at or above a score, in alphabetical order",
	Long: `Filter reads the all-scores file, keeps the highest score seen for each
word, selects the words scoring at least --min-score, and rewrites the
output file with them, one per line, in Turkish alphabetical order.

Malformed lines are reported with their line number and skipped. Running
filter twice on the same input produces identical output.`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg := filterConfig()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Reading scored words from %s...\n", cfg.InputFile)
	summary, err := filter.Run(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total lines in file: %d\n", summary.Lines)
	fmt.Fprintf(out, "Skipped lines: %d\n", summary.Skipped)
	fmt.Fprintf(out, "Duplicate words: %d\n", summary.Duplicates)
	fmt.Fprintf(out, "Read %d unique scored words.\n", summary.Unique)
	fmt.Fprintf(out, "Filtered %d words with scores >= %d.\n", summary.Kept, cfg.MinScore)
	fmt.Fprintf(out, "Filtered words saved to %s\n", cfg.OutputFile)
	if cfg.ReportPath != "" {
		fmt.Fprintf(out, "Report written to %s\n", cfg.ReportPath)
	}
	return nil
}

func filterConfig() types.FilterConfig {
	return types.FilterConfig{
		InputFile:  viper.GetString("filter.input_file"),
		OutputFile: viper.GetString("filter.output_file"),
		MinScore:   viper.GetInt("filter.min_score"),
		Collation:  viper.GetString("filter.collation"),
		ReportPath: viper.GetString("filter.report_path"),
	}
}

func init() {
	f := filterCmd.Flags()
	f.String("input-file", "all_words_scores.txt", "word:score file produced by score")
	f.String("output-file", "filtered_words.txt", "file that receives the kept words")
	f.Int("min-score", 90, "minimum score to keep a word (inclusive)")
	f.String("collation", "tr", "word order: tr, any BCP 47 language tag, or none")
	f.String("report", "", "write a YAML summary of the pass to this file")

	bindFlag("filter.input_file", f.Lookup("input-file"))
	bindFlag("filter.output_file", f.Lookup("output-file"))
	bindFlag("filter.min_score", f.Lookup("min-score"))
	bindFlag("filter.collation", f.Lookup("collation"))
	bindFlag("filter.report_path", f.Lookup("report"))

	rootCmd.AddCommand(filterCmd)
}
