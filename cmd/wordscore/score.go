// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordscore/internal/scoring"
	"github.com/pdiddy/wordscore/internal/secrets"
	"github.com/pdiddy/wordscore/pkg/types"
)

const defaultModel = "anthropic/claude-3.5-sonnet"

var errMissingAPIKey = errors.New("API key not configured")

var scoreCmd = &cobra.Command{
	Use:   "score <input_file>",
	Short: "Score every word of a word list with an LLM",
	Long: `Score reads a word list (one word per line) and a prompt file, sends the
words to the backend in batches, and appends each batch's word:score lines
to the all-scores file before the next batch starts. An interrupted run
keeps every completed batch; --resume continues it without rescoring.

The API key is read from OPENROUTER_API_KEY or ANTHROPIC_API_KEY in the
environment, the .env file, or the .secrets/ directory. DEFAULT_MODEL sets
the model when --model is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := scoringConfig(args[0])

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scoring words using %s in batches of %d...\n", cfg.Model, cfg.BatchSize)

	st, summary, err := scoring.ScoreFile(ctx, scorer, cfg, progressPrinter(out), logger)
	if err != nil {
		if st != nil && st.Len() > 0 {
			logger.Warn("run stopped early; completed batches are saved",
				"path", cfg.ScoresFile, "words", st.Len())
		}
		return err
	}

	if summary.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d words already in %s.\n", summary.Skipped, cfg.ScoresFile)
	}
	if summary.EmptyBatches > 0 {
		logger.Warn("some batches produced no scores", "batches", summary.EmptyBatches)
	}
	fmt.Fprintf(out, "Processed %d words. Use the 'filter' command to filter words based on scores.\n", st.Len())
	return nil
}

// progressPrinter writes one line per batch to w.
func progressPrinter(w io.Writer) scoring.Observer {
	return func(p scoring.Progress) {
		fmt.Fprintf(w, "Processing batch %d/%d (%d words)...\n", p.Batch, p.Batches, p.Size)
	}
}

// scoringConfig assembles the run configuration from flags, the config
// file, WORDSCORE_* variables, and DEFAULT_MODEL, in that order.
func scoringConfig(inputFile string) types.ScoringConfig {
	cfg := types.ScoringConfig{
		AIConfig: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("score.timeout"),
				Referer: viper.GetString("score.referer"),
				Title:   viper.GetString("score.title"),
				BaseURL: viper.GetString("score.base_url"),

				RateLimitRetries: viper.GetInt("score.rate_limit_retries"),
			},
			Backend:   types.BackendKind(strings.ToLower(strings.TrimSpace(viper.GetString("score.backend")))),
			Model:     viper.GetString("score.model"),
			MaxTokens: viper.GetInt("score.max_tokens"),
			Debug:     viper.GetBool("debug"),
		},
		InputFile:  inputFile,
		PromptFile: viper.GetString("score.prompt_file"),
		ScoresFile: viper.GetString("score.scores_file"),
		BatchSize:  viper.GetInt("score.batch_size"),
		MaxRetries: viper.GetInt("score.max_retries"),
		Resume:     viper.GetBool("score.resume"),
	}
	if cfg.Model == "" {
		cfg.Model = loadedSecrets.Lookup(secrets.DefaultModel)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg
}

// newScorer builds the backend named by cfg.Backend. A missing API key is
// reported before any file is touched.
func newScorer(cfg types.ScoringConfig) (scoring.Scorer, error) {
	ai := cfg.AIConfig
	switch ai.Backend {
	case types.BackendOpenRouter, "":
		ai.APIKey = loadedSecrets.Lookup(secrets.OpenRouterAPIKey)
		if ai.APIKey == "" {
			return nil, fmt.Errorf("%w: set %s in the environment or a .env file", errMissingAPIKey, secrets.OpenRouterAPIKey)
		}
		return scoring.NewOpenRouterScorer(ai, logger), nil
	case types.BackendAnthropic:
		ai.APIKey = loadedSecrets.Lookup(secrets.AnthropicAPIKey)
		if ai.APIKey == "" {
			return nil, fmt.Errorf("%w: set %s in the environment or a .env file", errMissingAPIKey, secrets.AnthropicAPIKey)
		}
		return scoring.NewAnthropicScorer(ai, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use %s or %s", ai.Backend, types.BackendOpenRouter, types.BackendAnthropic)
	}
}

func init() {
	f := scoreCmd.Flags()
	f.String("prompt-file", "prompt.txt", "file containing the prompt")
	f.String("all-scores-file", "all_words_scores.txt", "file that receives every word:score line")
	f.String("model", "", "model identifier (default: DEFAULT_MODEL or "+defaultModel+")")
	f.Int("batch-size", 100, "number of words per backend call")
	f.String("backend", string(types.BackendOpenRouter), "scoring backend: openrouter or anthropic")
	// The two retry layers stack: one batch makes at most
	// (max-retries+1)*(rate-limit-retries+1) HTTP requests.
	f.Int("max-retries", 3, "retries for a failed batch call (0 aborts on the first failure)")
	f.Int("rate-limit-retries", 2, "HTTP retries on 429 and gateway errors within one batch attempt (0 = client default)")
	f.Bool("resume", false, "append to the all-scores file and skip words it already scores")
	f.Duration("timeout", 2*time.Minute, "timeout for a single backend call")
	f.Int("max-tokens", 1024, "maximum reply length in tokens")
	f.String("base-url", "", "override the backend endpoint")

	bindFlag("score.prompt_file", f.Lookup("prompt-file"))
	bindFlag("score.scores_file", f.Lookup("all-scores-file"))
	bindFlag("score.model", f.Lookup("model"))
	bindFlag("score.batch_size", f.Lookup("batch-size"))
	bindFlag("score.backend", f.Lookup("backend"))
	bindFlag("score.max_retries", f.Lookup("max-retries"))
	bindFlag("score.rate_limit_retries", f.Lookup("rate-limit-retries"))
	bindFlag("score.resume", f.Lookup("resume"))
	bindFlag("score.timeout", f.Lookup("timeout"))
	bindFlag("score.max_tokens", f.Lookup("max-tokens"))
	bindFlag("score.base_url", f.Lookup("base-url"))

	rootCmd.AddCommand(scoreCmd)
}
