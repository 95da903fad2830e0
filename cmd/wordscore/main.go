// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wordscore CLI.
//
// wordscore sends a word list to an LLM in batches, records a score per
// word in an append-only log, and filters the log into an alphabetized
// word list. Subcommands: score, filter, index, version.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordscore/internal/logging"
	"github.com/pdiddy/wordscore/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is configured from --log-level and --debug before any command runs.
	logger = slog.New(slog.DiscardHandler)

	// loadedSecrets holds API keys from the environment, .env, and .secrets/.
	loadedSecrets = secrets.Secrets{}
)

// rootCmd is the base command for the wordscore CLI.
var rootCmd = &cobra.Command{
	Use:   "wordscore",
	Short: "Score a word list with an LLM and filter it by score",
	Long: `wordscore sends a word list to an LLM in fixed-size batches together
with an instruction prompt, records a numeric score for every word in an
append-only word:score log, and filters that log into a list of words at or
above a threshold, ordered by the Turkish alphabet.

Running "wordscore <input_file>" is the same as "wordscore score <input_file>".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log_level")
		if viper.GetBool("debug") {
			level = "debug"
		}
		w := cmd.ErrOrStderr()
		f, isFile := w.(*os.File)
		logger = logging.NewCLILogger(w, level, isFile && colorEnabled(f))
		slog.SetDefault(logger)

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}

		s, err := secrets.Resolve(viper.GetString("secrets_dir"), viper.GetString("env_file"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", strings.Join(s.Keys(), ","))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./wordscore.yaml or ~/.config/wordscore/wordscore.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("debug", false, "enable debug output, including backend requests and replies")
	flags.String("secrets-dir", ".secrets", "directory of secret files (one key per file)")
	flags.String("env-file", ".env", "dotenv file with API keys")

	bindFlag("log_level", flags.Lookup("log-level"))
	bindFlag("debug", flags.Lookup("debug"))
	bindFlag("secrets_dir", flags.Lookup("secrets-dir"))
	bindFlag("env_file", flags.Lookup("env-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wordscore")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wordscore"))
		}
	}

	viper.SetEnvPrefix("WORDSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", cfgFile, err)
	}
}

// bindFlag ties a viper key to a flag so the config file and WORDSCORE_*
// environment variables can supply its default.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// legacyArgs maps the single-command form "wordscore <input_file> [flags]"
// onto the score subcommand.
func legacyArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	switch args[0] {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return args
	}
	for _, c := range root.Commands() {
		if c.Name() == args[0] || c.HasAlias(args[0]) {
			return args
		}
	}
	return append([]string{scoreCmd.Name()}, args...)
}

// colorEnabled reports whether f is a terminal and NO_COLOR is unset.
func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootCmd.SetArgs(legacyArgs(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
