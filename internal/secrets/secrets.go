// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys and model defaults from three places:
// the process environment, a dotenv file, and a directory of plain-text
// files. In the directory each file is one secret: the filename is the key
// and the trimmed contents are the value. File names such as
// openrouter-api-key and environment names such as OPENROUTER_API_KEY refer
// to the same key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Well-known keys.
const (
	OpenRouterAPIKey = "OPENROUTER_API_KEY"
	AnthropicAPIKey  = "ANTHROPIC_API_KEY"
	DefaultModel     = "DEFAULT_MODEL"
)

// Secrets holds resolved values keyed by environment-style name.
type Secrets map[string]string

// Load reads all files in dir and returns their trimmed contents keyed by
// normalized name. A missing directory is not an error; Load returns an
// empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[NormalizeKey(name)] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv parses a dotenv file without touching the process
// environment. A missing file yields an empty map.
func LoadDotEnv(path string) (Secrets, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	secrets := make(Secrets, len(values))
	for k, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			secrets[NormalizeKey(k)] = v
		}
	}
	return secrets, nil
}

// Resolve loads the secrets directory and the dotenv file. Dotenv values
// override directory values; the process environment overrides both at
// lookup time.
func Resolve(dir, envFile string, logger *slog.Logger) (Secrets, error) {
	fromDir, err := Load(dir, logger)
	if err != nil {
		return nil, err
	}
	fromEnv, err := LoadDotEnv(envFile)
	if err != nil {
		return nil, err
	}
	for k, v := range fromEnv {
		fromDir[k] = v
	}
	return fromDir, nil
}

// Lookup returns the value for key, preferring the process environment.
func (s Secrets) Lookup(key string) string {
	key = NormalizeKey(key)
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return s[key]
}

// Keys returns the names of the loaded secrets in sorted order.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeKey maps file-style names to environment-style names.
func NormalizeKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}
