package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for a single backend call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Referer is sent as the HTTP-Referer header to OpenRouter.
	Referer string `json:"referer" yaml:"referer" mapstructure:"referer"`

	// Title is sent as the X-Title header to OpenRouter.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// RateLimitRetries bounds the transport's own retries on 429 and gateway
	// errors inside each batch attempt. Zero keeps the client default.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`

	// BaseURL overrides the backend endpoint. Empty uses the public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// BackendKind identifies the scoring backend implementation.
type BackendKind string

const (
	BackendOpenRouter BackendKind = "openrouter"
	BackendAnthropic  BackendKind = "anthropic"
)

// AIConfig holds settings for the scoring backend.
type AIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the API used to score words: openrouter or anthropic.
	Backend BackendKind `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the model identifier (e.g. "anthropic/claude-3.5-sonnet").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxTokens caps the length of a single reply (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Debug dumps request payloads and raw replies to the logger.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
}

// ScoringConfig holds settings for a scoring run.
type ScoringConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// InputFile is the word list, one word per line.
	InputFile string `json:"input_file" yaml:"input_file" mapstructure:"input_file"`

	// PromptFile holds the instruction sent with every batch.
	PromptFile string `json:"prompt_file" yaml:"prompt_file" mapstructure:"prompt_file"`

	// ScoresFile is the append-only word:score log.
	ScoresFile string `json:"scores_file" yaml:"scores_file" mapstructure:"scores_file"`

	// BatchSize is the number of words sent per backend call (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// MaxRetries is the number of retries for a failed batch call. Zero aborts
	// the run on the first failure.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Resume appends to an existing scores file and skips words it already holds.
	Resume bool `json:"resume" yaml:"resume" mapstructure:"resume"`
}

// FilterConfig holds settings for the filtering pass.
type FilterConfig struct {
	// InputFile is the word:score log produced by a scoring run.
	InputFile string `json:"input_file" yaml:"input_file" mapstructure:"input_file"`

	// OutputFile receives the accepted words, one per line.
	OutputFile string `json:"output_file" yaml:"output_file" mapstructure:"output_file"`

	// MinScore is the inclusive acceptance threshold (default 90).
	MinScore int `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// Collation names the ordering: "tr" (default), any BCP 47 tag, or "none".
	Collation string `json:"collation" yaml:"collation" mapstructure:"collation"`

	// ReportPath optionally receives a YAML summary of the pass.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty" mapstructure:"report_path"`
}

// IndexConfig holds settings for the SQLite score index.
type IndexConfig struct {
	// Dir is the directory holding wordscore.db and export files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Collation orders query and export results (default "tr").
	Collation string `json:"collation" yaml:"collation" mapstructure:"collation"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
