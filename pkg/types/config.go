package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that call the
// upstream text-extraction service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deadline-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for fetching extracted plain text from the
// upstream extraction service. Per prd105-text-fetch R2.1-R2.3.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retry attempts on rate-limited
	// responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxBytes caps the size of a fetched document (default 10 MiB).
	// Larger documents are rejected before scanning.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`

	// Token is an optional bearer token for the extraction service.
	// Usually loaded from .secrets/ rather than config.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// ScanConfig holds settings for the candidate scanner.
// Per prd101-scanning R3.1-R3.2.
type ScanConfig struct {
	// ShortContextLen is the length budget for the short context window
	// (default 80).
	ShortContextLen int `json:"short_context_len" yaml:"short_context_len"`

	// LongContextLen is the length budget for the long context window
	// (default 150).
	LongContextLen int `json:"long_context_len" yaml:"long_context_len"`
}

// NormalizeConfig holds settings for date normalization.
// Per prd102-normalization R2.4.
type NormalizeConfig struct {
	// MonthFirst resolves the ambiguous A/B/YYYY case (both A and B at
	// most 12) as month-first instead of the day-first default. One
	// fixed policy applies for the whole process; there is no
	// per-string guessing.
	MonthFirst bool `json:"month_first" yaml:"month_first"`
}

// StoreConfig holds settings for the deadline store.
// Per prd104-persistence R1.1.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database and export
	// files (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scan      ScanConfig      `json:"scan" yaml:"scan"`
	Normalize NormalizeConfig `json:"normalize" yaml:"normalize"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
}
