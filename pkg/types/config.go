package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "openreview-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the upstream OpenReview clients.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURLV1 and BaseURLV2 are the API endpoints. Overridable for tests.
	BaseURLV1 string `json:"base_url_v1" yaml:"base_url_v1"`
	BaseURLV2 string `json:"base_url_v2" yaml:"base_url_v2"`

	// Username and Password are optional OpenReview credentials. Public
	// venues work anonymously.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// PageLimit is the notes-per-request batch size (default 1000).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// RequestsPerSecond caps the upstream request rate (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// ProfileFile optionally points at a YAML file of per-year venue
	// profile overrides.
	ProfileFile string `json:"profile_file,omitempty" yaml:"profile_file,omitempty"`
}

// CollectConfig holds settings for a collection run.
type CollectConfig struct {
	// OutputFile is the JSONL dataset path.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// SubmissionDelay is the pause between processing consecutive
	// submissions within a year (default 100ms).
	SubmissionDelay time.Duration `json:"submission_delay" yaml:"submission_delay"`

	// YearDelay is the pause between consecutive years (default 5s).
	YearDelay time.Duration `json:"year_delay" yaml:"year_delay"`

	// StartYear and EndYear bound a full collection run (defaults 2016, 2025).
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`
}

// IndexConfig holds settings for the SQLite dataset index.
type IndexConfig struct {
	// DBFile is the SQLite database path.
	DBFile string `json:"db_file" yaml:"db_file"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
