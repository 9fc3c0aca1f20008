// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultEndpoint is the arXiv query API.
const DefaultEndpoint = "https://export.arxiv.org/api/query"

// HTTPConfig holds shared HTTP settings.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-query/0.1 (mailto:you@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the arXiv client and the query defaults
// the CLI applies when a flag is not given.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the query API URL (default DefaultEndpoint).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// MaxResults is the default page size (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// SortBy is one of relevance, lastUpdatedDate, submittedDate.
	SortBy string `json:"sort_by" yaml:"sort_by" mapstructure:"sort_by"`

	// SortOrder is one of ascending, descending.
	SortOrder string `json:"sort_order" yaml:"sort_order" mapstructure:"sort_order"`
}

// LogConfig selects the CLI log level (debug, info, warn, error) and
// handler format (text, json).
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"log_level"`
	Format string `json:"format" yaml:"format" mapstructure:"log_format"`
}

// Config groups everything read from arxiv-query.yaml.
type Config struct {
	Client ClientConfig `json:"client" yaml:"client" mapstructure:",squash"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:",squash"`
}

// DefaultClientConfig returns the settings used when no config file is present.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "arxiv-query/dev",
		},
		Endpoint:   DefaultEndpoint,
		MaxResults: 10,
		SortBy:     "relevance",
		SortOrder:  "descending",
	}
}
