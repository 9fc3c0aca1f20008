// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultClientConfig(), c.Client)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "arxiv-query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`endpoint: http://localhost:8080/api/query
timeout: 5s
max_results: 100
sort_by: submittedDate
log_format: json
`), 0o644))
	t.Setenv("ARXIV_QUERY_USER_AGENT", "arxiv-query/test (mailto:test@example.org)")
	t.Setenv("ARXIV_QUERY_MAX_RESULTS", "250")

	viper.SetConfigFile(path)
	setDefaults()
	viper.SetEnvPrefix("ARXIV_QUERY")
	viper.AutomaticEnv()
	require.NoError(t, viper.ReadInConfig())

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/query", c.Client.Endpoint)
	assert.Equal(t, 5*time.Second, c.Client.Timeout)
	assert.Equal(t, 250, c.Client.MaxResults, "environment overrides the file")
	assert.Equal(t, "submittedDate", c.Client.SortBy)
	assert.Equal(t, "descending", c.Client.SortOrder)
	assert.Equal(t, "arxiv-query/test (mailto:test@example.org)", c.Client.UserAgent)
	assert.Equal(t, "json", c.Log.Format)
}

func TestInitLogging(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := initLogging(&buf, types.LogConfig{Level: "INFO", Format: "json"})
	logger.Debug("hidden")
	logger.Info("shown", "n", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = initLogging(&buf, types.LogConfig{Level: "bogus"})
	logger.Info("below warn")
	logger.Warn("at warn")
	assert.NotContains(t, buf.String(), "below warn")
	assert.Contains(t, buf.String(), "msg=\"at warn\"")
}

func TestCategoriesCommand(t *testing.T) {
	var buf bytes.Buffer
	n := listCategories(&buf, "eess.")
	assert.Equal(t, 4, n)
	assert.Contains(t, buf.String(), "eess.SP")
	assert.NotContains(t, buf.String(), "cs.AI")

	buf.Reset()
	assert.Equal(t, len(types.KnownCategories()), listCategories(&buf, ""))
	assert.Equal(t, 0, listCategories(&buf, "nope."))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "arxiv-query dev\n", out.String())
}
