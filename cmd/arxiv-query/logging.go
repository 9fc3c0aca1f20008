// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// initLogging installs the default slog logger writing to w. Unknown
// levels fall back to warn; format "json" selects the JSON handler and
// anything else the text handler.
func initLogging(w io.Writer, lc types.LogConfig) *slog.Logger {
	level, ok := logLevelMap[strings.ToLower(lc.Level)]
	if !ok {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(lc.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
