package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// ParseLogLevel maps a level name (debug, info, warn, error) to a slog.Level.
// An empty name is info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log-level must be one of debug, info, warn or error, got: %s", level)
	}
}

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: transport", "value", s.Transport)
	if s.Transport == "sse" {
		logger.InfoContext(ctx, "Config: host", "value", s.Host)
		logger.InfoContext(ctx, "Config: port", "value", s.Port)
	}
	logger.InfoContext(ctx, "Config: log_level", "value", s.LogLevel)
	logger.InfoContext(ctx, "Config: store.path", "value", s.Store.Path)

	logger.InfoContext(ctx, "Config: search.default_limit", "value", s.Search.DefaultLimit)
	logger.InfoContext(ctx, "Config: search.max_limit", "value", s.Search.MaxLimit)
	logger.InfoContext(ctx, "Config: search.position_workers", "value", s.Search.PositionWorkers)

	logger.InfoContext(ctx, "Config: keywords.recompute_mode", "value", s.Keywords.RecomputeMode)
	if s.Keywords.RecomputeMode == RecomputeModeAsync {
		logger.InfoContext(ctx, "Config: keywords.recompute_workers", "value", s.Keywords.RecomputeWorkers)
	}
	logger.InfoContext(ctx, "Config: keywords.recompute_timeout", "value", s.Keywords.RecomputeTimeout)
	logger.InfoContext(ctx, "Config: keywords.recompute_retries", "value", s.Keywords.RecomputeRetries)
}
