// Package logging builds the zap loggers used by the CLI and the loader.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Disabled is the level name that turns logging off.
const Disabled = "off"

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error", Disabled}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// New builds a development-style console logger writing to stderr at the
// given level. "off" returns a no-op logger.
func New(level string) (*zap.Logger, error) {
	lvl, off, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if off {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// NewWriter is like New but writes to w, without caller annotations.
func NewWriter(w io.Writer, level string) (*zap.Logger, error) {
	lvl, off, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if off {
		return zap.NewNop(), nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func parseLevel(level string) (zapcore.Level, bool, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == Disabled {
		return 0, true, nil
	}
	if !ValidLevel(level) {
		return 0, false, fmt.Errorf("unknown log level %q (want one of %s)", level, strings.Join(Levels, ", "))
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, false, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, false, nil
}
