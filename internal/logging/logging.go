// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

// Package logging provides package-scoped structured loggers backed by
// zerolog. Components obtain a handle once at package init, e.g.
// `var logger = logging.Logger("backend")`.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	root = newRoot(os.Stderr, levelFromEnv())
)

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("ECMWFMARS_LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

func newRoot(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Configure replaces the root logger output and level. Intended for the CLI;
// library consumers normally leave the defaults in place.
func Configure(w io.Writer, level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	defer mu.Unlock()
	root = newRoot(w, lvl)
}

// Logger returns a component-scoped logger.
func Logger(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return root.With().Str("component", component).Logger()
}
