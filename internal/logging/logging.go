/*
Copyright 2026 RDK Management

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the agent's zerolog logger. No component in
// this repository reaches for a process-wide logger; every
// constructor takes a logger explicitly.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatPretty  = "consolepretty"
	FormatDiscard = "discard"
)

// Formats lists the accepted values for FormatJSON/FormatPretty/FormatDiscard.
var Formats = []string{FormatJSON, FormatPretty, FormatDiscard}

func init() {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
}

// New builds a base logger writing to w (os.Stderr in production) in
// the requested format and level. level is parsed with
// zerolog.ParseLevel ("trace".."panic").
func New(w io.Writer, format, level string) (zerolog.Logger, error) {
	var logger zerolog.Logger
	switch format {
	case FormatJSON:
		logger = zerolog.New(w)
	case FormatPretty:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	case FormatDiscard:
		logger = zerolog.New(io.Discard)
	default:
		return zerolog.Logger{}, fmt.Errorf("logging: format %q not known", format)
	}
	logger = logger.With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("logging: level %q not known: %w", level, err)
	}
	return logger.Level(lvl), nil
}

// Default returns a pretty logger at info level writing to stderr,
// for command-line tools and tests that don't care about format.
func Default() zerolog.Logger {
	logger, err := New(os.Stderr, FormatPretty, "info")
	if err != nil {
		// FormatPretty/"info" are always valid; this would be a
		// programmer error in this package.
		panic(err)
	}
	return logger
}

// WithInvocation attaches an invocation id and device MAC to every
// subsequent log line so one run's output can be correlated across
// components.
func WithInvocation(logger zerolog.Logger, invocationID, mac string) zerolog.Logger {
	return logger.With().
		Str("invocation_id", invocationID).
		Str("device_mac", mac).
		Logger()
}
