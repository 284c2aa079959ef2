// Copyright 2025 SCION Association
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"io"

	"go.uber.org/zap/zapcore"

	"github.com/devbench/devbench/pkg/private/serrors"
	"github.com/devbench/devbench/private/config"
)

const (
	// DefaultConsoleLevel is the default log level for the console logger.
	DefaultConsoleLevel = "info"
	// DefaultStacktraceLevel disables stack traces on log entries.
	DefaultStacktraceLevel = "none"
)

// Config is the configuration for the logger.
type Config struct {
	config.NoValidator
	// Console is the configuration for the console logging.
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields in cfg to their default values (if any).
func (c *Config) InitDefaults() {
	c.Console.InitDefaults()
}

// Validate validates that all values are parsable.
func (c *Config) Validate() error {
	return c.Console.Validate()
}

// Sample writes the sample configuration to dst.
func (c *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil, &c.Console)
}

// ConfigName returns the name this config should have in a struct embedding
// it.
func (c *Config) ConfigName() string {
	return "log"
}

// ConsoleConfig is the config for the console logger.
type ConsoleConfig struct {
	// Level of console logging (defaults to info).
	Level string `toml:"level,omitempty"`
	// Format of the console logging, human or json (defaults to human).
	Format string `toml:"format,omitempty"`
	// StacktraceLevel sets from which level stacktraces are included
	// (defaults to none).
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller stops annotating logs with the calling function's file
	// name and line number.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// InitDefaults populates unset fields in cfg to their default values (if any).
func (c *ConsoleConfig) InitDefaults() {
	if c.Level == "" {
		c.Level = DefaultConsoleLevel
	}
	if c.Format == "" {
		c.Format = "human"
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = DefaultStacktraceLevel
	}
}

// Validate validates that all values are parsable.
func (c *ConsoleConfig) Validate() error {
	if c.Format != "human" && c.Format != "json" && c.Format != "" {
		return serrors.New("unknown format", "format", c.Format)
	}
	if c.Level != "" {
		if _, err := zapcore.ParseLevel(c.Level); err != nil {
			return serrors.Wrap("parsing level", err, "level", c.Level)
		}
	}
	if c.StacktraceLevel != DefaultStacktraceLevel && c.StacktraceLevel != "" {
		if _, err := zapcore.ParseLevel(c.StacktraceLevel); err != nil {
			return serrors.Wrap("parsing stacktrace level", err,
				"level", c.StacktraceLevel)
		}
	}
	return nil
}

// Sample writes the sample configuration to dst.
func (c *ConsoleConfig) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, consoleConfigSample)
}

// ConfigName returns the name this config should have in a struct embedding
// it.
func (c *ConsoleConfig) ConfigName() string {
	return "console"
}

const consoleConfigSample = `
# Console logging level (debug|info|error) (default info)
level = "info"

# Encoding of the console logs (human|json) (default human)
format = "human"

# Level from which on entries carry a stack trace (debug|info|error|none)
# (default none)
stacktrace_level = "none"
`
