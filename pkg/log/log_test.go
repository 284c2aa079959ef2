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

package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/log/testlog"
)

func TestConsoleConfigInitDefaults(t *testing.T) {
	var cfg log.ConsoleConfig
	cfg.InitDefaults()
	assert.Equal(t, log.DefaultConsoleLevel, cfg.Level)
	assert.Equal(t, "human", cfg.Format)
	assert.Equal(t, log.DefaultStacktraceLevel, cfg.StacktraceLevel)
}

func TestConsoleConfigValidate(t *testing.T) {
	testCases := map[string]struct {
		cfg       log.ConsoleConfig
		assertErr assert.ErrorAssertionFunc
	}{
		"empty": {
			cfg:       log.ConsoleConfig{},
			assertErr: assert.NoError,
		},
		"defaults": {
			cfg: log.ConsoleConfig{
				Level:           "info",
				Format:          "human",
				StacktraceLevel: "none",
			},
			assertErr: assert.NoError,
		},
		"json": {
			cfg:       log.ConsoleConfig{Level: "debug", Format: "json"},
			assertErr: assert.NoError,
		},
		"bad level": {
			cfg:       log.ConsoleConfig{Level: "chatty"},
			assertErr: assert.Error,
		},
		"bad format": {
			cfg:       log.ConsoleConfig{Format: "xml"},
			assertErr: assert.Error,
		},
		"bad stacktrace level": {
			cfg:       log.ConsoleConfig{StacktraceLevel: "sometimes"},
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			tc.assertErr(t, tc.cfg.Validate())
		})
	}
}

func TestFromCtx(t *testing.T) {
	assert.NotNil(t, log.FromCtx(context.Background()))

	logger := testlog.NewLogger(t)
	ctx := log.CtxWith(context.Background(), logger)
	assert.Equal(t, logger, log.FromCtx(ctx))

	child, childLogger := log.WithLabels(ctx, "run", 1)
	assert.NotNil(t, childLogger)
	assert.Equal(t, childLogger, log.FromCtx(child))
}
