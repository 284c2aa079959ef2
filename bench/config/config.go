// Copyright 2020 Anapaya Systems
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

// Package config contains the configuration of the benchmark suite runner.
package config

import (
	"io"
	"sort"
	"strconv"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/serrors"
	"github.com/devbench/devbench/private/config"
	"github.com/devbench/devbench/private/env"
)

var _ config.Config = (*Config)(nil)

// Config is the suite runner configuration.
type Config struct {
	General    env.General `toml:"general,omitempty"`
	Logging    log.Config  `toml:"log,omitempty"`
	Metrics    env.Metrics `toml:"metrics,omitempty"`
	Benchmarks []Benchmark `toml:"benchmark,omitempty"`
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
	)
}

func (cfg *Config) Validate() error {
	if err := config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
	); err != nil {
		return err
	}
	if len(cfg.Benchmarks) == 0 {
		return serrors.New("no benchmarks configured")
	}
	for i := range cfg.Benchmarks {
		if err := cfg.Benchmarks[i].Validate(); err != nil {
			return serrors.Wrap("validating benchmark", err,
				"index", i, "case", cfg.Benchmarks[i].Case)
		}
	}
	return nil
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, env.SampleCtx(idSample),
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		benchmarksSampler{},
	)
}

func (cfg *Config) ConfigName() string {
	return "devbench_config"
}

// OrderedBenchmarks returns the entries in run order. Entries for the
// "empty" case move to the front so every suite starts from the harness
// floor; the rest keep their configured order.
func (cfg *Config) OrderedBenchmarks() []Benchmark {
	ordered := make([]Benchmark, 0, len(cfg.Benchmarks))
	for _, b := range cfg.Benchmarks {
		if b.Case == "empty" {
			ordered = append(ordered, b)
		}
	}
	for _, b := range cfg.Benchmarks {
		if b.Case != "empty" {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

// Benchmark is one suite entry.
type Benchmark struct {
	// Case names the registered benchmark case.
	Case string `toml:"case,omitempty"`
	// Device overrides the case's default provider.
	Device string `toml:"device,omitempty"`
	// DeviceArgs are handed to the provider on open.
	DeviceArgs map[string]string `toml:"device_args,omitempty"`
	// Params are the case parameters, all values as strings.
	Params map[string]string `toml:"params,omitempty"`
	// Iterations is the timed loop count. Zero uses the default.
	Iterations int `toml:"iterations,omitempty"`
	// Policy overrides the case's drain policy when set. One of
	// "full-drain" or "until-first-yield".
	Policy string `toml:"policy,omitempty"`
	// IdleLimit bounds consecutive empty polls per burst. Zero keeps
	// the unbounded spin.
	IdleLimit int `toml:"idle_limit,omitempty"`
}

func (b *Benchmark) Validate() error {
	if b.Case == "" {
		return serrors.New("case must be set")
	}
	if b.Iterations < 0 {
		return serrors.New("iterations must not be negative",
			"iterations", b.Iterations)
	}
	if b.IdleLimit < 0 {
		return serrors.New("idle limit must not be negative",
			"idle_limit", b.IdleLimit)
	}
	if b.Policy != "" {
		if _, err := bench.ParseOverheadPolicy(b.Policy); err != nil {
			return err
		}
	}
	return nil
}

// Args renders the entry's parameters as the argv tail the parameter
// store parses: the iteration count first, then the keys in sorted order.
func (b *Benchmark) Args() []string {
	var args []string
	if b.Iterations > 0 {
		args = append(args, "-i", strconv.Itoa(b.Iterations))
	}
	keys := make([]string, 0, len(b.Params))
	for k := range b.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--"+k, b.Params[k])
	}
	return args
}
