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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/cases"
	"github.com/devbench/devbench/bench/config"
	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/processmetrics"
	"github.com/devbench/devbench/pkg/private/prom"
	"github.com/devbench/devbench/pkg/private/serrors"
	libconfig "github.com/devbench/devbench/private/config"
	"github.com/devbench/devbench/private/env"
)

// Generic configuration keys served through viper. The generic layer
// carries defaults for values the typed config may omit.
const (
	cfgConfigFile                = "config"
	cfgGeneralID                 = "general.id"
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
)

var colorTerm = isatty.IsTerminal(os.Stdout.Fd())

func newSuite() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "suite --config <file>",
		Short:        "Runs the benchmark suite from a configuration file",
		Example:      "  devbench suite --config devbench.toml",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd)
		},
	}
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	cmd.Flags().String("log.console", "", "Console logging level: debug|info|error")
	cmd.MarkFlagRequired(cfgConfigFile)
	return cmd
}

func runSuite(cmd *cobra.Command) error {
	v := viper.New()
	v.SetDefault(cfgGeneralID, filepath.Base(os.Args[0]))
	v.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	v.SetDefault(cfgLogConsoleFormat, "human")
	v.SetDefault(cfgLogConsoleStacktraceLevel, log.DefaultStacktraceLevel)
	// Generic keys can be overridden from the environment, e.g.,
	// DEVBENCH_LOG_CONSOLE_LEVEL=debug.
	v.SetEnvPrefix("devbench")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlag(cfgConfigFile, cmd.Flags().Lookup(cfgConfigFile)); err != nil {
		return err
	}
	if err := v.BindPFlag(cfgLogConsoleLevel, cmd.Flags().Lookup("log.console")); err != nil {
		return err
	}
	v.SetConfigType("toml")
	v.SetConfigFile(v.GetString(cfgConfigFile))
	if err := v.ReadInConfig(); err != nil {
		return serrors.Wrap("loading generic config from file", err,
			"file", v.GetString(cfgConfigFile))
	}

	var cfg config.Config
	if err := libconfig.LoadFile(v.GetString(cfgConfigFile), &cfg); err != nil {
		return serrors.Wrap("loading config from file", err,
			"file", v.GetString(cfgConfigFile))
	}
	cfg.InitDefaults()
	if cfg.General.ID == "" {
		cfg.General.ID = v.GetString(cfgGeneralID)
	}

	logEntriesTotal := promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lib_log_emitted_entries_total",
			Help: "Total number of log entries emitted.",
		},
		[]string{"level"},
	)
	opt := log.WithEntriesCounter(log.EntriesCounter{
		Debug: logEntriesTotal.With(prometheus.Labels{"level": "debug"}),
		Info:  logEntriesTotal.With(prometheus.Labels{"level": "info"}),
		Error: logEntriesTotal.With(prometheus.Labels{"level": "error"}),
	})

	logCfg := log.Config{Console: log.ConsoleConfig{
		Level:           v.GetString(cfgLogConsoleLevel),
		Format:          v.GetString(cfgLogConsoleFormat),
		StacktraceLevel: v.GetString(cfgLogConsoleStacktraceLevel),
	}}
	if err := log.Setup(logCfg, opt); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()
	defer log.HandlePanic()

	if err := cfg.Validate(); err != nil {
		return serrors.Wrap("validating config", err)
	}

	env.LogAppStarted("devbench", cfg.General.ID)
	defer env.LogAppStopped("devbench", cfg.General.ID)
	prom.ExportElementID(cfg.General.ID)
	exportBuildInfo()
	if err := processmetrics.Init(); err != nil {
		// Harmless, the suite only loses some gauges.
		log.Error("Process metrics not available", "err", err)
	}

	entries, err := buildEntries(cfg.OrderedBenchmarks())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, errCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer log.HandlePanic()
		return cfg.Metrics.ServePrometheus(errCtx)
	})

	runner := &bench.Runner{
		Metrics: bench.NewMetrics(prometheus.DefaultRegisterer),
	}
	results := make([]suiteResult, 0, len(entries))
	failed := 0
	for _, e := range entries {
		log.Info("Running benchmark", "case", e.name, "device", e.device)
		rep, err := runner.Run(errCtx, e.spec)
		res := suiteResult{name: e.name, device: e.device, err: err}
		if err != nil {
			failed++
			log.Error("Benchmark failed", "case", e.name, "err", err)
		} else {
			res.cycles = rep.TotalCycles
		}
		results = append(results, res)
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.Error("Metrics server failed", "err", err)
	}

	summarize(os.Stdout, results)
	if failed > 0 {
		return serrors.New("suite finished with failures",
			"failed", failed, "total", len(results))
	}
	return nil
}

// suiteEntry is one resolved benchmark, ready to run.
type suiteEntry struct {
	name   string
	device string
	spec   bench.RunSpec
}

// suiteResult is the outcome of one entry, for the closing summary.
type suiteResult struct {
	name   string
	device string
	cycles uint64
	err    error
}

// buildEntries resolves all configured benchmarks up front so a typo in
// entry five surfaces before entry one spends a minute spinning.
func buildEntries(benchmarks []config.Benchmark) ([]suiteEntry, error) {
	entries := make([]suiteEntry, 0, len(benchmarks))
	for i, b := range benchmarks {
		c, err := cases.Get(b.Case)
		if err != nil {
			return nil, serrors.Wrap("resolving case", err, "index", i)
		}
		store, err := params.Parse(b.Args())
		if err != nil {
			return nil, serrors.Wrap("parsing parameters", err, "case", b.Case)
		}
		spec := bench.RunSpec{
			Case:       c,
			Device:     b.Device,
			DeviceArgs: b.DeviceArgs,
			Params:     store,
			IdleLimit:  b.IdleLimit,
		}
		if b.Policy != "" {
			p, err := bench.ParseOverheadPolicy(b.Policy)
			if err != nil {
				return nil, serrors.Wrap("parsing policy", err, "case", b.Case)
			}
			spec.Policy = &p
		}
		dev := b.Device
		if dev == "" {
			dev = c.Doc().Device
		}
		if dev == "" {
			dev = "null"
		}
		entries = append(entries, suiteEntry{name: b.Case, device: dev, spec: spec})
	}
	return entries, nil
}

func summarize(w io.Writer, results []suiteResult) {
	statusGood := color.New()
	statusBad := color.New()
	if colorTerm {
		statusGood = color.New(color.FgGreen)
		statusBad = color.New(color.FgRed)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"CASE", "DEVICE", "TOTAL CYCLES", "RESULT"})
	for _, r := range results {
		result := statusGood.Sprint("ok")
		total := strconv.FormatUint(r.cycles, 10)
		if r.err != nil {
			result = statusBad.Sprint("failed")
			total = "-"
		}
		table.Append([]string{r.name, r.device, total, result})
	}
	table.Render()
}
