// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package env contains common configuration and initialization code shared by
// the benchmark commands. If something is specific to one command, it should
// go into that command's code and not here.
package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/pkg/private/serrors"
	"github.com/devbench/devbench/private/config"
)

// HandlerTimeout is the time after which the http handler gives up on a
// request and returns an error instead.
const HandlerTimeout = time.Minute

var _ config.Config = (*General)(nil)

type General struct {
	config.NoDefaulter
	// ID identifies this benchmark run in logs and metrics.
	ID string `toml:"id,omitempty"`
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("no id specified")
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, fmt.Sprintf(generalSample, ctx[idCtxKey]))
}

func (cfg *General) ConfigName() string {
	return "general"
}

// idCtxKey is the sample-generation context key for the default id.
const idCtxKey = "id"

// SampleCtx returns a sample-generation context carrying the given default id.
func SampleCtx(id string) config.CtxMap {
	return config.CtxMap{idCtxKey: id}
}

var _ config.Config = (*Metrics)(nil)

type Metrics struct {
	config.NoDefaulter
	config.NoValidator
	// Prometheus contains the address to export prometheus metrics on. If
	// not set, metrics are not exported.
	Prometheus string `toml:"prometheus,omitempty"`
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// ServePrometheus exports the default prometheus registry on the configured
// address until ctx is canceled. It is a no-op if no address is configured.
func (cfg *Metrics) ServePrometheus(ctx context.Context) error {
	if cfg.Prometheus == "" {
		return nil
	}
	handler := promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{Timeout: HandlerTimeout},
		),
	)
	http.Handle("/metrics", handler)
	log.Info("Exporting prometheus metrics", "addr", cfg.Prometheus)

	server := &http.Server{Addr: cfg.Prometheus}
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		server.Close()
	}()
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return serrors.Wrap("serving prometheus metrics", err)
	}
	return nil
}

// LogAppStarted logs the start banner of the application.
func LogAppStarted(shortName, id string) {
	log.Info("Application started", "type", shortName, "id", id, "pid", os.Getpid())
}

// LogAppStopped logs the stop banner of the application.
func LogAppStopped(shortName, id string) {
	log.Info("Application stopped", "type", shortName, "id", id)
}
