// Copyright 2017 ETH Zurich
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

// Package prom contains some utility functions for dealing with prometheus
// metrics.
package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the metric namespace of all harness metrics.
const Namespace = "devbench"

// Common label values.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelStatus is the label for completion status classifications.
	LabelStatus = "status"
	// LabelCase is the label for a benchmark case name.
	LabelCase = "case"
	// LabelDevice is the label for a device provider name.
	LabelDevice = "device"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// ErrConfig is used for configuration related errors.
	ErrConfig = "err_config"
	// ErrAccounting is used for completion accounting violations.
	ErrAccounting = "err_accounting"
	// ErrNotClassified is an error that is not further classified.
	ErrNotClassified = "err_not_classified"
)

var (
	// DefaultSizeBuckets 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384.
	DefaultSizeBuckets = []float64{32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384}
	// DefaultPollBuckets 1, 2, 4, ... 1024 poll attempts per drained burst.
	DefaultPollBuckets = prometheus.ExponentialBuckets(1, 2, 11)
)

// ExportElementID exports the benchmark identifier as configured.
func ExportElementID(id string) {
	promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "elem_id",
			Help:      "The benchmark identifier from the config file",
		},
		[]string{"cfg"},
	).WithLabelValues(id).Set(1)
}

// SafeRegister registers c and returns the registered collector. If c was
// already registered the already registered collector is returned. In case of
// any other error this method panics (as MustRegister).
func SafeRegister(c prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
