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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
)

// Option configures the logger during Setup.
type Option func(*options)

type options struct {
	entriesCounter *EntriesCounter
}

func applyOptions(opts []Option) options {
	var o options
	for _, option := range opts {
		option(&o)
	}
	return o
}

// WithEntriesCounter configures a metric counter of the emitted log entries.
func WithEntriesCounter(m EntriesCounter) Option {
	return func(o *options) {
		o.entriesCounter = &m
	}
}

// EntriesCounter holds the counters for emitted log entries, per level.
type EntriesCounter struct {
	Debug prometheus.Counter
	Info  prometheus.Counter
	Error prometheus.Counter
}

func (m *EntriesCounter) hook(e zapcore.Entry) error {
	switch e.Level {
	case zapcore.ErrorLevel:
		if m.Error != nil {
			m.Error.Inc()
		}
	case zapcore.InfoLevel:
		if m.Info != nil {
			m.Info.Inc()
		}
	case zapcore.DebugLevel:
		if m.Debug != nil {
			m.Debug.Inc()
		}
	}
	return nil
}
