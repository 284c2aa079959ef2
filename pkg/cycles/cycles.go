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

// Package cycles provides the tick source used to time benchmark regions.
// One tick of the default source is one nanosecond of the monotonic process
// clock. Timed code paths take a Source so that tests can substitute a
// manually driven one.
package cycles

import (
	"time"
)

// Source yields a monotonically nondecreasing tick count.
type Source interface {
	Ticks() uint64
}

// Monotonic reads the monotonic process clock. The zero value is not usable,
// construct it with NewMonotonic.
type Monotonic struct {
	base time.Time
}

// NewMonotonic returns a Source backed by the monotonic process clock.
// Ticks are nanoseconds since construction.
func NewMonotonic() *Monotonic {
	return &Monotonic{base: time.Now()}
}

// Ticks returns the nanoseconds elapsed since the source was constructed.
func (m *Monotonic) Ticks() uint64 {
	return uint64(time.Since(m.base))
}

// Manual is a hand-driven Source for tests. Every Ticks call advances the
// count by Step, so successive reads are distinct without wall time passing.
type Manual struct {
	Now  uint64
	Step uint64
}

// Ticks advances the count by Step and returns it.
func (m *Manual) Ticks() uint64 {
	m.Now += m.Step
	return m.Now
}
