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

// Package affinity pins the calling goroutine to a CPU core. Benchmarks pin
// before the timed region so the submit/poll loop is not migrated between
// cores mid-measurement.
package affinity

import (
	"runtime"

	"github.com/devbench/devbench/pkg/private/serrors"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to the given core. The goroutine stays locked, Pin is meant to be called
// once from the benchmark goroutine.
func Pin(core int) error {
	if core < 0 {
		return serrors.New("invalid core", "core", core)
	}
	runtime.LockOSThread()
	if err := setAffinity(core); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}
