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

// Package cases holds the registered benchmark cases. Each case measures
// one device API pattern: a no-op baseline, pool alloc/free, transform
// create/destroy, burst submit/drain in several variants, software
// checksums and copies, and packet transmit/receive over a loopback
// device.
//
// Cases register themselves by name from init. A case instance is
// single-use: Get constructs a fresh one per run.
package cases

import (
	"sort"
	"sync"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/pkg/private/serrors"
)

// Factory builds a fresh, single-use case instance.
type Factory func() bench.Case

var (
	registryMtx sync.RWMutex
	registry    = map[string]Factory{}
)

// Register makes a case available to Get under the given name. It panics
// if the name is already taken.
func Register(name string, factory Factory) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if _, ok := registry[name]; ok {
		panic("benchmark case registered twice: " + name)
	}
	registry[name] = factory
}

// Get constructs a fresh instance of the named case.
func Get(name string) (bench.Case, error) {
	registryMtx.RLock()
	factory, ok := registry[name]
	registryMtx.RUnlock()
	if !ok {
		return nil, serrors.New("unknown benchmark case", "case", name)
	}
	return factory(), nil
}

// Names lists the registered case names, sorted.
func Names() []string {
	registryMtx.RLock()
	defer registryMtx.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
