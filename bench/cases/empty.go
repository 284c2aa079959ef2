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

package cases

import (
	"context"

	"github.com/devbench/devbench/bench"
)

func init() {
	Register("empty", func() bench.Case { return emptyCase{} })
}

// emptyCase measures the harness floor: the timed loop runs with a step
// that does nothing. Suites run it first so every other result can be read
// against this baseline.
type emptyCase struct{}

func (emptyCase) Name() string { return "empty" }

func (emptyCase) Doc() bench.CaseDoc {
	return bench.CaseDoc{
		Summary: "No-op step, measures the harness floor",
		Device:  "sim",
	}
}

func (emptyCase) Setup(ctx context.Context, env *bench.CaseEnv) error { return nil }

func (emptyCase) Step(rc *bench.RunContext) error { return nil }

func (emptyCase) Teardown() error { return nil }

func (emptyCase) Metadata(m *bench.Metadata) {}
