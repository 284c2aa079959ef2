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

package bench

import (
	"context"

	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/log"
)

// Case is one registered benchmark. A Case instance is single-use: a
// fresh one is constructed for every run.
type Case interface {
	// Name returns the registry name.
	Name() string
	// Doc describes the case for listings.
	Doc() CaseDoc
	// Setup allocates descriptors, buffers and transforms through env
	// and consumes the case's parameters.
	Setup(ctx context.Context, env *CaseEnv) error
	// Step executes one timed iteration.
	Step(rc *RunContext) error
	// Teardown releases what Setup allocated.
	Teardown() error
	// Metadata contributes the case's parameter echo to the report.
	Metadata(m *Metadata)
}

// Drainer is implemented by cases that can leave descriptors in flight
// when the timed loop ends. Drain runs between the loop and the in-flight
// accounting check.
type Drainer interface {
	Drain(rc *RunContext) error
}

// CaseDoc describes a case for the listing command.
type CaseDoc struct {
	Summary string
	// Device is the provider the case runs on when none is selected.
	Device string
	// DeviceArgs are the provider arguments that go with the default
	// device. They apply only when the run selects neither.
	DeviceArgs map[string]string
	// Params documents the parameters the case consumes.
	Params string
}

// CaseEnv carries the per-run collaborators handed to Setup.
type CaseEnv struct {
	Session *Session
	Driver  *Driver
	Params  *params.Store
	Log     log.Logger
}
