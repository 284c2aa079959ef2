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

//go:build linux

package affinity

import (
	"golang.org/x/sys/unix"

	"github.com/devbench/devbench/pkg/private/serrors"
)

func setAffinity(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	// Pid 0 targets the calling thread, which LockOSThread holds.
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return serrors.Wrap("setting cpu affinity", err, "core", core)
	}
	return nil
}
