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

package device

import "fmt"

// Status is the completion status a device stamps on a drained descriptor.
// Any non-success status counts as an operation failure: it is logged and
// aggregated, the run continues. Statuses never terminate a run; only
// accounting violations do.
type Status int

const (
	// StatusSuccess marks an operation that completed correctly.
	StatusSuccess Status = iota
	// StatusNotProcessed marks an operation the device never looked at.
	StatusNotProcessed
	// StatusError marks a generic processing failure, including failed
	// verification of authenticated data.
	StatusError
	// StatusInvalidArgs marks a descriptor the device rejected as malformed.
	StatusInvalidArgs
	// StatusInvalidState marks a descriptor processed against a queue or
	// transform in the wrong state.
	StatusInvalidState
	// StatusOutOfSpaceTerminated marks an operation aborted because the
	// destination ran out of space; the output is unusable.
	StatusOutOfSpaceTerminated
	// StatusOutOfSpaceRecoverable marks an operation interrupted because the
	// destination ran out of space; the consumed/produced counts stay valid
	// and the operation may be resumed.
	StatusOutOfSpaceRecoverable
	// StatusUnknown is the catch-all bucket for status values outside the
	// closed set. Devices do not emit it directly; Classify maps stray
	// values onto it.
	StatusUnknown

	// StatusCount sizes arrays indexed by classified status.
	StatusCount = int(StatusUnknown) + 1
)

// Failure reports whether the status counts against the run's failed
// operation counter.
func (s Status) Failure() bool {
	return s != StatusSuccess
}

// Classify maps an arbitrary status value onto the closed set. Values outside
// the enum collapse onto StatusUnknown rather than being ignored.
func Classify(s Status) Status {
	if s < StatusSuccess || s > StatusUnknown {
		return StatusUnknown
	}
	return s
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotProcessed:
		return "not processed"
	case StatusError:
		return "error"
	case StatusInvalidArgs:
		return "invalid arguments"
	case StatusInvalidState:
		return "invalid state"
	case StatusOutOfSpaceTerminated:
		return "out of space, terminated"
	case StatusOutOfSpaceRecoverable:
		return "out of space, recoverable"
	case StatusUnknown:
		return "unknown error"
	default:
		return fmt.Sprintf("unknown error (status %d)", int(s))
	}
}
