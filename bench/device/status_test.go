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

package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbench/devbench/bench/device"
)

func TestStatusString(t *testing.T) {
	testCases := map[device.Status]string{
		device.StatusSuccess:               "success",
		device.StatusNotProcessed:          "not processed",
		device.StatusError:                 "error",
		device.StatusInvalidArgs:           "invalid arguments",
		device.StatusInvalidState:          "invalid state",
		device.StatusOutOfSpaceTerminated:  "out of space, terminated",
		device.StatusOutOfSpaceRecoverable: "out of space, recoverable",
		device.StatusUnknown:               "unknown error",
	}
	for status, want := range testCases {
		t.Run(want, func(t *testing.T) {
			assert.Equal(t, want, status.String())
		})
	}
	assert.Equal(t, "unknown error (status 42)", device.Status(42).String())
}

func TestStatusFailure(t *testing.T) {
	assert.False(t, device.StatusSuccess.Failure())
	for _, status := range []device.Status{
		device.StatusNotProcessed,
		device.StatusError,
		device.StatusInvalidArgs,
		device.StatusInvalidState,
		device.StatusOutOfSpaceTerminated,
		device.StatusOutOfSpaceRecoverable,
		device.StatusUnknown,
	} {
		assert.True(t, status.Failure(), status.String())
	}
}

func TestClassify(t *testing.T) {
	// Known codes map to themselves.
	for s := device.StatusSuccess; s <= device.StatusUnknown; s++ {
		assert.Equal(t, s, device.Classify(s))
	}
	// Codes outside the enum are never reported verbatim.
	assert.Equal(t, device.StatusUnknown, device.Classify(device.Status(-1)))
	assert.Equal(t, device.StatusUnknown, device.Classify(device.Status(100)))
}
