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

package cycles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbench/devbench/pkg/cycles"
)

func TestMonotonicNondecreasing(t *testing.T) {
	src := cycles.NewMonotonic()
	prev := src.Ticks()
	for i := 0; i < 100; i++ {
		now := src.Ticks()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestManual(t *testing.T) {
	src := &cycles.Manual{Step: 10}
	assert.Equal(t, uint64(10), src.Ticks())
	assert.Equal(t, uint64(20), src.Ticks())
	src.Now = 100
	assert.Equal(t, uint64(110), src.Ticks())
}
