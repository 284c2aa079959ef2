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

package bench_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/bench"
)

func TestMetadataFormat(t *testing.T) {
	var m bench.Metadata
	assert.Equal(t, "{}", m.Format())

	m.Set("algorithm", "deflate")
	m.Set("burst_size", 32)
	m.Set("checksum", true)
	m.Set("sealed", false)
	m.Set("total_poll_cycles", uint64(1900000))
	assert.Equal(t,
		"{'algorithm': 'deflate', 'burst_size': 32, 'checksum': True,"+
			" 'sealed': False, 'total_poll_cycles': 1900000}",
		m.Format())
}

func TestMetadataSetKeepsPosition(t *testing.T) {
	var m bench.Metadata
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 9)
	assert.Equal(t, "{'a': 9, 'b': 2}", m.Format())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 9, v)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestReportWrite(t *testing.T) {
	rep := &bench.Report{TotalCycles: 7600000}
	rep.Meta.Set("burst_size", 4)
	rep.Meta.Set("total_poll_cycles", uint64(1900000))
	rep.Meta.Set("total_failed_ops", uint64(0))

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf))
	want := "Total cycles: 7600000\n" +
		"metadata: {'burst_size': 4, 'total_poll_cycles': 1900000, 'total_failed_ops': 0}\n"
	assert.Equal(t, want, buf.String())
}
