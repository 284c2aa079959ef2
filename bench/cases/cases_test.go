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

package cases_test

import (
	"bytes"
	"context"
	"hash/crc32"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/cases"
	"github.com/devbench/devbench/bench/device"
	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/cycles"
	"github.com/devbench/devbench/pkg/log"

	_ "github.com/devbench/devbench/bench/device/simdev"
	_ "github.com/devbench/devbench/bench/device/softdev"
)

func TestMain(m *testing.M) {
	log.Discard()
	os.Exit(m.Run())
}

var allCases = []string{
	"alloc_bufs",
	"alloc_ops",
	"checksum",
	"cksum_ipv4",
	"compress_burst",
	"decompress_burst",
	"decrypt_burst",
	"decrypt_wait_burst",
	"empty",
	"encrypt_burst",
	"encrypt_wait_burst",
	"memcpy",
	"rx_burst",
	"session_create_free",
	"tx_burst",
	"xform_create_free",
}

// runCase runs the named case to completion on its default device and
// returns the report alongside the raw two-line output.
func runCase(t *testing.T, name string, args ...string) (*bench.Report, string) {
	t.Helper()
	report, out, err := runCaseErr(t, name, args...)
	require.NoError(t, err)
	return report, out
}

func runCaseErr(t *testing.T, name string, args ...string) (*bench.Report, string, error) {
	t.Helper()
	c, err := cases.Get(name)
	require.NoError(t, err)
	store, err := params.Parse(args)
	require.NoError(t, err)
	var out bytes.Buffer
	r := &bench.Runner{Ticks: &cycles.Manual{Step: 1}, Out: &out}
	report, err := r.Run(context.Background(), bench.RunSpec{Case: c, Params: store})
	return report, out.String(), err
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, allCases, cases.Names())

	_, err := cases.Get("no_such_case")
	assert.Error(t, err)

	// Instances are single-use; Get must build a fresh one every time.
	c1, err := cases.Get("compress_burst")
	require.NoError(t, err)
	c2, err := cases.Get("compress_burst")
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
}

func TestCaseDocs(t *testing.T) {
	providers := make(map[string]bool)
	for _, p := range device.Providers() {
		providers[p] = true
	}
	for _, name := range allCases {
		c, err := cases.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
		doc := c.Doc()
		assert.NotEmpty(t, doc.Summary, "case %s", name)
		assert.True(t, providers[doc.Device],
			"case %s names unregistered device %q", name, doc.Device)
	}
}

// Every case must complete a short run on its default device and emit the
// two-line contract with the runner's trailing keys.
func TestAllCasesRun(t *testing.T) {
	for _, name := range allCases {
		t.Run(name, func(t *testing.T) {
			report, out := runCase(t, name,
				"-i", "25", "--burst_size", "4", "--data_size", "256")

			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[0], "Total cycles: "))
			assert.True(t, strings.HasPrefix(lines[1], "metadata: {"))

			polls, ok := report.Meta.Get("total_poll_cycles")
			require.True(t, ok)
			assert.IsType(t, uint64(0), polls)
			failed, ok := report.Meta.Get("total_failed_ops")
			require.True(t, ok)
			assert.Equal(t, uint64(0), failed)
		})
	}
}

func TestCompressMetadata(t *testing.T) {
	report, _ := runCase(t, "compress_burst",
		"-i", "10", "--burst_size", "4", "--data_size", "512",
		"--algorithm", "lz4", "--checksum", "crc32")

	burst, _ := report.Meta.Get("burst_size")
	assert.Equal(t, 4, burst)
	algo, _ := report.Meta.Get("algorithm")
	assert.Equal(t, "lz4", algo)
	cks, _ := report.Meta.Get("checksum")
	assert.Equal(t, "crc32", cks)
}

func TestCompressRejectsUnknownAlgorithm(t *testing.T) {
	_, _, err := runCaseErr(t, "compress_burst", "--algorithm", "zstd")
	require.Error(t, err)
}

func TestXformRejectsOddWindow(t *testing.T) {
	_, _, err := runCaseErr(t, "xform_create_free", "--window_size", "1000")
	require.Error(t, err)
}

func TestCryptoRejectsTinyPayload(t *testing.T) {
	// Below the GCM tag there is no room for any plaintext byte.
	_, _, err := runCaseErr(t, "encrypt_burst", "--data_size", "8")
	require.Error(t, err)
}

func TestChecksumResult(t *testing.T) {
	const size = 64
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	want := uint64(crc32.ChecksumIEEE(data))

	report, _ := runCase(t, "checksum",
		"-i", "10", "--checksum", "crc32", "--data_size", "64")

	result, ok := report.Meta.Get("checksum_result")
	require.True(t, ok)
	assert.Equal(t, want, result)
	reported, _ := report.Meta.Get("checksum_size")
	assert.Equal(t, size, reported)
}

func TestIPv4ChecksumMetadata(t *testing.T) {
	report, _ := runCase(t, "cksum_ipv4", "-i", "10", "--payload_size", "32")

	ipCks, ok := report.Meta.Get("ipv4_checksum")
	require.True(t, ok)
	assert.NotEqual(t, uint16(0), ipCks)
	_, ok = report.Meta.Get("udp_checksum")
	assert.True(t, ok)
	size, _ := report.Meta.Get("payload_size")
	assert.Equal(t, 32, size)
}

func TestTxBurstCountsPackets(t *testing.T) {
	report, _ := runCase(t, "tx_burst", "-i", "10", "--burst_size", "8")

	// The loopback sink accepts every frame, so the count is exact.
	sent, ok := report.Meta.Get("total_packets_sent")
	require.True(t, ok)
	assert.Equal(t, uint64(80), sent)
}

func TestRxBurstIdleWire(t *testing.T) {
	report, _ := runCase(t, "rx_burst", "-i", "50", "--burst_size", "8")

	received, ok := report.Meta.Get("total_packets_received")
	require.True(t, ok)
	assert.Equal(t, uint64(0), received)
}

func TestUnknownParameterFails(t *testing.T) {
	_, _, err := runCaseErr(t, "empty", "--no_such_param", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, bench.ErrConfig)
}

func TestDeviceOverride(t *testing.T) {
	// The alloc cases never submit, so they run on any provider.
	c, err := cases.Get("alloc_ops")
	require.NoError(t, err)
	var out bytes.Buffer
	r := &bench.Runner{Ticks: &cycles.Manual{Step: 1}, Out: &out}
	store, err := params.Parse([]string{"-i", "5"})
	require.NoError(t, err)
	_, err = r.Run(context.Background(), bench.RunSpec{
		Case:   c,
		Device: "sim",
		Params: store,
	})
	require.NoError(t, err)
}
