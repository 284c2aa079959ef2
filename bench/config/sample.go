// Copyright 2020 Anapaya Systems
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

package config

import (
	"io"

	"github.com/devbench/devbench/private/config"
)

const idSample = "devbench"

// benchmarksSampler emits the [[benchmark]] array of tables. It is not a
// TableSampler; the entries carry their own headers.
type benchmarksSampler struct{}

func (benchmarksSampler) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, benchmarkSample)
}

const benchmarkSample = `
[[benchmark]]
    # Registered case to run. (required)
    case = "empty"
    # Iterations of the timed loop. (default 1000000)
    iterations = 1000000

[[benchmark]]
    case = "compress_burst"
    # Device to run the case on instead of the case's default.
    device = "soft-comp"
    # Drain policy, "full-drain" or "until-first-yield". Empty keeps the
    # case's default.
    policy = "full-drain"
    # Abort a burst after this many consecutive empty polls. (default 0,
    # spin forever)
    idle_limit = 0

    # Case parameters, every value a string.
    [benchmark.params]
        burst_size = "32"
        data_size = "1024"
        algorithm = "deflate"

[[benchmark]]
    case = "tx_burst"
    device = "loop"

    # Arguments handed to the device provider on open.
    [benchmark.device_args]
        sink = "true"

    [benchmark.params]
        burst_size = "32"
        payload_size = "64"
`
