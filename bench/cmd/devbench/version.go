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

package main

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"github.com/devbench/devbench/pkg/private/prom"
)

// version is injected at link time.
var version = "devel"

// exportBuildInfo exports the binary version so that scrapes can be
// correlated with the build that produced them.
func exportBuildInfo() {
	promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: prom.Namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "goversion"},
	).WithLabelValues(version, runtime.Version()).Set(1)
}

func newVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Shows the devbench version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("  Version:    %s\n", version)
			fmt.Printf("  Go version: %s\n", runtime.Version())
			fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	return cmd
}
