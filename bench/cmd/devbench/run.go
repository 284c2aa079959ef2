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
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/devbench/devbench/bench"
	"github.com/devbench/devbench/bench/cases"
	"github.com/devbench/devbench/bench/params"
	"github.com/devbench/devbench/pkg/log"
	"github.com/devbench/devbench/private/affinity"
)

// caseChoice restricts the --case flag to registered case names.
type caseChoice string

func (c *caseChoice) String() string {
	return string(*c)
}

func (c *caseChoice) Set(v string) error {
	if _, err := cases.Get(v); err != nil {
		return err
	}
	*c = caseChoice(v)
	return nil
}

func (c *caseChoice) Type() string {
	return "string enum"
}

func (c *caseChoice) Allowed() string {
	return fmt.Sprintf("One of: %v", cases.Names())
}

// policyChoice restricts the --policy flag to known accounting policies.
type policyChoice bench.OverheadPolicy

func (p *policyChoice) String() string {
	return bench.OverheadPolicy(*p).String()
}

func (p *policyChoice) Set(v string) error {
	parsed, err := bench.ParseOverheadPolicy(v)
	if err != nil {
		return err
	}
	*p = policyChoice(parsed)
	return nil
}

func (p *policyChoice) Type() string {
	return "string enum"
}

func (p *policyChoice) Allowed() string {
	return fmt.Sprintf("One of: %v, %v",
		bench.OverheadFullDrain, bench.OverheadUntilFirstYield)
}

var (
	logConsole string
	deviceName string
	deviceArgs []string
	caseToRun  caseChoice
	policy     policyChoice
	idleLimit  int
	core       int
)

func newRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run --case <name> [flags] [-- --param value ...]",
		Short: "Runs one benchmark case and prints its report",
		Example: `  devbench run --case empty -- -i 1000000
  devbench run --case encrypt_burst --policy until-first-yield -- --burst_size 8
  devbench run --case tx_burst --device loop --device-arg sink=false`,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(run(cmd, args))
		},
	}
	registerRunFlags(cmd.Flags())
	cmd.MarkFlagRequired("case")
	return cmd
}

func registerRunFlags(flagSet *pflag.FlagSet) {
	flagSet.Var(&caseToRun, "case", "Case to run. "+caseToRun.Allowed())
	flagSet.StringVar(&deviceName, "device", "",
		"Device provider to run on (default: the case's own choice)")
	flagSet.StringArrayVar(&deviceArgs, "device-arg", []string{},
		"key=value argument for the device provider, repeatable")
	flagSet.Var(&policy, "policy",
		"Poll overhead accounting policy. "+policy.Allowed())
	flagSet.IntVar(&idleLimit, "idle-limit", 0,
		"Abort a drain after this many zero-progress polls (0 disables)")
	flagSet.IntVar(&core, "core", -1,
		"Pin the process to this core before running (-1 disables)")
	flagSet.StringVar(&logConsole, "log.console", "error",
		"Console logging level: debug|info|error|etc.")
}

func run(cmd *cobra.Command, args []string) int {
	logCfg := log.Config{Console: log.ConsoleConfig{Level: logConsole}}
	if err := log.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	defer log.HandlePanic()

	c, err := cases.Get(string(caseToRun))
	if err != nil {
		log.Error("Resolving case", "err", err)
		return 1
	}
	store, err := params.Parse(args)
	if err != nil {
		log.Error("Parsing case parameters", "err", err)
		return 1
	}
	devArgs, err := splitDeviceArgs(deviceArgs)
	if err != nil {
		log.Error("Parsing device arguments", "err", err)
		return 1
	}
	if core >= 0 {
		if err := affinity.Pin(core); err != nil {
			log.Error("Pinning to core", "core", core, "err", err)
			return 1
		}
	}

	spec := bench.RunSpec{
		Case:       c,
		Device:     deviceName,
		DeviceArgs: devArgs,
		Params:     store,
		IdleLimit:  idleLimit,
	}
	if cmd.Flags().Changed("policy") {
		p := bench.OverheadPolicy(policy)
		spec.Policy = &p
	}

	runner := &bench.Runner{}
	if _, err := runner.Run(cmd.Context(), spec); err != nil {
		log.Error("Benchmark failed", "case", c.Name(), "err", err)
		return 1
	}
	return 0
}

// splitDeviceArgs turns repeated key=value flags into provider arguments.
// It returns nil for an empty list so the case's own device arguments
// stay in effect.
func splitDeviceArgs(kvs []string) (map[string]string, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	args := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed device argument %q, want key=value", kv)
		}
		args[k] = v
	}
	return args, nil
}
