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
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/devbench/devbench/bench/cases"
)

func newCases() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Lists the registered benchmark cases",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			listCases(cmd.OutOrStdout())
		},
	}
	return cmd
}

func listCases(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"CASE", "DEVICE", "PARAMETERS", "SUMMARY"})
	for _, name := range cases.Names() {
		c, err := cases.Get(name)
		if err != nil {
			continue
		}
		doc := c.Doc()
		table.Append([]string{name, doc.Device, doc.Params, doc.Summary})
	}
	table.Render()
}
