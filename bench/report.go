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

package bench

import (
	"fmt"
	"io"
	"strings"
)

// Metadata is the ordered key/value set reported after a run. The harness
// consumers parse it as a Python dict literal, so formatting is part of
// the contract: keys in insertion order, strings single-quoted, booleans
// capitalized.
type Metadata struct {
	entries []metaEntry
}

type metaEntry struct {
	key   string
	value any
}

// Set records a value under key. Setting an existing key updates it in
// place, keeping its original position.
func (m *Metadata) Set(key string, value any) {
	for i := range m.entries {
		if m.entries[i].key == key {
			m.entries[i].value = value
			return
		}
	}
	m.entries = append(m.entries, metaEntry{key: key, value: value})
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Format renders the dict literal.
func (m *Metadata) Format() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s': %s", e.key, formatMetaValue(e.value))
	}
	b.WriteByte('}')
	return b.String()
}

func formatMetaValue(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + x + "'"
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

// Report is the machine-readable result of one run.
type Report struct {
	// TotalCycles is the elapsed ticks of the timed loop minus the
	// accumulated polling overhead.
	TotalCycles uint64
	Meta        Metadata
}

// Write emits the two-line result contract on w:
//
//	Total cycles: <n>
//	metadata: {'key': value, ...}
//
// Nothing else may be written to the same stream during a run.
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Total cycles: %d\n", r.TotalCycles); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "metadata: %s\n", r.Meta.Format())
	return err
}
