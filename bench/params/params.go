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

// Package params parses and stores benchmark parameters. Parameters are
// the argv tail after the "--" separator: an optional iteration count via
// "-i N" plus "--key value" pairs. The store is immutable after parsing;
// typed getters validate on access and report which keys were consumed so
// callers can reject leftovers.
package params

import (
	"sort"
	"strconv"
	"strings"

	"github.com/devbench/devbench/pkg/private/serrors"
)

// DefaultIterations is the iteration count used when -i is absent.
const DefaultIterations = 1000000

// Store holds parsed benchmark parameters.
type Store struct {
	values     map[string]string
	consumed   map[string]bool
	iterations int
}

// Parse builds a store from the post-separator argument tail. Duplicate
// keys, missing values and anything not of the form "-i N" or
// "--key value" are errors.
func Parse(args []string) (*Store, error) {
	s := &Store{
		values:     make(map[string]string),
		consumed:   make(map[string]bool),
		iterations: DefaultIterations,
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-i":
			i++
			if i >= len(args) {
				return nil, serrors.New("missing value", "flag", "-i")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				return nil, serrors.New("invalid iteration count", "value", args[i])
			}
			s.iterations = n
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			key := arg[2:]
			if _, ok := s.values[key]; ok {
				return nil, serrors.New("duplicate parameter", "key", key)
			}
			i++
			if i >= len(args) {
				return nil, serrors.New("missing value", "key", key)
			}
			s.values[key] = args[i]
		default:
			return nil, serrors.New("malformed parameter", "arg", arg)
		}
	}
	return s, nil
}

// Empty returns a store with no parameters and default iterations.
func Empty() *Store {
	s, _ := Parse(nil)
	return s
}

// Iterations returns the timed loop count.
func (s *Store) Iterations() int {
	return s.iterations
}

// Lookup returns the raw value and whether the key was given. It does not
// mark the key as consumed.
func (s *Store) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the value for key, or def when absent.
func (s *Store) String(key, def string) string {
	s.consumed[key] = true
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Int returns the integer value for key, or def when absent.
func (s *Store) Int(key string, def int) (int, error) {
	s.consumed[key] = true
	v, ok := s.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, serrors.New("invalid integer parameter", "key", key, "value", v)
	}
	return n, nil
}

// Uint returns the unsigned value for key, or def when absent.
func (s *Store) Uint(key string, def uint64) (uint64, error) {
	s.consumed[key] = true
	v, ok := s.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, serrors.New("invalid unsigned parameter", "key", key, "value", v)
	}
	return n, nil
}

// Bytes returns a positive byte count for key, or def when absent.
func (s *Store) Bytes(key string, def int) (int, error) {
	n, err := s.Int(key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, serrors.New("byte count must be positive", "key", key, "value", n)
	}
	return n, nil
}

// Bool returns the boolean value for key, or def when absent.
func (s *Store) Bool(key string, def bool) (bool, error) {
	s.consumed[key] = true
	v, ok := s.values[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, serrors.New("invalid boolean parameter", "key", key, "value", v)
	}
	return b, nil
}

// Enum returns the value for key when it is one of allowed, or def when
// absent. Unrecognized names are rejected, never silently defaulted.
func (s *Store) Enum(key, def string, allowed ...string) (string, error) {
	s.consumed[key] = true
	v, ok := s.values[key]
	if !ok {
		return def, nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", serrors.New("unsupported value", "key", key, "value", v,
		"allowed", strings.Join(allowed, ", "))
}

// Rest returns the keys that no getter has consumed, sorted. A case
// rejects a non-empty rest at setup so typos fail loudly.
func (s *Store) Rest() []string {
	var rest []string
	for k := range s.values {
		if !s.consumed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return rest
}
