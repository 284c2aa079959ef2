// Copyright 2019 Anapaya Systems
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

package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbench/devbench/pkg/private/serrors"
)

type testErrType struct {
	msg string
}

func (e *testErrType) Error() string {
	return e.msg
}

type testToTempErr struct {
	msg       string
	timeout   bool
	temporary bool
	cause     error
}

func (e *testToTempErr) Error() string {
	return e.msg
}

func (e *testToTempErr) Timeout() bool {
	return e.timeout
}

func (e *testToTempErr) Temporary() bool {
	return e.temporary
}

func (e *testToTempErr) Unwrap() error {
	return e.cause
}

func TestIsTimeout(t *testing.T) {
	err := serrors.New("no timeout")
	assert.False(t, serrors.IsTimeout(err))
	wrappedErr := serrors.Wrap("timeout",
		&testToTempErr{msg: "to", timeout: true})
	assert.True(t, serrors.IsTimeout(wrappedErr))
	noTimeoutWrappingTimeout := serrors.Wrap("notimeout", &testToTempErr{
		msg:     "non timeout wraps timeout",
		timeout: false,
		cause:   &testToTempErr{msg: "timeout", timeout: true},
	})
	assert.False(t, serrors.IsTimeout(noTimeoutWrappingTimeout))
}

func TestIsTemporary(t *testing.T) {
	err := serrors.New("not temp")
	assert.False(t, serrors.IsTemporary(err))
	wrappedErr := serrors.Wrap("temp",
		&testToTempErr{msg: "to", temporary: true})
	assert.True(t, serrors.IsTemporary(wrappedErr))
	noTempWrappingTemp := serrors.Wrap("notemp", &testToTempErr{
		msg:       "non temp wraps temp",
		temporary: false,
		cause:     &testToTempErr{msg: "temp", temporary: true},
	})
	assert.False(t, serrors.IsTemporary(noTempWrappingTemp))
}

func TestWrap(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		err := serrors.New("simple err")
		errWithCtx := serrors.Wrap("error", err, "someCtx", "someValue")
		assert.True(t, errors.Is(errWithCtx, err))
	})
	t.Run("Msg", func(t *testing.T) {
		err := &testErrType{msg: "cause"}
		wrapped := serrors.Wrap("wrapper", err, "k", "v")
		assert.Equal(t, "wrapper {k=v}: cause", wrapped.Error())
	})
	t.Run("As", func(t *testing.T) {
		wrapped := serrors.Wrap("wrapper", &testErrType{msg: "cause"})
		var target *testErrType
		assert.True(t, errors.As(wrapped, &target))
		assert.Equal(t, "cause", target.msg)
	})
	t.Run("nil cause", func(t *testing.T) {
		wrapped := serrors.Wrap("wrapper", nil, "k", "v")
		assert.Equal(t, "wrapper {k=v}", wrapped.Error())
	})
}

func TestJoin(t *testing.T) {
	sentinel := errors.New("sentinel")
	cause := errors.New("cause")

	t.Run("both nil", func(t *testing.T) {
		assert.NoError(t, serrors.Join(nil, nil, "k", "v"))
	})
	t.Run("Is sentinel and cause", func(t *testing.T) {
		err := serrors.Join(sentinel, cause, "k", "v")
		assert.True(t, errors.Is(err, sentinel))
		assert.True(t, errors.Is(err, cause))
	})
	t.Run("Msg", func(t *testing.T) {
		err := serrors.Join(sentinel, cause, "k", "v")
		assert.Equal(t, "sentinel {k=v}: cause", err.Error())
	})
}

func TestNew(t *testing.T) {
	err1 := serrors.New("err")
	err2 := serrors.New("err")
	assert.True(t, errors.Is(err1, err1))
	assert.False(t, errors.Is(err1, err2))
	assert.Equal(t, "err {k=v}", serrors.New("err", "k", "v").Error())
}

func TestCtxOrdering(t *testing.T) {
	// Context keys render sorted, independent of argument order.
	err := serrors.New("err", "b", 2, "a", 1)
	assert.Equal(t, "err {a=1; b=2}", err.Error())
}

func TestList(t *testing.T) {
	var errs serrors.List
	assert.NoError(t, errs.ToError())
	errs = append(errs, serrors.New("first"), serrors.New("second"))
	combined := errs.ToError()
	assert.Error(t, combined)
	assert.Equal(t, "[ first; second ]", combined.Error())
}

func ExampleNew() {
	err := serrors.New("listen failed", "port", 80)
	fmt.Println(err)
	// Output:
	// listen failed {port=80}
}
