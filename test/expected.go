// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects small assertion helpers shared by every package's
// _test.go files, plus a couple of bounded io.Writer implementations
// (CappedWriter, RingWriter) for tests that need a writer with a size limit.
package test

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

// Equate fails the test unless got and want are deeply equal.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("not equal: got %v, wanted %v", got, want)
	}
}

// ExpectSuccess fails the test unless v indicates success. Accepted v types:
// bool (must be true), error (must be nil), or nil.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	switch vv := v.(type) {
	case nil:
		return
	case bool:
		if !vv {
			t.Errorf("expected success, got false")
		}
	case error:
		if vv != nil {
			t.Errorf("expected success, got error: %v", vv)
		}
	default:
		t.Errorf("unsupported type for ExpectSuccess: %T", v)
	}
}

// ExpectFailure fails the test unless v indicates failure. Accepted v types:
// bool (must be false), error (must be non-nil).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	switch vv := v.(type) {
	case bool:
		if vv {
			t.Errorf("expected failure, got true")
		}
	case error:
		if vv == nil {
			t.Errorf("expected failure, got nil error")
		}
	default:
		t.Errorf("unsupported type for ExpectFailure: %T", v)
	}
}

// ExpectEquality is an alias of Equate kept for the teacher's original
// naming; both spellings appear across the historic test suite.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	Equate(t, a, b)
}

// ExpectedSuccess is the older spelling of ExpectSuccess.
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectSuccess(t, v)
}

// ExpectedFailure is the older spelling of ExpectFailure.
func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectFailure(t, v)
}

// ExpectInequality fails the test if a and b are deeply equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: both values are %v", a)
	}
}

// ExpectApproximate fails the test unless a and b are within tolerance of
// one another.
func ExpectApproximate(t *testing.T, a, b, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

// Failf is a convenience wrapper for a formatted failure, used where a bare
// boolean/error doesn't capture the context of what went wrong.
func Failf(t *testing.T, format string, args ...interface{}) {
	t.Helper()
	t.Errorf(fmt.Sprintf(format, args...))
}
