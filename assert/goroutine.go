// Package assert holds small runtime self-checks too cheap to justify
// their own package.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identifier for the calling goroutine: (a)
// different between goroutines, (b) consistent for a given one. Used
// to recognize the main-thread/task-thread goroutine from a distance
// (supervisor's task queue owner check) rather than for anything
// correctness-critical.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
