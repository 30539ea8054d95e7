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

package test

import "fmt"

// RingWriter is an io.Writer that retains only the most recently written
// size bytes; older bytes are discarded as new ones arrive, the same
// drop-oldest rule the logger package's ring buffer follows.
type RingWriter struct {
	buffer []byte
	size   int
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ringwriter: size must be greater than zero")
	}
	return &RingWriter{
		buffer: make([]byte, 0, size),
		size:   size,
	}, nil
}

// Write implements io.Writer. When the total exceeds size the oldest bytes
// are dropped so that only the trailing size bytes are retained.
func (r *RingWriter) Write(p []byte) (int, error) {
	r.buffer = append(r.buffer, p...)
	if len(r.buffer) > r.size {
		r.buffer = r.buffer[len(r.buffer)-r.size:]
	}
	return len(p), nil
}

// String returns the retained tail of everything written so far.
func (r *RingWriter) String() string {
	return string(r.buffer)
}

// Reset empties the buffer.
func (r *RingWriter) Reset() {
	r.buffer = r.buffer[:0]
}
