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

// Package protocol is the §6 renderer wire codec: the textual TRoR
// line protocol and the framed binary raw protocol, read and written
// across whatever stream render/cli is driving (a pipe, a socket).
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Message is one TRoR line: "CODE:meta;payload\n" (§6's extension
// marker ccpcTerm). Code is the two-letter message kind (SP, EV, TR,
// SC, TN, TQ, TZ, TA); Meta and Payload carry whatever that code
// needs.
type Message struct {
	Code    string
	Meta    string
	Payload string
}

// Encode renders m as one terminated TRoR line.
func (m Message) Encode() string {
	return fmt.Sprintf("%s:%s;%s\n", m.Code, m.Meta, m.Payload)
}

// ParseMessage parses one TRoR line (with or without its trailing
// newline) into a Message.
func ParseMessage(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return Message{}, fmt.Errorf("protocol: malformed TRoR line %q: missing ':'", line)
	}
	code := line[:colon]
	rest := line[colon+1:]

	semi := strings.IndexByte(rest, ';')
	if semi < 0 {
		return Message{}, fmt.Errorf("protocol: malformed TRoR line %q: missing ';'", line)
	}
	return Message{Code: code, Meta: rest[:semi], Payload: rest[semi+1:]}, nil
}

// NewEvent builds an "EV" message carrying a script-readable
// ("name", argv...) tuple, comma-joined in Payload.
func NewEvent(name string, argv ...string) Message {
	return Message{Code: "EV", Meta: name, Payload: strings.Join(argv, ",")}
}

// NewResize builds a "TR" resize request/ack.
func NewResize(width, height int) Message {
	return Message{Code: "TR", Payload: fmt.Sprintf("%d,%d", width, height)}
}

// Decoder reads successive TRoR messages off an io.Reader, one line
// at a time.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder wraps r in a Decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next reads and parses the next line. ok is false once r is
// exhausted; err is non-nil on either a read failure or a malformed
// line.
func (d *Decoder) Next() (msg Message, ok bool, err error) {
	if !d.scanner.Scan() {
		return Message{}, false, d.scanner.Err()
	}
	msg, err = ParseMessage(d.scanner.Text())
	return msg, true, err
}

// Encoder writes TRoR messages to an io.Writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w in an Encoder.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes m as one terminated line.
func (e *Encoder) Encode(m Message) error {
	_, err := io.WriteString(e.w, m.Encode())
	return err
}
