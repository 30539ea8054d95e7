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

package protocol_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/block16/craftos-go/protocol"
	"github.com/block16/craftos-go/test"
)

func TestMessageEncodeParseRoundTrip(t *testing.T) {
	m := protocol.NewEvent("key", "15", "false")
	line := m.Encode()
	test.Equate(t, line, "EV:key;15,false\n")

	got, err := protocol.ParseMessage(line)
	test.ExpectSuccess(t, err)
	test.Equate(t, got, m)
}

func TestParseMessageRejectsMissingColon(t *testing.T) {
	_, err := protocol.ParseMessage("EVkey;payload")
	test.ExpectFailure(t, err)
}

func TestParseMessageRejectsMissingSemicolon(t *testing.T) {
	_, err := protocol.ParseMessage("EV:key-payload")
	test.ExpectFailure(t, err)
}

func TestDecoderReadsSuccessiveLines(t *testing.T) {
	r := strings.NewReader("SP:;ready\nTR:;51,19\n")
	d := protocol.NewDecoder(r)

	first, ok, err := d.Next()
	test.ExpectSuccess(t, err)
	test.Equate(t, ok, true)
	test.Equate(t, first.Code, "SP")

	second, ok, err := d.Next()
	test.ExpectSuccess(t, err)
	test.Equate(t, ok, true)
	test.Equate(t, second, protocol.NewResize(51, 19))

	_, ok, err = d.Next()
	test.ExpectSuccess(t, err)
	test.Equate(t, ok, false)
}

func TestEncoderWritesTerminatedLine(t *testing.T) {
	var buf bytes.Buffer
	e := protocol.NewEncoder(&buf)
	test.ExpectSuccess(t, e.Encode(protocol.Message{Code: "TA", Meta: "", Payload: "1"}))
	test.Equate(t, buf.String(), "TA:;1\n")
}

func TestRawEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("term.write(\"hello\")")
	frame := protocol.EncodeRaw(payload)

	got, err := protocol.DecodeRaw(frame)
	test.ExpectSuccess(t, err)
	test.Equate(t, string(got), string(payload))
}

func TestRawDecodeDetectsCorruptedPayload(t *testing.T) {
	frame := protocol.EncodeRaw([]byte("untouched"))
	// flip a bit in the last base64 byte, just before the trailing
	// 8-digit hex CRC, leaving the CRC itself intact
	flipped := append([]byte{}, frame...)
	flipped[len(flipped)-8-1] ^= 0x20

	_, err := protocol.DecodeRaw(flipped)
	test.ExpectFailure(t, err)
}

func TestRawReaderReadsConsecutiveFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(protocol.EncodeRaw([]byte("first")))
	buf.Write(protocol.EncodeRaw([]byte("second")))

	rr := protocol.NewRawReader(&buf)

	got, err := rr.ReadFrame()
	test.ExpectSuccess(t, err)
	test.Equate(t, string(got), "first")

	got, err = rr.ReadFrame()
	test.ExpectSuccess(t, err)
	test.Equate(t, string(got), "second")
}

func TestRawReaderPropagatesEOF(t *testing.T) {
	rr := protocol.NewRawReader(bytes.NewReader(nil))
	_, err := rr.ReadFrame()
	test.ExpectFailure(t, err)
}

func TestRawDecodeRejectsBadMagic(t *testing.T) {
	frame := protocol.EncodeRaw([]byte("x"))
	frame[0] = '?'
	_, err := protocol.DecodeRaw(frame)
	test.ExpectFailure(t, err)
}
