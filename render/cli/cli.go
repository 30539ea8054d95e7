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

// Package cli is the --cli/--raw/--raw-client/--tror Renderer: a
// terminal-only presentation, either painted directly to a local tty
// with ANSI escapes, or shipped across a stream to a remote display
// client using the §6 TRoR textual or raw binary wire codec.
package cli

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/block16/craftos-go/logger"
	"github.com/block16/craftos-go/protocol"
	"github.com/block16/craftos-go/terminal"
)

// Mode selects how a Renderer presents a computer's terminal.
type Mode int

const (
	// Local paints ANSI escapes straight to a tty.
	Local Mode = iota
	// TRoRMode exchanges textual control messages (resize, title,
	// dialogs, client events) with a remote display client; frame
	// content is expected to ride on a separate Raw connection.
	TRoRMode
	// RawMode ships a gob-encoded terminal.Snapshot per frame, CRC32-
	// framed, to a remote display client.
	RawMode
)

// Renderer implements terminal.Renderer for all three stream-based
// presentations the --cli family of flags selects between.
type Renderer struct {
	mode Mode

	// Local mode
	out *os.File
	raw *rawTerminal

	// TRoRMode / RawMode
	stream io.ReadWriteCloser
	enc    *protocol.Encoder
	dec    *protocol.Decoder
	events chan protocol.Message
}

// NewLocal paints directly to out (typically os.Stdout) and puts in
// (typically os.Stdin) into cbreak mode for the session's duration.
func NewLocal(in, out *os.File) (*Renderer, error) {
	rt, err := newRawTerminal(in)
	if err != nil {
		return nil, fmt.Errorf("render/cli: %w", err)
	}
	if err := rt.Enable(); err != nil {
		return nil, fmt.Errorf("render/cli: %w", err)
	}
	return &Renderer{mode: Local, out: out, raw: rt}, nil
}

// NewTRoR wraps stream in the textual TRoR protocol.
func NewTRoR(stream io.ReadWriteCloser) *Renderer {
	r := &Renderer{
		mode:   TRoRMode,
		stream: stream,
		enc:    protocol.NewEncoder(stream),
		dec:    protocol.NewDecoder(stream),
		events: make(chan protocol.Message, 32),
	}
	go r.pump()
	return r
}

// NewRaw wraps stream in the framed binary raw protocol.
func NewRaw(stream io.ReadWriteCloser) *Renderer {
	return &Renderer{mode: RawMode, stream: stream}
}

func (r *Renderer) pump() {
	for {
		msg, ok, err := r.dec.Next()
		if !ok {
			close(r.events)
			return
		}
		if err != nil {
			logger.Logf(logger.Allow, "render/cli", "TRoR line: %v", err)
			continue // §7: a malformed line is logged and skipped, not fatal
		}
		r.events <- msg
	}
}

// Events returns incoming TRoR messages (SP, EV, TQ, client-side TR
// acks) for a TRoRMode Renderer. nil for every other mode.
func (r *Renderer) Events() <-chan protocol.Message {
	return r.events
}

// Render presents buf's current contents.
func (r *Renderer) Render(buf *terminal.Buffer) {
	switch r.mode {
	case Local:
		r.renderLocal(buf.Snapshot())
	case RawMode:
		r.renderRaw(buf.Snapshot())
	case TRoRMode:
		// frame content doesn't ride the control channel; nothing to do
	}
}

func (r *Renderer) renderLocal(snap terminal.Snapshot) {
	var b bytes.Buffer
	b.WriteString("\x1b[H")
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			i := y*snap.Width + x
			fg := snap.Colors[i] & 0x0f
			bg := snap.Colors[i] >> 4
			fgRGB, bgRGB := paletteEntry(snap.Palette, fg), paletteEntry(snap.Palette, bg)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c",
				fgRGB.R, fgRGB.G, fgRGB.B, bgRGB.R, bgRGB.G, bgRGB.B, snap.Screen[i])
		}
		b.WriteString("\x1b[0m\r\n")
	}
	r.out.Write(b.Bytes())
}

func paletteEntry(palette []terminal.RGB, i byte) terminal.RGB {
	if int(i) >= len(palette) {
		return terminal.RGB{}
	}
	return palette[i]
}

func (r *Renderer) renderRaw(snap terminal.Snapshot) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return
	}
	r.stream.Write(protocol.EncodeRaw(buf.Bytes()))
}

// Resize applies buf's pending resize and, in TRoRMode, acks it to
// the remote client.
func (r *Renderer) Resize(buf *terminal.Buffer) {
	buf.ApplyResize()
	if r.mode != TRoRMode {
		return
	}
	w, h := buf.Size()
	r.enc.Encode(protocol.NewResize(w, h))
}

// ShowMessage presents a host-level dialog: printed locally, or sent
// as a "TA" message in TRoRMode.
func (r *Renderer) ShowMessage(title, body string) {
	switch r.mode {
	case Local:
		fmt.Fprintf(r.out, "\x1b[7m[%s] %s\x1b[0m\r\n", title, body)
	case TRoRMode:
		r.enc.Encode(protocol.Message{Code: "TA", Meta: title, Payload: body})
	}
}

// SetLabel updates the tty's window title (an OSC escape a terminal
// emulator may or may not honor) or, in TRoRMode, sends "TZ".
func (r *Renderer) SetLabel(label string) {
	switch r.mode {
	case Local:
		fmt.Fprintf(r.out, "\x1b]0;%s\x07", label)
	case TRoRMode:
		r.enc.Encode(protocol.Message{Code: "TZ", Payload: label})
	}
}

// Update is a no-op: there's no local window-system event pump to
// run, and TRoRMode/RawMode's incoming messages are drained by pump
// in the background.
func (r *Renderer) Update() {}

// Close restores the terminal (Local) or the underlying stream
// (TRoRMode/RawMode).
func (r *Renderer) Close() error {
	if r.raw != nil {
		_ = r.raw.Restore()
	}
	if r.stream != nil {
		return r.stream.Close()
	}
	return nil
}
