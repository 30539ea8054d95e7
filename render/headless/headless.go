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

// Package headless is the --headless Renderer: it presents nothing,
// recording each frame it was asked to render so a caller (a test, a
// one-shot `--script`/`--exec` run with no human watching) can inspect
// what would have been shown.
package headless

import (
	"sync"

	"github.com/block16/craftos-go/terminal"
)

// Renderer discards every frame except the last, and counts how many
// it was asked to present.
type Renderer struct {
	mu       sync.Mutex
	frames   int
	last     terminal.Snapshot
	label    string
	messages []Message
}

// Message is a recorded ShowMessage call.
type Message struct {
	Title, Body string
}

// New constructs a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render records buf's snapshot and bumps the frame count.
func (r *Renderer) Render(buf *terminal.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.last = buf.Snapshot()
}

// Resize applies buf's pending resize; a headless back-end has no
// window to resize alongside it.
func (r *Renderer) Resize(buf *terminal.Buffer) {
	buf.ApplyResize()
}

// ShowMessage records title/body instead of popping a dialog.
func (r *Renderer) ShowMessage(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Title: title, Body: body})
}

// SetLabel records label instead of setting a window title.
func (r *Renderer) SetLabel(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = label
}

// Update is a no-op: there is no window system event pump to run.
func (r *Renderer) Update() {}

// Frames returns how many times Render has been called.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Last returns the most recently rendered snapshot.
func (r *Renderer) Last() terminal.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Label returns the most recently set label.
func (r *Renderer) Label() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.label
}

// Messages returns every ShowMessage call recorded so far.
func (r *Renderer) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
