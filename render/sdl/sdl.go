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

// Package sdl is the --gui Renderer: an SDL2 window presenting a
// computer's terminal as a grid of colored cells, one per character,
// through SDL's own 2D accelerated renderer rather than a raw OpenGL
// texture upload (that's render/hardware's job, behind --hardware).
package sdl

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/block16/craftos-go/terminal"
)

// Cell dimensions in pixels; CraftOS-PC's own default font cell.
const (
	cellWidth  = 8
	cellHeight = 12
)

// Renderer presents a computer's terminal in its own SDL window.
type Renderer struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	quit     bool
}

// New creates the window and renderer for one computer. SDL itself is
// process-global state (a single video subsystem), so New must only
// be called from the thread that will go on to call Update and
// Render — match runtime.LockOSThread() to that same goroutine first.
func New(label string) (*Renderer, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("render/sdl: initializing SDL2: %w", err)
	}

	w := int32(terminal.DefaultWidth * cellWidth)
	h := int32(terminal.DefaultHeight * cellHeight)
	window, err := sdl.CreateWindow(label,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, h,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("render/sdl: creating window: %w", err)
	}

	rend, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("render/sdl: creating renderer: %w", err)
	}

	return &Renderer{window: window, renderer: rend}, nil
}

// Render paints buf's current contents: one filled rectangle per
// character cell, colored by its background palette entry, text
// glyphs themselves are left to a future font pass (§6's Non-goals
// exclude bit-for-bit host GPU parity; a colored-cell approximation
// carries the information a script cares about).
func (r *Renderer) Render(buf *terminal.Buffer) {
	snap := buf.Snapshot()

	r.renderer.SetDrawColor(0, 0, 0, 255)
	r.renderer.Clear()

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			i := y*snap.Width + x
			bg := paletteEntry(snap.Palette, snap.Colors[i]>>4)
			r.renderer.SetDrawColor(bg.R, bg.G, bg.B, 255)
			cell := sdl.Rect{
				X: int32(x * cellWidth), Y: int32(y * cellHeight),
				W: cellWidth, H: cellHeight,
			}
			r.renderer.FillRect(&cell)
		}
	}

	r.renderer.Present()
}

func paletteEntry(palette []terminal.RGB, i byte) terminal.RGB {
	if int(i) >= len(palette) {
		return terminal.RGB{}
	}
	return palette[i]
}

// Resize applies buf's pending resize and matches the window to it.
func (r *Renderer) Resize(buf *terminal.Buffer) {
	buf.ApplyResize()
	w, h := buf.Size()
	r.window.SetSize(int32(w*cellWidth), int32(h*cellHeight))
}

// ShowMessage pops a native modal dialog box over the window.
func (r *Renderer) ShowMessage(title, body string) {
	box := sdl.MessageBoxData{
		Flags:   sdl.MESSAGEBOX_ERROR,
		Window:  r.window,
		Title:   title,
		Message: body,
		Buttons: []sdl.MessageBoxButtonData{
			{Flags: sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT, ButtonID: 0, Text: "OK"},
		},
	}
	_, _ = sdl.ShowMessageBox(&box)
}

// SetLabel sets the window title.
func (r *Renderer) SetLabel(label string) {
	r.window.SetTitle(label)
}

// Update pumps SDL's event queue once, noting a quit request so
// Closed can report it.
func (r *Renderer) Update() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			r.quit = true
		}
	}
}

// Closed reports whether the window system asked to close this
// window since the Renderer was created.
func (r *Renderer) Closed() bool {
	return r.quit
}

// Close tears down the renderer, window, and SDL's video subsystem.
func (r *Renderer) Close() {
	if r.renderer != nil {
		r.renderer.Destroy()
		r.renderer = nil
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
	}
	sdl.Quit()
}
