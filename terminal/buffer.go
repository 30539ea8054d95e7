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

// Package terminal is a computer's character-and-pixel display (§4.7):
// a Buffer with aligned screen/color/pixel grids and a 16- or
// 256-color palette, plus the Renderer capability interface a back-end
// implements to present it.
package terminal

import "sync"

// Graphics modes (§3: "graphics mode (0 = text, 1 = 16-color bitmap,
// 2 = 256-color bitmap)").
const (
	ModeText        = 0
	ModeGraphics16  = 1
	ModeGraphics256 = 2
)

// DefaultWidth/DefaultHeight match the 51x19 character grid every
// reference front-end boots with.
const (
	DefaultWidth  = 51
	DefaultHeight = 19
)

// RGB is one palette entry.
type RGB struct {
	R, G, B byte
}

// Buffer is a computer's terminal: character grid, per-cell colors, a
// pixel plane for graphics modes, a 16- or 256-entry palette, and the
// cursor/resize/blink state the VM's term API mutates. Every exported
// method takes buf's lock, matching §4.7's "every mutation takes the
// per-terminal lock" invariant.
type Buffer struct {
	mu sync.Mutex

	width, height                  int
	charScale, fontScale, dpiScale float64

	screen []rune
	colors []byte // high nibble background, low nibble foreground
	pixels []byte // font-cell-resolution palette indices

	palette []RGB

	cursorX, cursorY     int
	blink                bool
	foreground           byte
	background           byte

	mode    int
	changed bool

	resizeCond           *sync.Cond
	resizePending        bool
	resizeWidth          int
	resizeHeight         int

	requests []RenderRequest
}

// RenderRequest is a one-shot directive for the render thread to act
// on next frame. A screenshot or recording trigger is queued rather
// than taken synchronously, since only the render thread has the
// pixels to actually write out.
type RenderRequest struct {
	Screenshot     bool
	StartRecording bool
	StopRecording  bool
	Path           string
}

// TakeScreenshot queues a single-frame screenshot to path.
func (b *Buffer) TakeScreenshot(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, RenderRequest{Screenshot: true, Path: path})
}

// StartRecording queues the start of a multi-frame recording to path.
func (b *Buffer) StartRecording(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, RenderRequest{StartRecording: true, Path: path})
}

// StopRecording queues the end of an in-progress recording.
func (b *Buffer) StopRecording() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, RenderRequest{StopRecording: true})
}

// DrainRequests returns and clears every RenderRequest queued since
// the last call, for the render thread to act on once per frame.
func (b *Buffer) DrainRequests() []RenderRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	r := b.requests
	b.requests = nil
	return r
}

// NewBuffer is the preferred method of initialisation for the Buffer
// type.
func NewBuffer(width, height int) *Buffer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	b := &Buffer{
		width:     width,
		height:    height,
		charScale: 1,
		fontScale: 1,
		dpiScale:  1,
		palette:   defaultPalette(),
		blink:     true,
	}
	b.resizeCond = sync.NewCond(&b.mu)
	b.allocGrids()
	return b
}

func defaultPalette() []RGB {
	// CraftOS's 16-colour default palette (white through black,
	// ROYGBIV-ish ordering matches the CC "colors" API bit values).
	return []RGB{
		{0xf0, 0xf0, 0xf0}, {0xf2, 0xb2, 0x33}, {0xe5, 0x7f, 0xd8},
		{0x99, 0xb2, 0xf2}, {0xde, 0xde, 0x6c}, {0x7f, 0xcc, 0x19},
		{0xf2, 0xb2, 0xcc}, {0x4c, 0x4c, 0x4c}, {0x99, 0x99, 0x99},
		{0x4c, 0x99, 0xb2}, {0xb2, 0x66, 0xe5}, {0x33, 0x66, 0xcc},
		{0x7f, 0x66, 0x4c}, {0x57, 0xa6, 0x4e}, {0xcc, 0x4c, 0x4c},
		{0x11, 0x11, 0x11},
	}
}

func (b *Buffer) allocGrids() {
	n := b.width * b.height
	b.screen = make([]rune, n)
	for i := range b.screen {
		b.screen[i] = ' '
	}
	b.colors = make([]byte, n)
	b.pixels = make([]byte, n)
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int { return y*b.width + x }

func clampCursor(x, y, width, height int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= width {
		x = width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= height {
		y = height - 1
	}
	return x, y
}

// Write writes s from the cursor rightwards with the current color
// byte, stopping at the right edge of the grid.
func (b *Buffer) Write(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	col := b.colorByte()
	x, y := b.cursorX, b.cursorY
	for _, r := range s {
		if x >= b.width {
			break
		}
		if b.inBounds(x, y) {
			i := b.index(x, y)
			b.screen[i] = r
			b.colors[i] = col
		}
		x++
	}
	b.cursorX = x
	b.changed = true
}

// Blit writes text at the cursor with an explicit fg/bg color for each
// character; fg and bg are hex-digit strings the same length as text.
func (b *Buffer) Blit(text, fg, bg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	x, y := b.cursorX, b.cursorY
	for i, r := range text {
		if x >= b.width {
			break
		}
		if i < len(fg) && i < len(bg) && b.inBounds(x, y) {
			gi := b.index(x, y)
			b.screen[gi] = r
			b.colors[gi] = packColor(hexNibble(fg[i]), hexNibble(bg[i]))
		}
		x++
	}
	b.cursorX = x
	b.changed = true
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

func packColor(fg, bg byte) byte { return (bg << 4) | (fg & 0x0f) }

func (b *Buffer) colorByte() byte {
	return packColor(b.foreground, b.background)
}

// Scroll shifts the grid vertically: positive n scrolls up (content
// moves toward row 0), negative scrolls down. A magnitude >= height is
// equivalent to Clear.
func (b *Buffer) Scroll(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n == 0 {
		return
	}
	if n >= b.height || n <= -b.height {
		b.clearLocked()
		return
	}

	if n > 0 {
		copy(b.screen, b.screen[n*b.width:])
		copy(b.colors, b.colors[n*b.width:])
		b.clearRows(b.height-n, b.height)
	} else {
		n = -n
		copy(b.screen[n*b.width:], b.screen[:len(b.screen)-n*b.width])
		copy(b.colors[n*b.width:], b.colors[:len(b.colors)-n*b.width])
		b.clearRows(0, n)
	}
	b.changed = true
}

func (b *Buffer) clearRows(from, to int) {
	for y := from; y < to; y++ {
		for x := 0; x < b.width; x++ {
			i := b.index(x, y)
			b.screen[i] = ' '
			b.colors[i] = b.colorByte()
		}
	}
}

// Clear resets every cell to a blank space in the current colors.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Buffer) clearLocked() {
	b.clearRows(0, b.height)
	b.changed = true
}

// ClearLine clears the cursor's current row.
func (b *Buffer) ClearLine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearRows(b.cursorY, b.cursorY+1)
}

// SetCursorPos clamps (x, y) into the grid before storing it.
func (b *Buffer) SetCursorPos(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY = clampCursor(x, y, b.width, b.height)
}

// CursorPos returns the current cursor position.
func (b *Buffer) CursorPos() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY
}

// SetCursorBlink enables or disables the cursor blink.
func (b *Buffer) SetCursorBlink(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blink = on
}

// CursorBlink reports whether the cursor is blinking.
func (b *Buffer) CursorBlink() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blink
}

// Size returns the current width and height.
func (b *Buffer) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetTextColor sets the foreground palette index (0..15) used by
// future Write calls.
func (b *Buffer) SetTextColor(i int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i > 15 {
		return
	}
	b.foreground = byte(i)
}

// SetBackgroundColor sets the background palette index (0..15).
func (b *Buffer) SetBackgroundColor(i int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i > 15 {
		return
	}
	b.background = byte(i)
}

// IsColor always reports true; every back-end renders in color.
func (b *Buffer) IsColor() bool { return true }

// GetPaletteColor returns the RGB triple at palette index i.
func (b *Buffer) GetPaletteColor(i int) (RGB, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.palette) {
		return RGB{}, false
	}
	return b.palette[i], true
}

// SetPaletteColor sets the RGB triple at palette index i, marking the
// buffer changed. Out-of-range indices are a silent no-op.
func (b *Buffer) SetPaletteColor(i int, rgb RGB) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.palette) {
		return
	}
	b.palette[i] = rgb
	b.changed = true
}

// SetGraphicsMode switches between text mode and the 16/256-color
// bitmap modes. Values outside {0,1,2} are rejected.
func (b *Buffer) SetGraphicsMode(m int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m != ModeText && m != ModeGraphics16 && m != ModeGraphics256 {
		return false
	}
	b.mode = m
	if m == ModeGraphics256 && len(b.palette) < 256 {
		full := make([]RGB, 256)
		copy(full, b.palette)
		b.palette = full
	}
	b.changed = true
	return true
}

// GraphicsMode returns the active graphics mode.
func (b *Buffer) GraphicsMode() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetPixel sets the palette index at (x, y) in the pixel plane. Out of
// bounds is a silent no-op.
func (b *Buffer) SetPixel(x, y, c int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(x, y) {
		return
	}
	b.pixels[b.index(x, y)] = byte(c)
	b.changed = true
}

// GetPixel returns the palette index at (x, y), or 0 if out of bounds.
func (b *Buffer) GetPixel(x, y int) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(x, y) {
		return 0
	}
	return b.pixels[b.index(x, y)]
}

// DrawPixels blits rows of raw palette-index bytes starting at (x, y),
// one row per entry of rows.
func (b *Buffer) DrawPixels(x, y int, rows [][]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for dy, row := range rows {
		py := y + dy
		if py < 0 || py >= b.height {
			continue
		}
		for dx, c := range row {
			px := x + dx
			if px < 0 || px >= b.width {
				continue
			}
			b.pixels[b.index(px, py)] = c
		}
	}
	b.changed = true
}

// SetTextScale changes the rendered cell size without altering the
// grid dimensions.
func (b *Buffer) SetTextScale(scale float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.charScale = scale
	b.changed = true
}

// TextScale returns the current rendered cell scale.
func (b *Buffer) TextScale() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.charScale
}

// Changed reports, and clears, the change flag: true if any mutation
// has happened since the last call.
func (b *Buffer) Changed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.changed
	b.changed = false
	return c
}

// RequestResize latches a pending resize and blocks the calling
// goroutine until the render thread observes and applies it via
// ApplyResize, clearing the latch.
func (b *Buffer) RequestResize(newWidth, newHeight int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resizePending = true
	b.resizeWidth = newWidth
	b.resizeHeight = newHeight
	b.resizeCond.Broadcast()

	for b.resizePending {
		b.resizeCond.Wait()
	}
}

// PendingResize reports whether a resize is latched, and its target
// dimensions.
func (b *Buffer) PendingResize() (width, height int, pending bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resizeWidth, b.resizeHeight, b.resizePending
}

// Snapshot is a read-only copy of a Buffer's visible state: enough
// for a renderer to paint a frame without holding buf's lock for the
// duration of the paint.
type Snapshot struct {
	Width, Height    int
	Screen           []rune
	Colors           []byte
	Pixels           []byte
	Palette          []RGB
	CursorX, CursorY int
	Blink            bool
	Mode             int
	TextScale        float64
}

// Snapshot copies buf's current visible state.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Width:     b.width,
		Height:    b.height,
		Screen:    append([]rune(nil), b.screen...),
		Colors:    append([]byte(nil), b.colors...),
		Pixels:    append([]byte(nil), b.pixels...),
		Palette:   append([]RGB(nil), b.palette...),
		CursorX:   b.cursorX,
		CursorY:   b.cursorY,
		Blink:     b.blink,
		Mode:      b.mode,
		TextScale: b.charScale,
	}
}

// ApplyResize is called by the render thread to actually resize the
// grids and clear the pending latch, waking whoever called
// RequestResize.
func (b *Buffer) ApplyResize() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.resizePending {
		return
	}
	b.width, b.height = b.resizeWidth, b.resizeHeight
	b.allocGrids()
	b.cursorX, b.cursorY = clampCursor(b.cursorX, b.cursorY, b.width, b.height)
	b.resizePending = false
	b.changed = true
	b.resizeCond.Broadcast()
}
