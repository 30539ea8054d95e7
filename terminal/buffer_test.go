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

package terminal_test

import (
	"testing"
	"time"

	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/test"
)

func TestWriteStopsAtWidth(t *testing.T) {
	b := terminal.NewBuffer(5, 2)
	b.Write("hello world")
	test.ExpectSuccess(t, b.Changed())

	x, y := b.CursorPos()
	test.Equate(t, x, 5)
	test.Equate(t, y, 0)
}

func TestSetCursorPosClamps(t *testing.T) {
	b := terminal.NewBuffer(10, 4)
	b.SetCursorPos(-5, 999)
	x, y := b.CursorPos()
	test.Equate(t, x, 0)
	test.Equate(t, y, 3)
}

func TestOutOfBoundsPixelIsNoOp(t *testing.T) {
	b := terminal.NewBuffer(10, 10)
	b.SetPixel(-1, -1, 5)
	test.Equate(t, b.GetPixel(-1, -1), byte(0))
	test.Equate(t, b.GetPixel(999, 999), byte(0))

	b.SetPixel(2, 2, 7)
	test.Equate(t, b.GetPixel(2, 2), byte(7))
}

func TestGraphicsModeRejectsInvalid(t *testing.T) {
	b := terminal.NewBuffer(10, 10)
	test.ExpectFailure(t, b.SetGraphicsMode(3))
	test.Equate(t, b.GraphicsMode(), 0)

	test.ExpectSuccess(t, b.SetGraphicsMode(terminal.ModeGraphics256))
	test.Equate(t, b.GraphicsMode(), terminal.ModeGraphics256)
}

func TestScrollUpAndDown(t *testing.T) {
	b := terminal.NewBuffer(3, 3)
	b.Write("abc")
	b.SetCursorPos(0, 1)
	b.Write("def")

	// scrolling up moves row 1 ("def") into row 0
	b.Scroll(1)
	snap := b.Snapshot()
	test.Equate(t, string(snap.Screen[0:3]), "def")

	// scrolling down moves it back to row 1 and blanks row 0
	b.Scroll(-1)
	snap = b.Snapshot()
	test.Equate(t, string(snap.Screen[3:6]), "def")
	test.Equate(t, string(snap.Screen[0:3]), "   ")

	b.SetCursorPos(0, 0)
	b.Clear()
	test.ExpectSuccess(t, b.Changed())
}

func TestPaletteOutOfRange(t *testing.T) {
	b := terminal.NewBuffer(10, 10)
	_, ok := b.GetPaletteColor(999)
	test.ExpectFailure(t, ok)

	b.SetPaletteColor(0, terminal.RGB{R: 1, G: 2, B: 3})
	rgb, ok := b.GetPaletteColor(0)
	test.ExpectSuccess(t, ok)
	test.Equate(t, rgb, terminal.RGB{R: 1, G: 2, B: 3})
}

func TestResizeBlocksUntilApplied(t *testing.T) {
	b := terminal.NewBuffer(10, 10)

	done := make(chan bool, 1)
	go func() {
		b.RequestResize(20, 8)
		done <- true
	}()

	time.Sleep(10 * time.Millisecond)
	_, _, pending := b.PendingResize()
	test.ExpectSuccess(t, pending)

	b.ApplyResize()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestResize did not unblock after ApplyResize")
	}

	w, h := b.Size()
	test.Equate(t, w, 20)
	test.Equate(t, h, 8)
}

func TestBlitWritesColorsFromHexDigits(t *testing.T) {
	b := terminal.NewBuffer(10, 1)
	b.Blit("ab", "01", "f0")
	test.ExpectSuccess(t, b.Changed())
	x, _ := b.CursorPos()
	test.Equate(t, x, 2)
}

func TestSnapshotCopiesCurrentState(t *testing.T) {
	b := terminal.NewBuffer(5, 2)
	b.Write("hi")

	snap := b.Snapshot()
	test.Equate(t, snap.Width, 5)
	test.Equate(t, snap.Height, 2)
	test.Equate(t, string(snap.Screen[0:2]), "hi")

	// mutating the buffer afterwards must not retroactively change the
	// already-taken snapshot
	b.Write("!!")
	test.Equate(t, string(snap.Screen[0:2]), "hi")
}

func TestDrainRequestsReturnsAndClearsQueuedActions(t *testing.T) {
	b := terminal.NewBuffer(5, 2)

	if reqs := b.DrainRequests(); reqs != nil {
		t.Fatalf("expected no pending requests, got %v", reqs)
	}

	b.TakeScreenshot("shot.png")
	b.StartRecording("clip.gif")
	b.StopRecording()

	reqs := b.DrainRequests()
	test.Equate(t, len(reqs), 3)
	test.Equate(t, reqs[0], terminal.RenderRequest{Screenshot: true, Path: "shot.png"})
	test.Equate(t, reqs[1], terminal.RenderRequest{StartRecording: true, Path: "clip.gif"})
	test.Equate(t, reqs[2], terminal.RenderRequest{StopRecording: true})

	if reqs := b.DrainRequests(); reqs != nil {
		t.Fatalf("expected requests to be cleared after drain, got %v", reqs)
	}
}
