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

// Draw itself needs a live imgui context built against the real cgo
// bindings, so only the visibility toggle (which Draw's early-exit
// depends on) is exercised here without constructing an Overlay.
package sdl

import "testing"

func TestToggleFlipsVisibility(t *testing.T) {
	o := &Overlay{}
	if o.Visible() {
		t.Fatal("expected new overlay to start hidden")
	}
	o.Toggle()
	if !o.Visible() {
		t.Fatal("expected Toggle to make the overlay visible")
	}
	o.Toggle()
	if o.Visible() {
		t.Fatal("expected second Toggle to hide the overlay again")
	}
}

func TestDrawReturnsNilWhenHidden(t *testing.T) {
	o := &Overlay{}
	if got := o.Draw(640, 480, nil); got != nil {
		t.Fatalf("Draw on a hidden overlay = %v, want nil", got)
	}
}
