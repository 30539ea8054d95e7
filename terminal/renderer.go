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

package terminal

// Renderer is the capability interface a presentation back-end
// implements (SDL window, headless test double, a monitor peripheral
// mirroring another computer's terminal...). Per the "avoid deep
// hierarchies" design note, anything with an on-screen presence
// implements this one interface rather than a bespoke type hierarchy.
type Renderer interface {
	// Render presents the current contents of buf.
	Render(buf *Buffer)

	// Resize is called once the render thread has observed a pending
	// resize on buf and should apply it via buf.ApplyResize.
	Resize(buf *Buffer)

	// ShowMessage presents a host-level modal/notification, used for
	// BIOS load errors and similar conditions the script can't handle.
	ShowMessage(title, body string)

	// SetLabel updates whatever the back-end shows as this terminal's
	// window/tab title.
	SetLabel(label string)

	// Update runs one iteration of the back-end's own event pump
	// (window system events, not computer events).
	Update()
}
