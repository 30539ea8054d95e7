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

package sdl

import (
	"fmt"

	"github.com/inkyblackness/imgui-go/v4"
)

// Overlay is a minimal imgui debug window listing live computers,
// peripherals, and queue depths, toggled independently of the
// underlying Renderer's own frame. It owns its own imgui context
// rather than sharing one with a future debugger front-end, since
// nothing else in this tree currently drives imgui.
type Overlay struct {
	ctx     *imgui.Context
	visible bool
}

// ComputerStatus is one row of the overlay's computer table.
type ComputerStatus struct {
	ID          int
	Peripherals []string
	QueueDepth  int
	OpenHandles int
}

// NewOverlay creates an imgui context for the overlay. Call Destroy
// when the window owning it closes.
func NewOverlay() *Overlay {
	return &Overlay{ctx: imgui.CreateContext(nil)}
}

// Toggle flips the overlay's visibility.
func (o *Overlay) Toggle() {
	o.visible = !o.visible
}

// Visible reports whether Draw will build a frame.
func (o *Overlay) Visible() bool {
	return o.visible
}

// Draw builds the overlay's imgui frame listing status, returning the
// draw data ready for a renderer backend to rasterize. Returns nil
// when the overlay isn't visible, so a caller can skip the draw-data
// upload entirely.
func (o *Overlay) Draw(width, height float32, statuses []ComputerStatus) *imgui.DrawData {
	if !o.visible {
		return nil
	}

	imgui.CurrentIO().SetDisplaySize(imgui.Vec2{X: width, Y: height})
	imgui.NewFrame()

	imgui.SetNextWindowPosV(imgui.Vec2{X: 8, Y: 8}, imgui.ConditionFirstUseEver, imgui.Vec2{X: 0, Y: 0})
	if imgui.BeginV("computers", &o.visible, imgui.WindowFlagsAlwaysAutoResize) {
		for _, s := range statuses {
			imgui.Text(fmt.Sprintf("computer %d", s.ID))
			imgui.Text(fmt.Sprintf("  peripherals: %v", s.Peripherals))
			imgui.Text(fmt.Sprintf("  queue depth: %d", s.QueueDepth))
			imgui.Text(fmt.Sprintf("  open handles: %d", s.OpenHandles))
			imgui.Separator()
		}
		if len(statuses) == 0 {
			imgui.Text("no computers running")
		}
	}
	imgui.End()

	imgui.Render()
	return imgui.RenderedDrawData()
}

// Destroy releases the overlay's imgui context.
func (o *Overlay) Destroy() {
	if o.ctx != nil {
		o.ctx.Destroy()
		o.ctx = nil
	}
}
