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

package headless_test

import (
	"testing"

	"github.com/block16/craftos-go/render/headless"
	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/test"
)

func TestRenderCountsFramesAndKeepsLast(t *testing.T) {
	r := headless.New()
	buf := terminal.NewBuffer(5, 2)

	buf.Write("a")
	r.Render(buf)
	buf.Write("b")
	r.Render(buf)

	test.Equate(t, r.Frames(), 2)
	test.Equate(t, string(r.Last().Screen[0:2]), "ab")
}

func TestShowMessageAndSetLabelAreRecorded(t *testing.T) {
	r := headless.New()
	r.ShowMessage("bios error", "could not load bios.lua")
	r.SetLabel("computer-0")

	test.Equate(t, r.Label(), "computer-0")
	msgs := r.Messages()
	test.Equate(t, len(msgs), 1)
	test.Equate(t, msgs[0], headless.Message{Title: "bios error", Body: "could not load bios.lua"})
}

func TestResizeAppliesPendingResize(t *testing.T) {
	r := headless.New()
	buf := terminal.NewBuffer(5, 2)

	done := make(chan struct{})
	go func() {
		buf.RequestResize(10, 4)
		close(done)
	}()

	// give RequestResize a moment to latch before Resize consumes it
	for {
		if _, _, pending := buf.PendingResize(); pending {
			break
		}
	}
	r.Resize(buf)
	<-done

	w, h := buf.Size()
	test.Equate(t, w, 10)
	test.Equate(t, h, 4)
}
