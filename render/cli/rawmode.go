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

package cli

import (
	"os"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
)

// rawTerminal puts input into cbreak mode for the duration of a CLI
// session, so individual keystrokes reach --cli/--raw without waiting
// on a newline, and restores the caller's original mode on Restore.
type rawTerminal struct {
	mu    sync.Mutex
	input *os.File

	canonAttr syscall.Termios
	cbreak    bool
}

// newRawTerminal captures input's current attributes without changing
// them; call Enable to actually switch to cbreak mode.
func newRawTerminal(input *os.File) (*rawTerminal, error) {
	rt := &rawTerminal{input: input}
	if err := termios.Tcgetattr(input.Fd(), &rt.canonAttr); err != nil {
		return nil, err
	}
	return rt, nil
}

// Enable switches input to cbreak mode: unbuffered, no local echo.
func (rt *rawTerminal) Enable() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	attr := rt.canonAttr
	termios.Cfmakecbreak(&attr)
	if err := termios.Tcsetattr(rt.input.Fd(), termios.TCIFLUSH, &attr); err != nil {
		return err
	}
	rt.cbreak = true
	return nil
}

// Restore returns input to the canonical mode captured by
// newRawTerminal, if Enable had switched it away.
func (rt *rawTerminal) Restore() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if !rt.cbreak {
		return nil
	}
	rt.cbreak = false
	return termios.Tcsetattr(rt.input.Fd(), termios.TCIFLUSH, &rt.canonAttr)
}
