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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/block16/craftos-go/computer"
	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/vm"
)

// newGuestProgramFactory builds the computer.ProgramFactory behind
// --script/--exec. No dependency in this tree's go.mod vendors a
// scripting-language interpreter, so booting a real CraftOS-style
// program isn't possible here; this stands in for one just enough to
// exercise the host/guest contract a real binding would sit behind;
// it writes the requested source to the terminal once, waits for a
// single event the way any other guest program would, then finishes.
// A scripting-engine binding is the integration seam this factory
// marks, not something this package attempts to fabricate.
func newGuestProgramFactory(scriptPath, exec, args string) computer.ProgramFactory {
	source, loadErr := loadSource(scriptPath, exec)

	return func(surface library.Surface) vm.Program {
		return vm.NewCoroutine(func(yield vm.Yield) error {
			if loadErr != nil {
				_, _ = surface.Call("term", "write", []any{fmt.Sprintf("craftos: %v", loadErr)})
				return nil
			}

			if source != "" {
				_, _ = surface.Call("term", "clear", nil)
				_, _ = surface.Call("term", "write", []any{source})
				if args != "" {
					_, _ = surface.Call("term", "write", []any{" " + args})
				}
			}

			yield("")
			return nil
		})
	}
}

// loadSource resolves --exec's literal source or --script's file
// contents. Neither flag given yields an empty source and no error: a
// computer with nothing to run still boots and idles.
func loadSource(scriptPath, exec string) (string, error) {
	if exec != "" {
		return exec, nil
	}
	if scriptPath == "" {
		return "", nil
	}
	b, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}
