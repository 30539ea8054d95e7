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

package library

import (
	"fmt"
	"sort"
	"sync"
)

// sides lists the six cardinal attachment points a redstone line (or
// a peripheral) can occupy, mirroring the one fixed set the original
// uses throughout its peripheral/mounter/redstone surfaces.
var sides = []string{"top", "bottom", "left", "right", "front", "back"}

func validSide(s string) bool {
	for _, v := range sides {
		if v == s {
			return true
		}
	}
	return false
}

// RedstoneLines is the per-computer digital/analog line state the
// "redstone" namespace reads and writes; one instance is shared by
// every Namespace built from it, the same way the RIOT's SWCHA
// register is one shared byte that both the controller driver and the
// CPU's memory bus see.
type RedstoneLines struct {
	mu      sync.Mutex
	digital map[string]bool
	analog  map[string]int
}

// NewRedstoneLines creates an all-low, all-zero line set.
func NewRedstoneLines() *RedstoneLines {
	return &RedstoneLines{
		digital: make(map[string]bool),
		analog:  make(map[string]int),
	}
}

// SetInput is called by whatever host or peripheral feeds this
// computer redstone (a neighbouring computer, a scripted test
// harness); it is not itself part of the guest-visible namespace.
func (r *RedstoneLines) SetInput(side string, digital bool, analog int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digital[side] = digital
	r.analog[side] = analog
}

// Redstone builds the "redstone" namespace around lines.
func Redstone(lines *RedstoneLines) Namespace {
	return Namespace{
		"getSides": func(args []any) ([]any, error) {
			out := make([]any, len(sides))
			for i, s := range sides {
				out[i] = s
			}
			return []any{out}, nil
		},
		"getInput": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !validSide(side) {
				return nil, fmt.Errorf("library: redstone.getInput: invalid side %q", side)
			}
			lines.mu.Lock()
			defer lines.mu.Unlock()
			return []any{lines.digital[side]}, nil
		},
		"setOutput": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !validSide(side) {
				return nil, fmt.Errorf("library: redstone.setOutput: invalid side %q", side)
			}
			on, _ := args[1].(bool)
			lines.mu.Lock()
			lines.digital[side] = on
			lines.mu.Unlock()
			return nil, nil
		},
		"getAnalogInput": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !validSide(side) {
				return nil, fmt.Errorf("library: redstone.getAnalogInput: invalid side %q", side)
			}
			lines.mu.Lock()
			defer lines.mu.Unlock()
			return []any{lines.analog[side]}, nil
		},
		"setAnalogOutput": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !validSide(side) {
				return nil, fmt.Errorf("library: redstone.setAnalogOutput: invalid side %q", side)
			}
			v, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			if v < 0 {
				v = 0
			}
			if v > 15 {
				v = 15
			}
			lines.mu.Lock()
			lines.analog[side] = v
			lines.mu.Unlock()
			return nil, nil
		},
		"getBundledInput": func(args []any) ([]any, error) {
			lines.mu.Lock()
			defer lines.mu.Unlock()
			on := make([]string, 0, len(sides))
			for _, s := range sides {
				if lines.digital[s] {
					on = append(on, s)
				}
			}
			sort.Strings(on)
			out := make([]any, len(on))
			for i, s := range on {
				out[i] = s
			}
			return []any{out}, nil
		},
	}
}
