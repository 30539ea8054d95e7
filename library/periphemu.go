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

	"github.com/block16/craftos-go/peripheral"
)

// Periphemu builds the "periphemu" namespace: attach/detach against
// registry plus names (the registered peripheral types), the script-visible counterpart of the host's own
// plug-in attach/detach commands. lookup resolves the "computer"
// peripheral's target id at attach time (§9: a weak, re-resolved
// handle rather than a registered factory bound to one target); it
// may be nil if cross-computer peripherals aren't supported by the
// caller.
func Periphemu(registry *peripheral.Registry, lookup peripheral.ComputerLookup) Namespace {
	return Namespace{
		"attach": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			typ, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			if typ == "computer" {
				if lookup == nil {
					return []any{false}, nil
				}
				targetID, err := argInt(args, 2)
				if err != nil {
					return []any{false}, nil
				}
				if _, err := registry.AttachComputer(side, targetID, lookup); err != nil {
					return []any{false}, nil
				}
				return []any{true}, nil
			}
			if _, err := registry.Attach(side, typ); err != nil {
				return []any{false}, nil
			}
			return []any{true}, nil
		},
		"detach": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			_, existed := registry.Get(side)
			registry.Detach(side)
			return []any{existed}, nil
		},
		"names": func(args []any) ([]any, error) {
			names := peripheral.RegisteredTypes()
			out := make([]any, len(names))
			for i, n := range names {
				out[i] = n
			}
			return []any{out}, nil
		},
	}
}

// Peripheral builds the "peripheral" namespace: isPresent/getNames/
// getMethods/call against registry. There is no getType call.
func Peripheral(registry *peripheral.Registry) Namespace {
	return Namespace{
		"isPresent": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			_, ok := registry.Get(side)
			return []any{ok}, nil
		},
		"getNames": func(args []any) ([]any, error) {
			sides := registry.Sides()
			out := make([]any, len(sides))
			for i, s := range sides {
				out[i] = s
			}
			return []any{out}, nil
		},
		"getMethods": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			p, ok := registry.Get(side)
			if !ok {
				return []any{nil}, nil
			}
			methods := p.Methods()
			out := make([]any, len(methods))
			for i, m := range methods {
				out[i] = m
			}
			return []any{out}, nil
		},
		"call": func(args []any) ([]any, error) {
			side, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			method, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			p, ok := registry.Get(side)
			if !ok {
				return nil, fmt.Errorf("library: peripheral.call: no peripheral attached to %q", side)
			}
			return p.Call(method, args[2:])
		},
	}
}
