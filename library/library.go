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

// Package library is the namespaced host API surface bound into a
// vm.Session: term, fs, os, config, mounter, peripheral, periphemu,
// bit, redstone (§4.1, §3). Every operation is exposed the same shape
// a guest call takes: a name and a positional argument list, returning
// a positional result list or an error — mirroring the teacher's
// `lua_CFunction`-table style of registering a host API (a flat
// name→function map per namespace) without depending on any
// particular guest-language binding.
package library

import "fmt"

// Function is one host API call: positional arguments in, positional
// results (or an error, surfaced to the guest as a raised error) out.
type Function func(args []any) ([]any, error)

// Namespace is a named table of Functions, the Go analogue of the
// teacher's const-array-of-names-plus-array-of-lua_CFunction pairing
// (os_keys/os_values in the original source) collapsed into one map.
type Namespace map[string]Function

// Surface is the complete set of namespaces bound into one computer's
// session.
type Surface map[string]Namespace

// Call looks up namespace.method and invokes it with args.
func (s Surface) Call(namespace, method string, args []any) ([]any, error) {
	ns, ok := s[namespace]
	if !ok {
		return nil, fmt.Errorf("library: no such namespace %q", namespace)
	}
	fn, ok := ns[method]
	if !ok {
		return nil, fmt.Errorf("library: %s has no method %q", namespace, method)
	}
	return fn(args)
}

// Methods lists every method name registered under namespace, for
// introspection (e.g. `peripheral.getMethods`).
func (s Surface) Methods(namespace string) []string {
	ns, ok := s[namespace]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(ns))
	for name := range ns {
		names = append(names, name)
	}
	return names
}

func argString(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("library: expected a string argument at position %d", i+1)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("library: argument %d must be a string, got %T", i+1, args[i])
	}
	return s, nil
}

func argInt(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("library: expected an integer argument at position %d", i+1)
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("library: argument %d must be numeric, got %T", i+1, args[i])
	}
}

func argFloat(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("library: expected a numeric argument at position %d", i+1)
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("library: argument %d must be numeric, got %T", i+1, args[i])
	}
}

func optString(args []any, i int, def string) string {
	if i >= len(args) {
		return def
	}
	s, ok := args[i].(string)
	if !ok {
		return def
	}
	return s
}
