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
	"github.com/block16/craftos-go/vfs"
)

// Mounter builds the "mounter" namespace (supplemented from
// mounter.cpp, §4.5): script-callable wrappers around table's mount
// operations, respecting whatever mode policy table was constructed
// with (a disallowed or conflicting mount surfaces as the same error
// AddMount/RemoveMount already raise).
func Mounter(table *vfs.Table) Namespace {
	return Namespace{
		"mount": func(args []any) ([]any, error) {
			logical, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			hostDir, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			readOnly := false
			if len(args) > 2 {
				readOnly, _ = args[2].(bool)
			}

			segments, err := vfs.Normalize(logical)
			if err != nil {
				return []any{false, err.Error()}, nil
			}
			if err := table.AddMount(segments, vfs.Join(segments), hostDir, readOnly); err != nil {
				return []any{false, err.Error()}, nil
			}
			return []any{true}, nil
		},
		"unmount": func(args []any) ([]any, error) {
			logical, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			segments, err := vfs.Normalize(logical)
			if err != nil {
				return []any{false, err.Error()}, nil
			}
			if err := table.RemoveMount(segments); err != nil {
				return []any{false, err.Error()}, nil
			}
			return []any{true}, nil
		},
		"list": func(args []any) ([]any, error) {
			mounts := table.Mounts()
			out := make([]any, len(mounts))
			for i, m := range mounts {
				out[i] = map[string]any{
					"path":     vfs.Join(m.Prefix),
					"label":    m.Label,
					"readOnly": m.ReadOnly,
				}
			}
			return []any{out}, nil
		},
	}
}
