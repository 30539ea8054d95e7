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
	"path"
	"sync"

	"github.com/block16/craftos-go/vfs"
)

// handleTable hands out small integer handles for open vfs.Handles, so
// the guest-visible fs namespace can reference an open file by a
// plain number rather than a Go pointer value.
type handleTable struct {
	mu      sync.Mutex
	next    int
	handles map[int]*vfs.Handle
}

func newHandleTable() *handleTable {
	return &handleTable{handles: make(map[int]*vfs.Handle)}
}

func (h *handleTable) add(handle *vfs.Handle) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.handles[h.next] = handle
	return h.next
}

func (h *handleTable) get(id int) (*vfs.Handle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.handles[id]
	return handle, ok
}

func (h *handleTable) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handles, id)
}

var modeByString = map[string]vfs.Mode{
	"r":  vfs.ModeRead,
	"rb": vfs.ModeReadBinary,
	"w":  vfs.ModeWrite,
	"wb": vfs.ModeWriteBinary,
	"a":  vfs.ModeAppend,
	"ab": vfs.ModeAppendBinary,
}

// FS builds the "fs" namespace (§4.5, §4.6, supplemented per
// fs.cpp/fs_handle.cpp by combine/getDir/getName/list) around table.
func FS(table *vfs.Table) Namespace {
	handles := newHandleTable()

	return Namespace{
		"open": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			modeStr, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			mode, ok := modeByString[modeStr]
			if !ok {
				return nil, fmt.Errorf("library: fs.open: unsupported mode %q", modeStr)
			}
			handle, err := vfs.Open(table, p, mode)
			if err != nil {
				return []any{nil, err.Error()}, nil
			}
			return []any{handles.add(handle)}, nil
		},
		"close": func(args []any) ([]any, error) {
			id, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			handle, ok := handles.get(id)
			if !ok {
				return nil, fmt.Errorf("library: fs.close: unknown handle %d", id)
			}
			handles.remove(id)
			return nil, handle.Close()
		},
		"readAll": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			s, err := handle.ReadAll()
			if err != nil {
				return nil, err
			}
			return []any{s}, nil
		},
		"readLine": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			line, ok, err := handle.ReadLine()
			if err != nil {
				return nil, err
			}
			if !ok {
				return []any{nil}, nil
			}
			return []any{line}, nil
		},
		"read": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			if len(args) < 2 {
				b, ok, err := handle.ReadByte()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, nil
				}
				return []any{b}, nil
			}
			n, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			s, err := handle.Read(n)
			if err != nil {
				return nil, err
			}
			return []any{s}, nil
		},
		"write": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			s, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			return nil, handle.Write(s)
		},
		"writeLine": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			s, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			return nil, handle.WriteLine(s)
		},
		"flush": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			return nil, handle.Flush()
		},
		"seek": func(args []any) ([]any, error) {
			handle, err := lookupHandle(handles, args)
			if err != nil {
				return nil, err
			}
			whenceStr := optString(args, 1, "cur")
			offset, err := argInt(args, 2)
			if err != nil {
				offset = 0
			}
			var whence vfs.Whence
			switch whenceStr {
			case "set":
				whence = vfs.SeekSet
			case "end":
				whence = vfs.SeekEnd
			default:
				whence = vfs.SeekCur
			}
			pos, err := handle.Seek(whence, int64(offset))
			if err != nil {
				return []any{nil, err.Error()}, nil
			}
			return []any{pos}, nil
		},
		"combine": func(args []any) ([]any, error) {
			base, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			rel, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			segments, err := vfs.Normalize(path.Join(base, rel))
			if err != nil {
				return []any{""}, nil
			}
			return []any{vfs.Join(segments)}, nil
		},
		"getDir": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			segments, err := vfs.Normalize(p)
			if err != nil || len(segments) == 0 {
				return []any{""}, nil
			}
			return []any{vfs.Join(segments[:len(segments)-1])}, nil
		},
		"getName": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			segments, err := vfs.Normalize(p)
			if err != nil || len(segments) == 0 {
				return []any{""}, nil
			}
			return []any{segments[len(segments)-1]}, nil
		},
		"list": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			names, err := table.List(p)
			if err != nil {
				return nil, err
			}
			entries := make([]any, len(names))
			for i, n := range names {
				entries[i] = n
			}
			return []any{entries}, nil
		},
		"exists": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			return []any{table.Exists(p)}, nil
		},
		"isDir": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			return []any{table.IsDir(p)}, nil
		},
		"isReadOnly": func(args []any) ([]any, error) {
			p, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			segments, err := vfs.Normalize(p)
			if err != nil {
				return []any{true}, nil
			}
			return []any{table.IsReadOnly(segments)}, nil
		},
	}
}

func lookupHandle(handles *handleTable, args []any) (*vfs.Handle, error) {
	id, err := argInt(args, 0)
	if err != nil {
		return nil, err
	}
	handle, ok := handles.get(id)
	if !ok {
		return nil, fmt.Errorf("library: unknown file handle %d", id)
	}
	return handle, nil
}
