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

package vfs

import (
	"path/filepath"
	"strings"

	"github.com/block16/craftos-go/errors"
)

// Normalize splits p into clean, sandbox-relative path segments.
// Leading/trailing/empty segments and "." are dropped; ".." pops the
// last segment, and ".." with nothing left to pop is an error, since
// there's no way to express "above the sandbox root".
func Normalize(p string) ([]string, error) {
	raw := strings.Split(p, "/")
	out := make([]string, 0, len(raw))

	for _, seg := range raw {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return nil, errors.Path(p, errors.ReasonNotADirectory)
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return out, nil
}

// Join renders segments back into a forward-slash sandbox path, the
// inverse of Normalize.
func Join(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// HasWildcard reports whether any segment contains a "*".
func HasWildcard(segments []string) bool {
	for _, seg := range segments {
		if strings.Contains(seg, "*") {
			return true
		}
	}
	return false
}

// MatchSegment reports whether name matches the single-segment glob
// pattern, where "*" matches any run of characters within the segment
// (it cannot cross a "/", but Normalize has already split on "/" by the
// time anything calls this).
func MatchSegment(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
