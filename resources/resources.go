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

// Package resources resolves paths onto the writable base directory
// (JoinPath, a variadic cousin of paths.ResourcePath) and serves the
// assets baked into the binary at build time: the default bios.lua boot
// script and the fallback rom/ tree mounted under "rom" when a computer
// has no other provider for it. These assets are read-only; nothing in
// this package ever writes to them.
package resources

import (
	"embed"
	"path"
	"path/filepath"

	"github.com/block16/craftos-go/paths"
)

//go:embed assets/bios.lua assets/rom
var embedded embed.FS

// JoinPath joins elem onto the base directory (see paths.BaseDir), same
// destination as paths.ResourcePath but accepting any number of
// elements instead of exactly two.
func JoinPath(elem ...string) (string, error) {
	base, err := paths.BaseDir()
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(elem)+1)
	parts = append(parts, base)
	for _, e := range elem {
		if e == "" {
			continue
		}
		parts = append(parts, e)
	}
	return filepath.Join(parts...), nil
}

// Bios returns the contents of the embedded default boot script.
func Bios() ([]byte, error) {
	return embedded.ReadFile("assets/bios.lua")
}

// ROM returns the contents of name from the embedded fallback rom tree
// (e.g. ROM("shell.lua") reads assets/rom/shell.lua).
func ROM(name string) ([]byte, error) {
	return embedded.ReadFile(path.Join("assets/rom", name))
}
