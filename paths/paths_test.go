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

package paths_test

import (
	"testing"

	"github.com/block16/craftos-go/paths"
	"github.com/block16/craftos-go/test"
)

func TestPaths(t *testing.T) {
	pth, err := paths.ResourcePath("foo/bar", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".craftos/foo/bar/baz")

	pth, err = paths.ResourcePath("foo/bar", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".craftos/foo/bar")

	pth, err = paths.ResourcePath("", "baz")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".craftos/baz")

	pth, err = paths.ResourcePath("", "")
	test.Equate(t, err, nil)
	test.Equate(t, pth, ".craftos")
}

func TestSetBaseDir(t *testing.T) {
	defer paths.SetBaseDir("")

	paths.SetBaseDir("/tmp/craftos-test")
	pth, err := paths.ResourcePath("computer/5", "startup.lua")
	test.Equate(t, err, nil)
	test.Equate(t, pth, "/tmp/craftos-test/computer/5/startup.lua")

	paths.SetBaseDir("")
	base, err := paths.BaseDir()
	test.Equate(t, err, nil)
	test.Equate(t, base, ".craftos")
}
