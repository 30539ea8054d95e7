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

package config_test

import (
	"testing"

	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/test"
)

func TestCommandLineStackValues(t *testing.T) {
	// empty on start
	test.ExpectEquality(t, config.PopCommandLineStack(), "")

	// single value
	config.PushCommandLineStack("foo::bar")
	test.ExpectEquality(t, config.PopCommandLineStack(), "foo::bar")

	// single value but with additional space
	config.PushCommandLineStack("   foo:: bar ")
	test.ExpectEquality(t, config.PopCommandLineStack(), "foo::bar")

	// more than one key/value in the prefs string. remaining string will
	// will be sorted
	config.PushCommandLineStack("foo::bar; baz::qux")
	test.ExpectEquality(t, config.PopCommandLineStack(), "baz::qux; foo::bar")

	// check invalid prefs string
	config.PushCommandLineStack("foo_bar")
	test.ExpectEquality(t, config.PopCommandLineStack(), "")

	// check (partically) invalid prefs string
	config.PushCommandLineStack("foo_bar;baz::qux")
	test.ExpectEquality(t, config.PopCommandLineStack(), "baz::qux")

	// get prefs value that doesn't exist after pushing a parially invalid prefs string
	config.PushCommandLineStack("foo::bar;baz_qux")
	ok, _ := config.GetCommandLinePref("baz")
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, config.PopCommandLineStack(), "foo::bar")
}

func TestCommandLineStack(t *testing.T) {
	// empty on start
	test.ExpectEquality(t, config.PopCommandLineStack(), "")

	// single value
	config.PushCommandLineStack("foo::bar")

	// add another command line group
	config.PushCommandLineStack("baz::qux")
	test.ExpectEquality(t, config.PopCommandLineStack(), "baz::qux")

	// first group still exists
	test.ExpectEquality(t, config.PopCommandLineStack(), "foo::bar")
}
