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
	"path/filepath"
	"testing"

	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/test"
)

func TestLoadComputerDefaultIsColor(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "1.json")

	c, err := config.LoadComputer(filename)
	test.ExpectSuccess(t, err)
	test.Equate(t, bool(c.IsColor), true)
	test.Equate(t, string(c.Label), "")
}

func TestLabelPlainASCIIRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "1.json")

	c, err := config.LoadComputer(filename)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, c.Label.Set("bench1"))
	test.ExpectSuccess(t, c.Disk.Save())

	reloaded, err := config.LoadComputer(filename)
	test.ExpectSuccess(t, err)
	test.Equate(t, string(reloaded.Label), "bench1")
}

func TestLabelNonASCIIRoundTripsThroughBase64(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "1.json")

	c, err := config.LoadComputer(filename)
	test.ExpectSuccess(t, err)

	test.ExpectSuccess(t, c.Label.Set("コンピュータ"))
	test.Equate(t, string(c.Label), "コンピュータ")
	test.ExpectSuccess(t, c.Disk.Save())

	reloaded, err := config.LoadComputer(filename)
	test.ExpectSuccess(t, err)
	test.Equate(t, string(reloaded.Label), "コンピュータ")
}
