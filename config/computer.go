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

package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// labelBase64Prefix marks a label value as base64-encoded on disk, so a
// plain label that happens to look like valid base64 is never mistaken
// for an encoded one.
const labelBase64Prefix = "base64:"

// Label is a Setting holding a computer's display name. It always keeps
// the plain, decoded string in memory; String() (the form Disk.Save
// writes to the JSON file) base64-encodes it behind labelBase64Prefix
// whenever it carries a rune outside printable ASCII (§4.10).
type Label string

func (l *Label) Set(v Value) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("config: cannot set Label from %T", v)
	}
	if rest, ok := strings.CutPrefix(str, labelBase64Prefix); ok {
		decoded, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return fmt.Errorf("config: label: %w", err)
		}
		str = string(decoded)
	}
	*l = Label(str)
	return nil
}

func (l *Label) String() string {
	s := string(*l)
	if isPlainASCII(s) {
		return s
	}
	return labelBase64Prefix + base64.StdEncoding.EncodeToString([]byte(s))
}

func isPlainASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ComputerConfig is the per-computer settings set (§3 "Configuration",
// per-computer scope): just label and isColor, plus a Disk a script can
// extend with custom keys the same way GlobalConfig does.
type ComputerConfig struct {
	Disk *Disk

	Label   Label
	IsColor Bool
}

// LoadComputer opens (or creates) the per-computer config file at
// filename (normally config/<id>.json) and loads any values already
// present.
func LoadComputer(filename string) (*ComputerConfig, error) {
	disk, err := NewDisk(filename)
	if err != nil {
		return nil, err
	}

	c := &ComputerConfig{Disk: disk, IsColor: true}
	if err := disk.Add("label", &c.Label); err != nil {
		return nil, err
	}
	if err := disk.Add("isColor", &c.IsColor); err != nil {
		return nil, err
	}

	if err := disk.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return c, nil
}
