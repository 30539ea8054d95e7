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

import "os"

// GlobalConfig is the process-wide settings set (§3 "Configuration",
// global scope): the fixed fields every build cares about, plus a Disk
// a script can extend with custom keys via registerConfigSetting.
type GlobalConfig struct {
	Disk *Disk

	HTTPEnabled         Bool
	DebugEnabled        Bool
	MountMode           String
	ClockSpeed          Int
	AbortTimeout        Int
	ComputerSpaceLimit  Int
	MaximumFilesOpen    Int
	MaxNotesPerTick     Int
	ROMReadOnly         Bool
	Vanilla             Bool
	InitialComputer     Int
}

// defaults a GlobalConfig is constructed with before Load overlays
// whatever is already on disk at filename.
const (
	defaultMountMode          = "rw"
	defaultClockSpeed         = 20
	defaultAbortTimeout       = 7000
	defaultComputerSpaceLimit = 1000 * 1000 // bytes
	defaultMaximumFilesOpen   = 128
	defaultMaxNotesPerTick    = 8
)

// LoadGlobal opens (or creates) the global config file at filename,
// registers every fixed setting under its §3 name, and loads whatever
// values are already present. A file that doesn't exist yet is not an
// error; the defaults above stand until the first Save.
func LoadGlobal(filename string) (*GlobalConfig, error) {
	disk, err := NewDisk(filename)
	if err != nil {
		return nil, err
	}

	g := &GlobalConfig{
		Disk:               disk,
		MountMode:          String{val: defaultMountMode},
		ClockSpeed:         defaultClockSpeed,
		AbortTimeout:       defaultAbortTimeout,
		ComputerSpaceLimit: defaultComputerSpaceLimit,
		MaximumFilesOpen:   defaultMaximumFilesOpen,
		MaxNotesPerTick:    defaultMaxNotesPerTick,
	}

	settings := map[string]Setting{
		"http":               &g.HTTPEnabled,
		"debug":              &g.DebugEnabled,
		"mountMode":          &g.MountMode,
		"clockSpeed":         &g.ClockSpeed,
		"abortTimeout":       &g.AbortTimeout,
		"computerSpaceLimit": &g.ComputerSpaceLimit,
		"maximumFilesOpen":   &g.MaximumFilesOpen,
		"maxNotesPerTick":    &g.MaxNotesPerTick,
		"romReadOnly":        &g.ROMReadOnly,
		"vanilla":            &g.Vanilla,
		"initialComputer":    &g.InitialComputer,
	}
	for name, s := range settings {
		if err := disk.Add(name, s); err != nil {
			return nil, err
		}
	}

	if err := disk.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return g, nil
}
