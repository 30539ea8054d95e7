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

// Package config is the global and per-computer settings store
// (config/global.json and config/<id>.json). Settings are typed values
// (Bool, Int, Float, String, Generic) registered against a *Disk by name;
// Disk.Save/Load persist the whole registered set as a single JSON object.
//
// The command line parser also stacks ad-hoc "key::value" overrides here
// (PushCommandLineStack/PopCommandLineStack/GetCommandLinePref) so that
// flags like "-baud 9600" can be threaded through to a peripheral that
// hasn't been constructed yet at flag-parsing time.
package config
