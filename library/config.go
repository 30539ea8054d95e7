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
	"strconv"

	"github.com/block16/craftos-go/config"
)

// RegisterConfigSetting models the original's custom-setting
// extension point: a name, a Lua-visible type, and a change callback
// returning one of {immediate, reboot, restart} (§4.10).
type RegisterConfigSetting func(name, typ string, effect string) error

// Config builds the "config" namespace around disk. register is
// invoked for the script-visible `config.registerConfigSetting` call;
// it is the caller's responsibility (normally the computer aggregate)
// to actually add the backing config.Setting to disk before get/set
// calls for that name will succeed.
func Config(disk *config.Disk, register RegisterConfigSetting) Namespace {
	return Namespace{
		"get": func(args []any) ([]any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			setting, ok := disk.Get(name)
			if !ok {
				return nil, fmt.Errorf("library: config.get: no such setting %q", name)
			}
			return []any{decodeSetting(setting)}, nil
		},
		"set": func(args []any) ([]any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			setting, ok := disk.Get(name)
			if !ok {
				return nil, fmt.Errorf("library: config.set: no such setting %q", name)
			}
			var value any
			if len(args) > 1 {
				value = args[1]
			}
			if err := setting.Set(value); err != nil {
				return nil, fmt.Errorf("library: config.set %q: %w", name, err)
			}
			return nil, disk.Save()
		},
		"getType": func(args []any) ([]any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			setting, ok := disk.Get(name)
			if !ok {
				return nil, fmt.Errorf("library: config.getType: no such setting %q", name)
			}
			return []any{kindOf(setting)}, nil
		},
		"list": func(args []any) ([]any, error) {
			keys := disk.Keys()
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return []any{out}, nil
		},
		"registerConfigSetting": func(args []any) ([]any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			typ, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			effect := optString(args, 2, "immediate")
			if register == nil {
				return nil, fmt.Errorf("library: config.registerConfigSetting: not supported in this session")
			}
			return nil, register(name, typ, effect)
		},
	}
}

func kindOf(s config.Setting) string {
	switch s.(type) {
	case *config.Bool:
		return "boolean"
	case *config.Int:
		return "number"
	case *config.Float:
		return "number"
	case *config.String:
		return "string"
	default:
		return "string"
	}
}

func decodeSetting(s config.Setting) any {
	switch v := s.(type) {
	case *config.Bool:
		return bool(*v)
	case *config.Int:
		return int(*v)
	case *config.Float:
		return float64(*v)
	case *config.String:
		return v.String()
	default:
		str := s.String()
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
		return str
	}
}
