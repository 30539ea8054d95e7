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

// Package plugin is the §6 native plug-in loader: it opens a Go shared
// object, hands it a read-only host function table, and records the
// info record the plug-in returns. A plug-in that fails only aborts
// itself; it never prevents the rest of a directory's plug-ins from
// loading.
package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	goplugin "plugin"

	"github.com/block16/craftos-go/computer"
	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/peripheral"
	"github.com/block16/craftos-go/taskqueue"
)

// ABIVersion is the host function table's current version. A plug-in
// built against a different version is rejected before its Info is
// trusted for anything else.
const ABIVersion = 1

// EntryPointSymbol is the exported symbol every plug-in .so must
// provide: a func(HostTable) Info.
const EntryPointSymbol = "CraftOSPlugin"

// EventHandler is a plug-in supplied callback for
// HostTable.RegisterEventHandler.
type EventHandler func(computerID int, args []any, userdata any)

// HostTable is the read-only function table a plug-in receives at
// load time (§6's plug-in contract). Every field is supplied by
// whatever owns the running supervisor; a plug-in never holds a
// pointer to the supervisor itself.
type HostTable struct {
	GetBasePath func() string
	GetROMPath  func() string
	GetLibrary  func(name string) (library.Namespace, bool)

	GetComputerByID func(id int) (peripheral.ComputerPeer, bool)
	StartComputer   func(id int) (*computer.Computer, error)

	AddMount        func(computerID int, computerPath, hostPath string, readOnly bool) error
	AddVirtualMount func(computerID int, computerPath string, files map[string][]byte, readOnly bool) error

	RegisterPeripheral    func(name string, factory peripheral.Factory) error
	RegisterEventHandler  func(eventType string, handler EventHandler, userdata any) error
	QueueEvent            func(computerID int, provider string, userdata any)
	QueueTask             func(job taskqueue.Job, arg any, async bool) any
	RegisterConfigSetting func(name, typ, effect string) error

	GetConfigBool   func(name string) (bool, error)
	SetConfigBool   func(name string, v bool) error
	GetConfigInt    func(name string) (int, error)
	SetConfigInt    func(name string, v int) error
	GetConfigString func(name string) (string, error)
	SetConfigString func(name string, v string) error
}

// Info is the record a plug-in's entry point returns. A non-empty
// FailureReason aborts loading that plug-in without being a Go error:
// the plug-in made a deliberate decision not to load (wrong game
// version, missing dependency), not a broken one.
type Info struct {
	ABIVersion              int
	MinimumStructureVersion int
	FailureReason           string
	APIName                 string
}

// EntryPoint is the function signature looked up under
// EntryPointSymbol in every plug-in .so.
type EntryPoint func(host HostTable) Info

// Result is one plug-in's outcome from LoadAll.
type Result struct {
	Path string
	Info Info
	Err  error
}

// Failed reports whether this plug-in did not end up loaded, whether
// because of an open/lookup/ABI error or because it returned its own
// FailureReason.
func (r Result) Failed() bool {
	return r.Err != nil || r.Info.FailureReason != ""
}

// Load opens the shared object at path and invokes its entry point
// with host. It rejects a mismatched ABIVersion before the plug-in's
// own FailureReason is even consulted.
func Load(path string, host HostTable) (Info, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("plugin: opening %s: %w", path, err)
	}

	sym, err := p.Lookup(EntryPointSymbol)
	if err != nil {
		return Info{}, fmt.Errorf("plugin: %s: missing %s symbol: %w", path, EntryPointSymbol, err)
	}

	entry, ok := sym.(func(HostTable) Info)
	if !ok {
		return Info{}, fmt.Errorf("plugin: %s: %s has the wrong signature", path, EntryPointSymbol)
	}

	info := entry(host)
	if info.ABIVersion != ABIVersion {
		return info, fmt.Errorf("plugin: %s: unsupported abi version %d (host is %d)", path, info.ABIVersion, ABIVersion)
	}
	return info, nil
}

// LoadAll loads every *.so file directly under dir, in directory
// order, continuing past any single plug-in's failure. A dir that
// doesn't exist yields no results and no error: a plugins/ directory
// is optional.
func LoadAll(dir string, host HostTable) []Result {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var results []Result
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".so" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := Load(path, host)
		results = append(results, Result{Path: path, Info: info, Err: err})
	}
	return results
}
