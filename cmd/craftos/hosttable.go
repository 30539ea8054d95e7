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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/paths"
	"github.com/block16/craftos-go/peripheral"
	"github.com/block16/craftos-go/plugin"
	"github.com/block16/craftos-go/supervisor"
	"github.com/block16/craftos-go/taskqueue"
)

// eventHandlers is the host-side registry backing
// HostTable.RegisterEventHandler/QueueEvent. It lives here rather than
// in package plugin because dispatch is a policy decision for whoever
// owns the running supervisor, not part of the plug-in ABI itself.
type eventHandlers struct {
	mu    sync.Mutex
	byTyp map[string][]registeredHandler
}

type registeredHandler struct {
	handler  plugin.EventHandler
	userdata any
}

func newEventHandlers() *eventHandlers {
	return &eventHandlers{byTyp: make(map[string][]registeredHandler)}
}

func (e *eventHandlers) register(eventType string, h plugin.EventHandler, userdata any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byTyp[eventType] = append(e.byTyp[eventType], registeredHandler{h, userdata})
}

func (e *eventHandlers) dispatch(computerID int, eventType string, args []any) {
	e.mu.Lock()
	handlers := append([]registeredHandler(nil), e.byTyp[eventType]...)
	e.mu.Unlock()

	for _, h := range handlers {
		h.handler(computerID, args, h.userdata)
	}
}

// newHostTable builds the plugin.HostTable handed to every plug-in
// loaded for sup (§6's plug-in contract). romDir is whatever --rom
// resolved to, since GetROMPath is a host detail no Supervisor field
// exposes.
func newHostTable(sup *supervisor.Supervisor, romDir string) plugin.HostTable {
	handlers := newEventHandlers()

	return plugin.HostTable{
		GetBasePath: func() string {
			dir, _ := paths.BaseDir()
			return dir
		},
		GetROMPath: func() string {
			return romDir
		},
		GetLibrary: func(name string) (library.Namespace, bool) {
			// A library.Surface is built per computer, but every
			// computer is booted from the same ROM/bios, so the first
			// running computer's namespace stands in for "the"
			// library a plug-in means by name; a plug-in wanting a
			// specific computer's namespace should go through
			// GetComputerByID instead.
			for _, id := range sup.IDs() {
				c, ok := sup.Get(id)
				if !ok {
					continue
				}
				ns, ok := sup.Surface(c)[name]
				if ok {
					return ns, true
				}
				return nil, false
			}
			return nil, false
		},

		GetComputerByID: func(id int) (peripheral.ComputerPeer, bool) {
			return sup.Get(id)
		},
		StartComputer: sup.StartComputer,

		AddMount: func(computerID int, computerPath, hostPath string, readOnly bool) error {
			c, ok := sup.Get(computerID)
			if !ok {
				return fmt.Errorf("craftos: no such computer %d", computerID)
			}
			return c.Mounts.AddMount(splitMountPath(computerPath), computerPath, hostPath, readOnly)
		},
		AddVirtualMount: func(computerID int, computerPath string, files map[string][]byte, readOnly bool) error {
			c, ok := sup.Get(computerID)
			if !ok {
				return fmt.Errorf("craftos: no such computer %d", computerID)
			}
			hostDir, err := materializeVirtualMount(computerID, computerPath, files)
			if err != nil {
				return err
			}
			return c.Mounts.AddMount(splitMountPath(computerPath), computerPath, hostDir, readOnly)
		},

		RegisterPeripheral: func(name string, factory peripheral.Factory) error {
			peripheral.Register(name, factory)
			return nil
		},
		RegisterEventHandler: func(eventType string, handler plugin.EventHandler, userdata any) error {
			handlers.register(eventType, handler, userdata)
			return nil
		},
		QueueEvent: func(computerID int, provider string, userdata any) {
			if c, ok := sup.Get(computerID); ok {
				c.QueueEvent(provider, nil)
			}
			handlers.dispatch(computerID, provider, nil)
		},
		QueueTask: func(job taskqueue.Job, arg any, async bool) any {
			return sup.Tasks.Submit(job, arg, async)
		},
		RegisterConfigSetting: sup.RegisterConfigSetting,

		GetConfigBool:   sup.GetConfigBool,
		SetConfigBool:   sup.SetConfigBool,
		GetConfigInt:    sup.GetConfigInt,
		SetConfigInt:    sup.SetConfigInt,
		GetConfigString: sup.GetConfigString,
		SetConfigString: sup.SetConfigString,
	}
}

// splitMountPath turns a slash-separated computer-side path such as
// "disk/3" into the prefix segments vfs.Table.AddMount wants, the same
// way applyMount parses a --mount flag's left-hand side.
func splitMountPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// materializeVirtualMount writes files to a private directory under
// the base path and returns it, so an in-memory plug-in mount can
// still be served through vfs.Table's host-backed AddMount. This
// tree's vfs has no separate in-memory mount kind, and a plug-in ABI
// entry point is not where to add one.
func materializeVirtualMount(computerID int, computerPath string, files map[string][]byte) (string, error) {
	sub := filepath.Join("plugin-mounts", strconv.Itoa(computerID), sanitizeMountName(computerPath))
	dir, err := paths.EnsureDir(sub)
	if err != nil {
		return "", err
	}
	for name, data := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func sanitizeMountName(p string) string {
	if p == "" {
		return "root"
	}
	return filepath.FromSlash(p)
}
