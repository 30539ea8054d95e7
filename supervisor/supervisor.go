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

// Package supervisor is the §4.1 runtime supervisor: it owns the
// registry of running computers, the main-thread task queue, and the
// global config, lending each Computer it starts a scoped lookup and
// config-registration hook rather than handing out the registry
// itself.
package supervisor

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/bradleyjkemp/memviz"

	"github.com/block16/craftos-go/assert"
	"github.com/block16/craftos-go/computer"
	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/errors"
	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/logger"
	"github.com/block16/craftos-go/paths"
	"github.com/block16/craftos-go/peripheral"
	"github.com/block16/craftos-go/taskqueue"
	"github.com/block16/craftos-go/terminal"
)

// RendererFactory builds the presentation back-end for one computer's
// terminal; which concrete Renderer it returns depends on the
// front-end's chosen --headless/--cli/--gui/--hardware mode.
type RendererFactory func(id int) terminal.Renderer

// Supervisor is the §4.1 runtime supervisor.
type Supervisor struct {
	mu            sync.Mutex
	computers     map[int]*computer.Computer
	nextID        int
	customEffects map[string]string
	done          chan struct{}
	doneOnce      sync.Once

	ownerGoroutine uint64
	ownerSet       bool

	global      *config.GlobalConfig
	romDir      string
	newProgram  computer.ProgramFactory
	newRenderer RendererFactory

	// Tasks is the main-thread task queue (§4.9, §9): any goroutine may
	// Submit a job; only the goroutine that calls Run ever executes one.
	Tasks *taskqueue.Queue
}

// New constructs a Supervisor. global is the already-loaded process-wide
// config; romDir is mounted read-only or read-write (per
// global.ROMReadOnly) under "rom" on every computer it starts;
// newProgram builds the guest coroutine a Boot installs, and is
// supplied by whatever embeds a scripting runtime; newRenderer chooses
// a presentation back-end per computer id.
func New(global *config.GlobalConfig, romDir string, newProgram computer.ProgramFactory, newRenderer RendererFactory) *Supervisor {
	s := &Supervisor{
		computers:     make(map[int]*computer.Computer),
		customEffects: make(map[string]string),
		done:          make(chan struct{}),
		global:        global,
		romDir:        romDir,
		newProgram:    newProgram,
		newRenderer:   newRenderer,
	}
	s.Tasks = taskqueue.New(s.isTaskOwner)
	return s
}

func (s *Supervisor) isTaskOwner() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerSet && assert.GetGoRoutineID() == s.ownerGoroutine
}

// Run claims the calling goroutine as the task queue's owner thread
// (§4.1: "the task thread is the supervisor's main thread") and drains
// it in a loop until Shutdown is called. It returns once the queue is
// stopped and no further work is pending.
func (s *Supervisor) Run() {
	s.mu.Lock()
	s.ownerGoroutine = assert.GetGoRoutineID()
	s.ownerSet = true
	s.mu.Unlock()

	for {
		select {
		case <-s.done:
			return
		default:
		}
		s.Tasks.Drain()
	}
}

// StartComputer allocates state for id (§4.1's start_computer): loads
// its per-computer config, mounts rom, opens a terminal through
// newRenderer, and starts the computer's worker. Starting an id that
// is already running fails.
func (s *Supervisor) StartComputer(id int) (*computer.Computer, error) {
	s.mu.Lock()
	if _, ok := s.computers[id]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("supervisor: computer %d is already running", id)
	}
	s.mu.Unlock()

	configPath, err := paths.ResourcePath("config", strconv.Itoa(id)+".json")
	if err != nil {
		return nil, err
	}
	own, err := config.LoadComputer(configPath)
	if err != nil {
		return nil, err
	}

	hostDir, err := paths.EnsureDir(filepath.Join("computer", strconv.Itoa(id)))
	if err != nil {
		return nil, err
	}

	var renderer terminal.Renderer
	if s.newRenderer != nil {
		renderer = s.newRenderer(id)
	}

	c := computer.New(id, hostDir, s.global, own, renderer)
	if err := c.MountROM(s.romDir); err != nil {
		return nil, err
	}

	if err := c.Boot(s.newProgram, s.Surface(c)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.computers[id] = c
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.mu.Unlock()

	logger.Logf(logger.Allow, "supervisor", "computer %d started", id)
	return c, nil
}

// StopComputer shuts down and removes computer id from the registry.
// No explicit cross-computer peripheral cleanup is needed: every
// ComputerPeripheral addresses its target by a weak id resolved
// through lookup on each call, so removing id here is enough to make
// every such call elsewhere fail cleanly from now on (§9).
func (s *Supervisor) StopComputer(id int) {
	s.mu.Lock()
	c, ok := s.computers[id]
	delete(s.computers, id)
	s.mu.Unlock()

	if !ok {
		return
	}
	c.Shutdown()
	logger.Logf(logger.Allow, "supervisor", "computer %d stopped", id)
}

// Get returns the running computer registered under id, if any.
func (s *Supervisor) Get(id int) (*computer.Computer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.computers[id]
	return c, ok
}

// NextID returns an id not currently assigned to a running computer.
func (s *Supervisor) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// Count returns the number of computers currently registered.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.computers)
}

// IDs returns the ids of every currently registered computer.
func (s *Supervisor) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.computers))
	for id := range s.computers {
		ids = append(ids, id)
	}
	return ids
}

// Surface builds the library.Surface for an already-started computer,
// wired to this supervisor's config-registration and cross-computer
// lookup hooks.
func (s *Supervisor) Surface(c *computer.Computer) library.Surface {
	return c.Surface(s.registerConfigSetting, s.lookup)
}

// lookup implements peripheral.ComputerLookup against the registry.
func (s *Supervisor) lookup(id int) (peripheral.ComputerPeer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.computers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// registerConfigSetting implements library.RegisterConfigSetting,
// adding a plug-in's custom setting to the global disk under its
// declared type (§4.10, §6's plug-in ABI) and remembering the effect
// so a future config UI can decide whether a change needs a reboot.
func (s *Supervisor) registerConfigSetting(name, typ, effect string) error {
	var setting config.Setting
	switch typ {
	case "bool":
		setting = new(config.Bool)
	case "int":
		setting = new(config.Int)
	case "float":
		setting = new(config.Float)
	case "string":
		setting = new(config.String)
	default:
		return errors.Errorf("supervisor: registerConfigSetting: unknown type %q", typ)
	}

	if err := s.global.Disk.Add(name, setting); err != nil {
		return err
	}

	s.mu.Lock()
	s.customEffects[name] = effect
	s.mu.Unlock()
	return nil
}

// RegisterConfigSetting exposes registerConfigSetting to callers
// outside this package (cmd/craftos's plugin.HostTable wiring).
func (s *Supervisor) RegisterConfigSetting(name, typ, effect string) error {
	return s.registerConfigSetting(name, typ, effect)
}

// GetConfigBool reads a previously-registered bool setting, failing if
// name isn't registered or wasn't registered as a config.Bool.
func (s *Supervisor) GetConfigBool(name string) (bool, error) {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return false, errors.Errorf("supervisor: no such config setting %q", name)
	}
	b, ok := setting.(*config.Bool)
	if !ok {
		return false, errors.Errorf("supervisor: config setting %q is not a bool", name)
	}
	return bool(*b), nil
}

// SetConfigBool sets and persists a previously-registered bool setting.
func (s *Supervisor) SetConfigBool(name string, v bool) error {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return errors.Errorf("supervisor: no such config setting %q", name)
	}
	if err := setting.Set(v); err != nil {
		return err
	}
	return s.global.Disk.Save()
}

// GetConfigInt reads a previously-registered int setting.
func (s *Supervisor) GetConfigInt(name string) (int, error) {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return 0, errors.Errorf("supervisor: no such config setting %q", name)
	}
	i, ok := setting.(*config.Int)
	if !ok {
		return 0, errors.Errorf("supervisor: config setting %q is not an int", name)
	}
	return int(*i), nil
}

// SetConfigInt sets and persists a previously-registered int setting.
func (s *Supervisor) SetConfigInt(name string, v int) error {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return errors.Errorf("supervisor: no such config setting %q", name)
	}
	if err := setting.Set(v); err != nil {
		return err
	}
	return s.global.Disk.Save()
}

// GetConfigString reads a previously-registered string setting.
func (s *Supervisor) GetConfigString(name string) (string, error) {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return "", errors.Errorf("supervisor: no such config setting %q", name)
	}
	str, ok := setting.(*config.String)
	if !ok {
		return "", errors.Errorf("supervisor: config setting %q is not a string", name)
	}
	return str.String(), nil
}

// SetConfigString sets and persists a previously-registered string setting.
func (s *Supervisor) SetConfigString(name string, v string) error {
	setting, ok := s.global.Disk.Get(name)
	if !ok {
		return errors.Errorf("supervisor: no such config setting %q", name)
	}
	if err := setting.Set(v); err != nil {
		return err
	}
	return s.global.Disk.Save()
}

// SettingEffect returns the {immediate, reboot, restart} effect a
// plug-in declared for name via registerConfigSetting, if any.
func (s *Supervisor) SettingEffect(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	effect, ok := s.customEffects[name]
	return effect, ok
}

// DumpGraph renders the live computer registry as a Graphviz DOT
// file, the same "inspect the running object graph" facility the
// teacher ships for its own debugger state.
func (s *Supervisor) DumpGraph(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memviz.Map(w, &s.computers)
}

// Shutdown signals every running computer to stop, joins their
// workers, persists global config, and tears down the task queue
// (§4.1: "shutdown() signals every computer to stop, joins workers,
// tears down subsystems in reverse order of initialization").
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.computers))
	for id := range s.computers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.StopComputer(id)
		}()
	}
	wg.Wait()

	if err := s.global.Disk.Save(); err != nil {
		logger.Logf(logger.Allow, "supervisor", "saving global config: %v", err)
	}

	s.Tasks.Stop()
	s.doneOnce.Do(func() { close(s.done) })
}
