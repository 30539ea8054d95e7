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

// Package computer is the §3/§4.2 Computer aggregate: one id, one
// vm.Session driving a guest coroutine, one terminal, one mount table,
// one peripheral registry, one event queue, one timer manager, bound
// together into a library.Surface and driven forward by a worker
// goroutine that alternates get_next_event and Session.Resume exactly
// as §4.2's "Running alternates between resume(coro) and blocking on
// the next event" describes.
package computer

import (
	"fmt"
	"sync"
	"time"

	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/errors"
	"github.com/block16/craftos-go/eventqueue"
	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/logger"
	"github.com/block16/craftos-go/peripheral"
	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/timer"
	"github.com/block16/craftos-go/vfs"
	"github.com/block16/craftos-go/vm"
)

// ProgramFactory builds the coroutine-driven guest Program a Boot or
// Reboot installs. It's supplied by whatever owns the scripting
// runtime (normally a Lua binding loading resources.Bios()); the
// computer aggregate itself is runtime-agnostic, the same way
// vm.Session only knows about the vm.Program interface.
type ProgramFactory func(surface library.Surface) vm.Program

// Computer is one emulated machine: identity plus every subsystem
// listed in §3's "Computer" data model (VM, terminal, mounts,
// peripherals, queue, timers) and the per-computer "userdata" map
// Computer.cpp uses to let plug-ins stash scoped state.
type Computer struct {
	ID int

	Session     *vm.Session
	Terminal    *terminal.Buffer
	Mounts      *vfs.Table
	Peripherals *peripheral.Registry
	Events      *eventqueue.Queue
	Timers      *timer.Manager
	GlobalCfg   *config.GlobalConfig
	OwnCfg      *config.ComputerConfig
	Redstone    *library.RedstoneLines

	mu          sync.Mutex
	pluginData  map[string]any
	on          bool
	newProgram  ProgramFactory
	returnValue int

	renderer terminal.Renderer
	worker   sync.WaitGroup
	stopReq  chan struct{}
	stopOnce sync.Once
}

// New constructs a Computer with a fresh terminal, an empty mount
// table rooted at hostDir, and every subsystem wired to its own id.
// The session starts Idle; call Boot to load a program and start the
// worker.
func New(id int, hostDir string, global *config.GlobalConfig, own *config.ComputerConfig, renderer terminal.Renderer) *Computer {
	events := eventqueue.New(eventqueue.DefaultCapacity)
	mountMode := mountModeFromString(global.MountMode.String())

	c := &Computer{
		ID:          id,
		Session:     vm.New(time.Duration(global.AbortTimeout) * time.Millisecond),
		Terminal:    terminal.NewBuffer(terminal.DefaultWidth, terminal.DefaultHeight),
		Mounts:      vfs.NewTable(hostDir, false, mountMode, int(global.MaximumFilesOpen)),
		Peripherals: peripheral.NewRegistry(id),
		Events:      events,
		Timers:      timer.NewManager(events, false),
		GlobalCfg:   global,
		OwnCfg:      own,
		Redstone:    library.NewRedstoneLines(),
		pluginData:  make(map[string]any),
		renderer:    renderer,
		stopReq:     make(chan struct{}),
	}
	return c
}

// MountROM adds the "rom" mount (§3: "the first component rom can be
// added only during computer construction"); the caller must invoke
// this once, before Boot, and never again.
func (c *Computer) MountROM(hostRomDir string) error {
	return c.Mounts.AddMount([]string{"rom"}, "rom", hostRomDir, bool(c.GlobalCfg.ROMReadOnly))
}

func mountModeFromString(s string) vfs.Policy {
	switch s {
	case "none":
		return vfs.PolicyNone
	case "ro strict", "rostrict":
		return vfs.PolicyROStrict
	case "ro":
		return vfs.PolicyRO
	default:
		return vfs.PolicyRW
	}
}

// PluginData returns the value plug-ins have stashed under key, if
// any (Computer.cpp's per-computer userdata map).
func (c *Computer) PluginData(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.pluginData[key]
	return v, ok
}

// SetPluginData stashes value under key for later retrieval by
// PluginData, guarded by the computer's own lock so concurrent
// peripherals/plug-ins never race each other.
func (c *Computer) SetPluginData(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pluginData[key] = value
}

// Renderer returns the presentation back-end this computer was
// started with, or nil for a supervisor with no RendererFactory.
func (c *Computer) Renderer() terminal.Renderer {
	return c.renderer
}

// Label implements peripheral.ComputerPeer.
func (c *Computer) Label() string {
	return string(c.OwnCfg.Label)
}

// SetLabel updates the per-computer label and persists it.
func (c *Computer) SetLabel(label string) error {
	if err := c.OwnCfg.Label.Set(label); err != nil {
		return err
	}
	if c.renderer != nil {
		c.renderer.SetLabel(label)
	}
	return c.OwnCfg.Disk.Save()
}

// IsOn implements peripheral.ComputerPeer.
func (c *Computer) IsOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// SetReturnValue records the exit code a headless front-end should
// report once this computer shuts down (os.shutdown(code)).
func (c *Computer) SetReturnValue(code int) {
	c.mu.Lock()
	c.returnValue = code
	c.mu.Unlock()
}

// ReturnValue returns the exit code most recently set by
// SetReturnValue, or 0 if os.shutdown was never called with one.
func (c *Computer) ReturnValue() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.returnValue
}

// QueueEvent implements peripheral.ComputerPeer, and backs the
// library "os" namespace's own queueEvent call and every other
// producer (timers, peripherals, host input).
func (c *Computer) QueueEvent(name string, args []any) {
	c.Events.PushWait(name, args...)
}

// Surface builds the library.Surface bound to this computer's
// subsystems (§4.1: "namespaced operation tables exposed to the VM").
// register is library.Config's registerConfigSetting hook; nil is
// fine if the caller has no custom-setting support to offer.
func (c *Computer) Surface(register library.RegisterConfigSetting, lookup peripheral.ComputerLookup) library.Surface {
	return library.Surface{
		"term": library.Term(c.Terminal),
		"fs":   library.FS(c.Mounts),
		"os": library.OS(library.OSConfig{
			ComputerID:     c.ID,
			GetLabel:       c.Label,
			SetLabel:       func(l string) { _ = c.SetLabel(l) },
			Queue:          c.Events,
			Timers:         c.Timers,
			Shutdown:       func() { go c.Shutdown() },
			Reboot:         func() { go c.Reboot() },
			About:          "CraftOS-Go",
			SetReturnValue: c.SetReturnValue,
		}),
		"mounter":    library.Mounter(c.Mounts),
		"config":     library.Config(c.GlobalCfg.Disk, register),
		"bit":        library.Bit(),
		"redstone":   library.Redstone(c.Redstone),
		"periphemu":  library.Periphemu(c.Peripherals, lookup),
		"peripheral": library.Peripheral(c.Peripherals),
	}
}

// Boot transitions the session into Booting and starts the worker
// goroutine that drives it. factory is remembered so a later Reboot
// can recreate an equivalent program. Boot fails if a worker is
// already running.
func (c *Computer) Boot(factory ProgramFactory, surface library.Surface) error {
	c.mu.Lock()
	if c.on {
		c.mu.Unlock()
		return fmt.Errorf("computer: %d is already running", c.ID)
	}
	c.on = true
	c.newProgram = factory
	c.mu.Unlock()

	c.Terminal.Clear()
	if err := c.Session.Boot(factory(surface)); err != nil {
		c.mu.Lock()
		c.on = false
		c.mu.Unlock()
		return err
	}

	c.worker.Add(1)
	go c.run()
	return nil
}

// run is the per-computer worker (§4.2/§5): alternates Session.Resume
// with blocking on the next matching event, exactly the "Running
// alternates between resume(coro) and blocking on the next event"
// contract.
func (c *Computer) run() {
	defer c.worker.Done()

	filter, ok, err := c.Session.Resume(nil)
	c.handleStep(filter, ok, err)

	for {
		select {
		case <-c.stopReq:
			c.Events.Stop()
			return
		default:
		}

		if c.Session.State() != vm.Running {
			return
		}

		event, ok := c.Events.GetNextEvent(filter)
		if !ok {
			return
		}

		args := make([]any, len(event.Args))
		copy(args, event.Args)

		filter, ok, err = c.Session.Resume(eventValue{name: event.Name, args: args})
		if !c.handleStep(filter, ok, err) {
			return
		}
	}
}

type eventValue struct {
	name string
	args []any
}

// handleStep applies the §4.2 state transitions following one
// Session.Resume, logging a terminated/errored script the way every
// other subsystem logs through logger rather than fmt.Println.
// Returns false once the worker should stop looping.
func (c *Computer) handleStep(filter string, ok bool, err error) bool {
	if err != nil {
		logger.Logf(logger.Allow, "computer", "computer %d terminated: %v", c.ID, err)
		if c.renderer != nil {
			c.renderer.ShowMessage("Script error", err.Error())
		}
		c.Session.Terminate()
		return false
	}
	if !ok {
		logger.Logf(logger.Allow, "computer", "computer %d stopped", c.ID)
		return false
	}
	return true
}

// Reboot requests the in-script os.reboot() transition: tears down
// the running session and starts a fresh one from the same
// ProgramFactory, keeping the computer's identity (§4.2, §3).
func (c *Computer) Reboot() error {
	if err := c.Session.Reboot(); err != nil {
		return err
	}

	c.mu.Lock()
	factory := c.newProgram
	c.mu.Unlock()
	if factory == nil {
		return errors.Errorf("computer: %d has no program to reboot into", c.ID)
	}

	c.Terminal.Clear()
	surface := c.Surface(nil, nil)
	if err := c.Session.Boot(factory(surface)); err != nil {
		return err
	}

	c.worker.Add(1)
	go c.run()
	return nil
}

// Shutdown stops the worker, drains the event queue, detaches every
// peripheral, and marks the computer off (§4.2: "on shutdown, the
// computer object is removed from the registry and destroyed after
// its worker joins" — the registry removal itself is the supervisor's
// job; Shutdown only tears down what this Computer owns).
func (c *Computer) Shutdown() {
	c.mu.Lock()
	if !c.on {
		c.mu.Unlock()
		return
	}
	c.on = false
	c.mu.Unlock()

	c.stopOnce.Do(func() { close(c.stopReq) })
	c.Events.Stop()
	c.worker.Wait()
	c.Peripherals.DetachAll()
	c.Session.Terminate()
}
