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

// Command craftos is the §6 command-line entry point: it loads the
// on-disk config, starts a supervisor, boots one computer under
// whichever presentation back-end the command line asked for, and
// (for a headless run) exits with the code the guest program set via
// os.shutdown.
package main

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/block16/craftos-go/computer"
	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/diagnostics"
	"github.com/block16/craftos-go/logger"
	"github.com/block16/craftos-go/modalflag"
	"github.com/block16/craftos-go/paths"
	"github.com/block16/craftos-go/plugin"
	"github.com/block16/craftos-go/protocol"
	"github.com/block16/craftos-go/render/cli"
	"github.com/block16/craftos-go/render/hardware"
	"github.com/block16/craftos-go/render/headless"
	"github.com/block16/craftos-go/render/sdl"
	"github.com/block16/craftos-go/supervisor"
	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/vm"
)

// version is the value -V/--version prints; overridden at build time
// with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is main's testable body: it never calls os.Exit itself, instead
// returning the process exit code.
func run(argv []string, out io.Writer) int {
	var plugins, mounts, mountsRO, mountsRW stringSlice

	md := modalflag.Modes{Output: out}
	md.NewArgs(argv)

	headlessFlag := md.AddBool("headless", false, "present nothing; record frames only")
	cliFlag := md.AddBool("cli", false, "present to the local tty with ANSI escapes")
	guiFlag := md.AddBool("gui", false, "present in a window (see --renderer)")
	hardwareFlag := md.AddBool("hardware", false, "present in a window via the GPU texture-upload renderer")
	rawFlag := md.AddBool("raw", false, "with --cli, ship framed binary snapshots instead of painting locally")
	rawClientFlag := md.AddBool("raw-client", false, "act as a thin remote terminal viewer for --args's address, starting no local computer")
	trorFlag := md.AddBool("tror", false, "with --cli, exchange the textual TRoR control protocol")
	scriptFlag := md.AddString("script", "", "boot a computer that prints the named file's contents then idles")
	execFlag := md.AddString("exec", "", "boot a computer that prints the given source then idles")
	argsFlag := md.AddString("args", "", "extra arguments made available to --script/--exec, or the address --raw-client dials")
	directoryFlag := md.AddString("directory", "", "base directory for config/computer state (default .craftos)")
	romFlag := md.AddString("rom", "", "ROM directory supplying bios.lua, rom/, etc (default: built-in assets)")
	idFlag := md.AddInt("id", 0, "computer id to start")
	rendererFlag := md.AddString("renderer", "sdl", "windowed back-end: sdl or hardware (with --gui)")
	mcSaveFlag := md.AddString("mc-save", "", "named save slot; namespaces --directory by this name")
	versionFlag := md.AddBool("version", false, "print the version and exit")
	md.Var(&plugins, "plugin", "load a plug-in .so (repeatable)")
	md.Var(&mounts, "mount", "comp=host read-write mount (repeatable)")
	md.Var(&mountsRO, "mount-ro", "comp=host read-only mount (repeatable)")
	md.Var(&mountsRW, "mount-rw", "comp=host read-write mount (repeatable)")

	result, err := md.Parse()
	if result == modalflag.ParseHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	if *versionFlag {
		fmt.Fprintln(out, "craftos", version)
		return 0
	}

	if *rawClientFlag {
		return runRawClient(*argsFlag, out)
	}

	if *mcSaveFlag != "" {
		*directoryFlag = filepath.Join(*directoryFlag, *mcSaveFlag)
	}
	if *directoryFlag != "" {
		paths.SetBaseDir(*directoryFlag)
	}

	globalPath, err := paths.ResourcePath("config", "global.json")
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	global, err := config.LoadGlobal(globalPath)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	newRenderer, cleanupRenderer, err := buildRendererFactory(rendererFactoryConfig{
		headless: *headlessFlag,
		cli:      *cliFlag,
		gui:      *guiFlag,
		hardware: *hardwareFlag,
		raw:      *rawFlag,
		tror:     *trorFlag,
		renderer: *rendererFlag,
	})
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	defer cleanupRenderer()

	newProgram := newGuestProgramFactory(*scriptFlag, *execFlag, *argsFlag)

	sup := supervisor.New(global, *romFlag, newProgram, newRenderer)
	go sup.Run()
	defer sup.Shutdown()

	diag := diagnostics.New(sup, os.Getenv("CRAFTOS_STATSVIEW_ADDR"), os.Getenv("CRAFTOS_DIAGNOSTICS_ADDR"))
	go func() {
		if err := diag.Start(); err != nil {
			logger.Logf(logger.Allow, "craftos", "diagnostics: %v", err)
		}
	}()

	c, err := sup.StartComputer(*idFlag)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}

	for _, spec := range mounts {
		if err := applyMount(c, spec, false); err != nil {
			fmt.Fprintln(out, err)
			return 1
		}
	}
	for _, spec := range mountsRO {
		if err := applyMount(c, spec, true); err != nil {
			fmt.Fprintln(out, err)
			return 1
		}
	}
	for _, spec := range mountsRW {
		if err := applyMount(c, spec, false); err != nil {
			fmt.Fprintln(out, err)
			return 1
		}
	}

	pluginDir, _ := paths.ResourcePath("plugins", "")
	host := newHostTable(sup, *romFlag)
	for _, p := range plugins {
		if info, err := plugin.Load(p, host); err != nil {
			logger.Logf(logger.Allow, "craftos", "plugin %s: %v", p, err)
		} else if info.FailureReason != "" {
			logger.Logf(logger.Allow, "craftos", "plugin %s declined to load: %s", p, info.FailureReason)
		}
	}
	for _, res := range plugin.LoadAll(pluginDir, host) {
		if res.Failed() {
			logger.Logf(logger.Allow, "craftos", "plugin %s: %v", res.Path, res.Err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	if *headlessFlag {
		waitForShutdown(c, sigCh)
		return c.ReturnValue()
	}

	runPresentationLoop(c, sigCh)
	return c.ReturnValue()
}

// stringSlice is a repeatable flag.Value.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// applyMount parses a "comp=host" mount spec and adds it to c's mount
// table. comp is split on "/" into the mount prefix vfs.Table.AddMount
// expects.
func applyMount(c *computer.Computer, spec string, readOnly bool) error {
	comp, host, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("craftos: malformed mount %q, expected comp=host", spec)
	}
	comp = strings.Trim(comp, "/")
	var prefix []string
	if comp != "" {
		prefix = strings.Split(comp, "/")
	}
	label := comp
	if label == "" {
		label = "mount"
	}
	return c.Mounts.AddMount(prefix, label, host, readOnly)
}

// waitForShutdown blocks until c turns off (the guest called
// os.shutdown, or its program finished) or the process is
// interrupted, whichever comes first.
func waitForShutdown(c *computer.Computer, sigCh <-chan os.Signal) {
	const pollInterval = 20 * time.Millisecond
	for c.IsOn() {
		if st := c.Session.State(); st == vm.Stopped || st == vm.Error {
			return
		}
		select {
		case <-sigCh:
			c.Shutdown()
			return
		case <-time.After(pollInterval):
		}
	}
}

// windowClosed is implemented by back-ends with their own close
// button / quit event.
type windowClosed interface {
	Closed() bool
}

// runPresentationLoop drives an interactive renderer's frame loop on
// the calling goroutine (expected to be the real OS thread for a
// windowed back-end) until the computer shuts down, the window is
// closed, or the process is interrupted.
func runPresentationLoop(c *computer.Computer, sigCh <-chan os.Signal) {
	p := c.Renderer()
	if p == nil {
		waitForShutdown(c, sigCh)
		return
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	const frameInterval = 33 * time.Millisecond
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			c.Shutdown()
		case <-ticker.C:
		}

		p.Update()

		if w, ok := p.(windowClosed); ok && w.Closed() {
			c.Shutdown()
		}

		if c.Terminal.Changed() {
			p.Render(c.Terminal)
		}
		if _, _, pending := c.Terminal.PendingResize(); pending {
			p.Resize(c.Terminal)
		}

		if !c.IsOn() {
			closePresenter(p)
			return
		}
	}
}

// closePresenter releases a renderer's OS resource, however it
// spells Close: cli.Renderer returns an error (it may need to report
// a failed terminal restore), sdl.Renderer and hardware.Renderer
// don't.
func closePresenter(p terminal.Renderer) {
	switch cl := p.(type) {
	case interface{ Close() error }:
		_ = cl.Close()
	case interface{ Close() }:
		cl.Close()
	}
}

// runRawClient dials addr and paints whatever raw frames it receives
// straight to the local tty, without starting a local computer at
// all: a thin remote viewer for a computer running elsewhere under
// --raw.
func runRawClient(addr string, out io.Writer) int {
	if addr == "" {
		fmt.Fprintln(out, "craftos: --raw-client requires --args <host:port>")
		return 1
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintln(out, err)
		return 1
	}
	defer conn.Close()

	reader := protocol.NewRawReader(conn)
	for {
		payload, err := reader.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0
			}
			logger.Logf(logger.Allow, "craftos", "raw-client: %v", err)
			continue // §7: a malformed frame is logged and skipped, not fatal
		}

		var snap terminal.Snapshot
		if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
			continue
		}
		paintSnapshot(out, snap)
	}
}

func paintSnapshot(out io.Writer, snap terminal.Snapshot) {
	fmt.Fprint(out, "\x1b[H")
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			i := y*snap.Width + x
			fg := paletteEntry(snap.Palette, snap.Colors[i]&0x0f)
			bg := paletteEntry(snap.Palette, snap.Colors[i]>>4)
			fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c",
				fg.R, fg.G, fg.B, bg.R, bg.G, bg.B, snap.Screen[i])
		}
		fmt.Fprint(out, "\x1b[0m\r\n")
	}
}

func paletteEntry(palette []terminal.RGB, i byte) terminal.RGB {
	if int(i) >= len(palette) {
		return terminal.RGB{}
	}
	return palette[i]
}

type rendererFactoryConfig struct {
	headless, cli, gui, hardware, raw, tror bool
	renderer                                string
}

// buildRendererFactory picks the supervisor.RendererFactory matching
// the command line's presentation flags. The returned cleanup func
// tears down any renderer-global resource (a GUI back-end's shared
// state) once the supervisor has stopped every computer it built.
func buildRendererFactory(cfg rendererFactoryConfig) (supervisor.RendererFactory, func(), error) {
	noop := func() {}

	switch {
	case cfg.headless:
		return func(int) terminal.Renderer { return headless.New() }, noop, nil

	case cfg.cli:
		switch {
		case cfg.raw:
			r := cli.NewRaw(stdioStream{})
			return func(int) terminal.Renderer { return r }, func() { _ = r.Close() }, nil
		case cfg.tror:
			r := cli.NewTRoR(stdioStream{})
			return func(int) terminal.Renderer { return r }, func() { _ = r.Close() }, nil
		default:
			r, err := cli.NewLocal(os.Stdin, os.Stdout)
			if err != nil {
				return nil, noop, err
			}
			return func(int) terminal.Renderer { return r }, func() { _ = r.Close() }, nil
		}

	case cfg.hardware:
		return func(id int) terminal.Renderer {
			r, err := hardware.New(fmt.Sprintf("craftos %d", id))
			if err != nil {
				logger.Logf(logger.Allow, "craftos", "hardware renderer: %v", err)
				return headless.New()
			}
			return r
		}, noop, nil

	case cfg.gui:
		if cfg.renderer == "hardware" {
			return buildRendererFactory(rendererFactoryConfig{hardware: true})
		}
		return func(id int) terminal.Renderer {
			r, err := sdl.New(fmt.Sprintf("craftos %d", id))
			if err != nil {
				logger.Logf(logger.Allow, "craftos", "sdl renderer: %v", err)
				return headless.New()
			}
			return r
		}, noop, nil

	default:
		return func(int) terminal.Renderer { return headless.New() }, noop, nil
	}
}

// stdioStream wraps process stdin/stdout as the io.ReadWriteCloser a
// --raw/--tror Renderer streams its wire protocol over: the natural
// transport for TRoR, historically a subprocess piped to a display
// client, not a flag-specified network address.
type stdioStream struct{}

func (stdioStream) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioStream) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioStream) Close() error                { return nil }
