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

package library_test

import (
	"testing"

	"github.com/block16/craftos-go/config"
	"github.com/block16/craftos-go/eventqueue"
	"github.com/block16/craftos-go/library"
	"github.com/block16/craftos-go/peripheral"
	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/test"
	"github.com/block16/craftos-go/timer"
	"github.com/block16/craftos-go/vfs"
)

func TestSurfaceCallUnknownNamespace(t *testing.T) {
	s := library.Surface{}
	_, err := s.Call("nope", "whatever", nil)
	test.ExpectFailure(t, err)
}

func TestTermWriteAndCursor(t *testing.T) {
	buf := terminal.NewBuffer(10, 5)
	ns := library.Term(buf)
	s := library.Surface{"term": ns}

	_, err := s.Call("term", "write", []any{"hi"})
	test.ExpectSuccess(t, err)

	results, err := s.Call("term", "getCursorPos", nil)
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 3)
	test.Equate(t, results[1], 1)
}

func TestTermSetGraphicsModeRejectsInvalid(t *testing.T) {
	buf := terminal.NewBuffer(10, 5)
	ns := library.Term(buf)
	s := library.Surface{"term": ns}

	_, err := s.Call("term", "setGraphicsMode", []any{3})
	test.ExpectFailure(t, err)
}

func TestTermDrawPixelsStringAndSequenceRows(t *testing.T) {
	buf := terminal.NewBuffer(10, 5)
	buf.SetGraphicsMode(2)
	ns := library.Term(buf)
	s := library.Surface{"term": ns}

	_, err := s.Call("term", "drawPixels", []any{0, 0, []any{"\x01\x02"}})
	test.ExpectSuccess(t, err)
	test.Equate(t, buf.GetPixel(0, 0), byte(1))
	test.Equate(t, buf.GetPixel(1, 0), byte(2))

	_, err = s.Call("term", "drawPixels", []any{0, 1, []any{[]any{3, 260}}})
	test.ExpectSuccess(t, err)
	test.Equate(t, buf.GetPixel(0, 1), byte(3))
	test.Equate(t, buf.GetPixel(1, 1), byte(260%256))

	_, err = s.Call("term", "drawPixels", []any{0, 0, []any{"not", "rows"}})
	test.ExpectSuccess(t, err)

	_, err = s.Call("term", "drawPixels", []any{0, 0, "not-a-sequence"})
	test.ExpectFailure(t, err)
}

func TestBitOperators(t *testing.T) {
	s := library.Surface{"bit": library.Bit()}

	results, err := s.Call("bit", "band", []any{6, 3})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 2)

	results, err = s.Call("bit", "blshift", []any{1, 4})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 16)
}

func TestOSQueueEventAndTimer(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)
	label := "bench1"

	cfg := library.OSConfig{
		ComputerID: 1,
		GetLabel:   func() string { return label },
		SetLabel:   func(l string) { label = l },
		Queue:      q,
		Timers:     m,
		About:      "test build",
	}
	s := library.Surface{"os": library.OS(cfg)}

	results, err := s.Call("os", "getComputerID", nil)
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 1)

	_, err = s.Call("os", "setComputerLabel", []any{"newlabel"})
	test.ExpectSuccess(t, err)
	test.Equate(t, label, "newlabel")

	_, err = s.Call("os", "queueEvent", []any{"ping", 1})
	test.ExpectSuccess(t, err)
	test.Equate(t, q.Len(), 1)

	results, err = s.Call("os", "startTimer", []any{0.0})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 0)
}

func TestRedstoneSideValidation(t *testing.T) {
	lines := library.NewRedstoneLines()
	s := library.Surface{"redstone": library.Redstone(lines)}

	_, err := s.Call("redstone", "getInput", []any{"not-a-side"})
	test.ExpectFailure(t, err)

	_, err = s.Call("redstone", "setOutput", []any{"top", true})
	test.ExpectSuccess(t, err)

	lines.SetInput("top", true, 0)
	results, err := s.Call("redstone", "getInput", []any{"top"})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], true)
}

func TestConfigGetSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	disk, err := config.NewDisk(dir + "/test.json")
	test.ExpectSuccess(t, err)

	var isColor config.Bool
	test.ExpectSuccess(t, disk.Add("isColor", &isColor))

	s := library.Surface{"config": library.Config(disk, nil)}

	_, err = s.Call("config", "set", []any{"isColor", true})
	test.ExpectSuccess(t, err)

	results, err := s.Call("config", "get", []any{"isColor"})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], true)
}

func TestFSOpenWriteReadClose(t *testing.T) {
	dir := t.TempDir()
	table := vfs.NewTable(dir, false, vfs.PolicyRW, 0)
	ns := library.FS(table)
	s := library.Surface{"fs": ns}

	results, err := s.Call("fs", "open", []any{"/greeting.txt", "w"})
	test.ExpectSuccess(t, err)
	handle := results[0]

	_, err = s.Call("fs", "write", []any{handle, "hello"})
	test.ExpectSuccess(t, err)
	_, err = s.Call("fs", "close", []any{handle})
	test.ExpectSuccess(t, err)

	results, err = s.Call("fs", "open", []any{"/greeting.txt", "r"})
	test.ExpectSuccess(t, err)
	handle = results[0]

	results, err = s.Call("fs", "readAll", []any{handle})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], "hello")
}

func TestFSReadWithoutCountReturnsByteThenNilAtEOF(t *testing.T) {
	dir := t.TempDir()
	table := vfs.NewTable(dir, false, vfs.PolicyRW, 0)
	ns := library.FS(table)
	s := library.Surface{"fs": ns}

	results, err := s.Call("fs", "open", []any{"/data.bin", "wb"})
	test.ExpectSuccess(t, err)
	handle := results[0]
	_, err = s.Call("fs", "write", []any{handle, "\x41"})
	test.ExpectSuccess(t, err)
	_, err = s.Call("fs", "close", []any{handle})
	test.ExpectSuccess(t, err)

	results, err = s.Call("fs", "open", []any{"/data.bin", "rb"})
	test.ExpectSuccess(t, err)
	handle = results[0]

	results, err = s.Call("fs", "read", []any{handle})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], 0x41)

	results, err = s.Call("fs", "read", []any{handle})
	test.ExpectSuccess(t, err)
	test.Equate(t, len(results), 0)
}

func TestPeripheralCallRoundTrip(t *testing.T) {
	peripheral.Register("library-test-echo", func(computerID int, side string) (peripheral.Peripheral, error) {
		return &echoPeripheral{}, nil
	})

	registry := peripheral.NewRegistry(0)
	s := library.Surface{
		"periphemu":  library.Periphemu(registry, nil),
		"peripheral": library.Peripheral(registry),
	}

	_, err := s.Call("periphemu", "attach", []any{"left", "library-test-echo"})
	test.ExpectSuccess(t, err)

	results, err := s.Call("peripheral", "call", []any{"left", "echo", "hi"})
	test.ExpectSuccess(t, err)
	test.Equate(t, results[0], "hi")
}

type echoPeripheral struct{}

func (echoPeripheral) Methods() []string { return []string{"echo"} }

func (echoPeripheral) Call(method string, args []any) ([]any, error) {
	return args, nil
}

func (echoPeripheral) Detach() {}
