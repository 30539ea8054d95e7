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

package cli_test

import (
	"bytes"
	"encoding/gob"
	"net"
	"os"
	"testing"
	"time"

	"github.com/block16/craftos-go/protocol"
	"github.com/block16/craftos-go/render/cli"
	"github.com/block16/craftos-go/terminal"
	"github.com/block16/craftos-go/test"
)

func TestNewLocalFailsOnNonTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	test.ExpectSuccess(t, err)
	defer f.Close()

	_, err = cli.NewLocal(f, f)
	test.ExpectFailure(t, err)
}

func TestTRoRResizeSendsAck(t *testing.T) {
	server, client := net.Pipe()
	r := cli.NewTRoR(server)
	defer r.Close()

	buf := terminal.NewBuffer(5, 2)
	go buf.RequestResize(10, 4)
	for {
		if _, _, pending := buf.PendingResize(); pending {
			break
		}
	}

	go r.Resize(buf)

	dec := protocol.NewDecoder(client)
	msg, ok, err := dec.Next()
	test.ExpectSuccess(t, err)
	test.Equate(t, ok, true)
	test.Equate(t, msg, protocol.NewResize(10, 4))
}

func TestTRoRShowMessageSendsTA(t *testing.T) {
	server, client := net.Pipe()
	r := cli.NewTRoR(server)
	defer r.Close()

	go r.ShowMessage("bios error", "could not load bios.lua")

	dec := protocol.NewDecoder(client)
	msg, ok, err := dec.Next()
	test.ExpectSuccess(t, err)
	test.Equate(t, ok, true)
	test.Equate(t, msg, protocol.Message{Code: "TA", Meta: "bios error", Payload: "could not load bios.lua"})
}

func TestTRoREventsChannelReceivesIncoming(t *testing.T) {
	server, client := net.Pipe()
	r := cli.NewTRoR(server)
	defer r.Close()

	enc := protocol.NewEncoder(client)
	go enc.Encode(protocol.NewEvent("key", "65", "false"))

	select {
	case msg := <-r.Events():
		test.Equate(t, msg, protocol.NewEvent("key", "65", "false"))
	case <-time.After(time.Second):
		t.Fatal("expected an incoming event within a second")
	}
}

func TestRawRenderSendsFramedSnapshot(t *testing.T) {
	server, client := net.Pipe()
	r := cli.NewRaw(server)
	defer r.Close()

	buf := terminal.NewBuffer(5, 2)
	buf.Write("hi")

	go r.Render(buf)

	rr := protocol.NewRawReader(client)
	payload, err := rr.ReadFrame()
	test.ExpectSuccess(t, err)

	var snap terminal.Snapshot
	test.ExpectSuccess(t, gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap))
	test.Equate(t, string(snap.Screen[0:2]), "hi")
}
