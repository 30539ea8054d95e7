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

package peripheral

import "fmt"

// ComputerLookup resolves a computer id to the peripheral-callable
// surface another computer exposes of itself. The supervisor registry
// satisfies this; peripheral stays decoupled from it to avoid an
// import cycle.
type ComputerLookup func(id int) (ComputerPeer, bool)

// ComputerPeer is the slice of a computer's behaviour a computer
// peripheral may call into: queuing an event on the target and
// reading back its current label.
type ComputerPeer interface {
	QueueEvent(name string, args []any)
	Label() string
	IsOn() bool
}

// ComputerPeripheral is the "computer peripheral": it addresses
// another computer by numeric id only, resolving through lookup on
// every call rather than holding a live pointer. Per the weak-handle
// redesign, there is no back-reference list on the target to keep in
// sync and nothing to clean up when the target is destroyed; a call
// against a gone id simply fails.
type ComputerPeripheral struct {
	targetID int
	lookup   ComputerLookup
}

// NewComputerPeripheral returns a factory suitable for Register,
// binding targetID and the lookup function the supervisor provides.
func NewComputerPeripheral(targetID int, lookup ComputerLookup) Factory {
	return func(computerID int, side string) (Peripheral, error) {
		return &ComputerPeripheral{targetID: targetID, lookup: lookup}, nil
	}
}

// AttachComputer installs a computer peripheral on side targeting
// targetID directly, bypassing the name->Factory table: unlike a
// plug-in type, the target id is chosen per attach call by the
// calling script (periphemu.attach(side, "computer", targetID)), not
// fixed at registration time.
func (r *Registry) AttachComputer(side string, targetID int, lookup ComputerLookup) (Peripheral, error) {
	p := &ComputerPeripheral{targetID: targetID, lookup: lookup}

	r.mu.Lock()
	old := r.sides[side]
	r.sides[side] = p
	r.mu.Unlock()

	if old != nil {
		old.Detach()
	}
	return p, nil
}

// Methods lists the computer peripheral's callable surface.
func (c *ComputerPeripheral) Methods() []string {
	return []string{"getID", "isOn", "getLabel", "queueEvent"}
}

// Call resolves the target computer by id on every invocation; a
// target that no longer exists fails the call instead of leaving a
// dangling reference to clean up.
func (c *ComputerPeripheral) Call(method string, args []any) ([]any, error) {
	switch method {
	case "getID":
		return []any{c.targetID}, nil
	case "isOn":
		peer, ok := c.lookup(c.targetID)
		if !ok {
			return []any{false}, nil
		}
		return []any{peer.IsOn()}, nil
	case "getLabel":
		peer, ok := c.lookup(c.targetID)
		if !ok {
			return nil, fmt.Errorf("peripheral: computer %d no longer exists", c.targetID)
		}
		return []any{peer.Label()}, nil
	case "queueEvent":
		peer, ok := c.lookup(c.targetID)
		if !ok {
			return nil, fmt.Errorf("peripheral: computer %d no longer exists", c.targetID)
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("peripheral: queueEvent requires an event name")
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("peripheral: queueEvent: first argument must be a string")
		}
		peer.QueueEvent(name, args[1:])
		return nil, nil
	default:
		return nil, fmt.Errorf("peripheral: computer peripheral has no method %q", method)
	}
}

// Detach is a no-op: a computer peripheral holds only a numeric id
// and a lookup closure, nothing that needs releasing.
func (c *ComputerPeripheral) Detach() {}
