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

package vm

import "fmt"

// Yield is called by guest code running inside a Coroutine's goroutine
// to hand control back to the host and receive the next event. filter
// is the event name the guest wants next ("" for any).
type Yield func(filter string) (event any)

// Coroutine adapts an ordinary Go function into a Program by running
// it on its own goroutine and rendezvousing with Step over a pair of
// unbuffered channels — the same one-goroutine-per-guest shape the
// library package's host API bindings run inside, generalizing the
// teacher's single-goroutine CPU stepping loop to a script that can
// itself suspend mid-operation (a library call blocking on the task
// queue, not just a fixed instruction boundary).
type Coroutine struct {
	run func(yield Yield) error

	toGuest   chan any
	fromGuest chan yieldRequest
	done      chan error
	started   bool
	finished  bool
}

type yieldRequest struct {
	filter string
}

// NewCoroutine wraps run, the guest entry point. run calls the yield
// function it's given every time it wants to suspend for the next
// event.
func NewCoroutine(run func(yield Yield) error) *Coroutine {
	return &Coroutine{
		run:       run,
		toGuest:   make(chan any),
		fromGuest: make(chan yieldRequest),
		done:      make(chan error, 1),
	}
}

// Step implements Program. The first call starts the goroutine; event
// is ignored on that call since there is nothing yet to deliver it to.
// Subsequent calls deliver event to whichever Yield call is blocked
// and wait for the guest's next yield or return.
func (c *Coroutine) Step(hook func() error, event any) (filter string, ok bool, err error) {
	if c.finished {
		return "", false, fmt.Errorf("vm: coroutine already finished")
	}

	if !c.started {
		c.started = true
		go func() {
			c.done <- c.run(c.yield)
		}()
	} else {
		c.toGuest <- event
	}

	select {
	case req := <-c.fromGuest:
		if err := hook(); err != nil {
			return "", false, err
		}
		return req.filter, true, nil
	case err := <-c.done:
		c.finished = true
		return "", false, err
	}
}

// yield is the Yield function handed to run.
func (c *Coroutine) yield(filter string) any {
	c.fromGuest <- yieldRequest{filter: filter}
	return <-c.toGuest
}
