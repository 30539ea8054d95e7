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

// Package vm is one computer's scripting session (§4.2): a state
// machine (Idle/Booting/Running/Terminating/Error/Stopped) running a
// guest Program as a cooperative coroutine, with an abort timer
// enforced the way the teacher's CPU enforces a cycle budget — a hook
// checked at every step rather than pre-emption.
package vm

import (
	"fmt"
	"sync"
	"time"
)

// State is a session's position in the §4.2 lifecycle.
type State int

const (
	Idle State = iota
	Booting
	Running
	Terminating
	Error
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Booting:
		return "booting"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Error:
		return "error"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Program is the guest script. Step runs until the guest yields (ok
// true, returning the event-name filter it wants next, "" for any
// event) or finishes (ok false). Step must call hook before executing
// each guest-visible operation; hook returning a non-nil error aborts
// the step immediately with that error, mirroring the abort-timer
// instruction hook (§4.2).
type Program interface {
	Step(hook func() error, event any) (filter string, ok bool, err error)
}

// AbortError is returned by Session.Resume when the abort timer fired
// mid-step.
type AbortError struct {
	Timeout time.Duration
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("vm: script exceeded its %s execution budget", e.Timeout)
}

// Session drives one Program through the lifecycle, enforcing an
// abort timeout on every Resume.
type Session struct {
	mu           sync.Mutex
	state        State
	program      Program
	abortTimeout time.Duration

	aborted  bool
	aborting *time.Timer
}

// New creates a Session in the Idle state.
func New(abortTimeout time.Duration) *Session {
	return &Session{state: Idle, abortTimeout: abortTimeout}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Boot transitions Idle/Booting/Error/Stopped → Booting and installs
// program as the coroutine that Resume will drive. Booting does not
// itself run any guest code; the caller loads the BIOS resource and
// calls Resume to begin. Booting is itself an accepted starting state
// so that Reboot (which clears the program and re-enters Booting
// without one) can be followed by a fresh Boot call.
func (s *Session) Boot(program Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Idle, Booting, Error, Stopped:
	default:
		return fmt.Errorf("vm: cannot boot a session in state %s", s.state)
	}
	s.program = program
	s.state = Booting
	s.aborted = false
	return nil
}

// Resume runs the guest program forward from Booting (or a Running
// session that last yielded) into Running, arming the abort timer first. It returns the event-name
// filter the guest wants next and whether it yielded (ok) rather than
// finished or errored.
func (s *Session) Resume(event any) (filter string, ok bool, err error) {
	s.mu.Lock()
	if s.state != Booting && s.state != Running {
		s.mu.Unlock()
		return "", false, fmt.Errorf("vm: cannot resume a session in state %s", s.state)
	}
	s.state = Running
	s.aborted = false
	timer := time.AfterFunc(s.abortTimeout, func() {
		s.mu.Lock()
		s.aborted = true
		s.mu.Unlock()
	})
	s.aborting = timer
	program := s.program
	timeout := s.abortTimeout
	s.mu.Unlock()

	hook := func() error {
		s.mu.Lock()
		fired := s.aborted
		s.mu.Unlock()
		if fired {
			return &AbortError{Timeout: timeout}
		}
		return nil
	}

	filter, ok, err = program.Step(hook, event)

	timer.Stop()

	switch {
	case err != nil:
		s.setState(Terminating)
	case !ok:
		s.setState(Stopped)
	default:
		s.setState(Running)
	}
	return filter, ok, err
}

// Fail transitions the session directly to Error, used when loading
// the BIOS resource itself fails before any Resume is possible.
func (s *Session) Fail() {
	s.setState(Error)
}

// Terminate moves a Terminating/Error session to Stopped once its
// de-init hooks have run, releasing the program reference.
func (s *Session) Terminate() {
	s.mu.Lock()
	s.program = nil
	s.state = Stopped
	s.mu.Unlock()
}

// Reboot moves a Running/Terminating/Error session back to Booting
// with its program cleared (a fresh Boot installs the next one), for
// the in-script `os.reboot()` path (§4.2: "on
// reboot, the VM is torn down and re-created with the same identity").
func (s *Session) Reboot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Running, Terminating, Error:
	default:
		return fmt.Errorf("vm: cannot reboot a session in state %s", s.state)
	}
	s.program = nil
	s.state = Booting
	s.aborted = false
	return nil
}
