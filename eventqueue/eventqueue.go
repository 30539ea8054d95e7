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

// Package eventqueue is the per-computer event/argv FIFO (§4.3): the
// host input thread, the timer subsystem, peripheral drivers, and the
// VM's own queueEvent all push onto it; the VM worker's get_next_event
// pops from it, applying an optional name filter.
package eventqueue

import "sync"

// DefaultCapacity is the queue capacity for host-produced (renderer
// input) events; additional events are dropped once it's reached.
const DefaultCapacity = 25

// Event is one entry: a name plus whatever argv the producer attached.
type Event struct {
	Name string
	Args []interface{}
}

// Queue is a bounded, aligned FIFO of (name, argv) pairs.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	events   []Event
	capacity int
	stopped  bool
}

// New is the preferred method of initialisation for the Queue type.
// capacity <= 0 means unbounded.
func New(capacity int) *Queue {
	q := &Queue{capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues an event, dropping it silently if the queue is already
// at capacity. This is the variant used by producers that must never
// block: the host input thread, the timer subsystem, peripheral
// drivers. A "die" event additionally synthesizes a "terminate" event
// immediately after it, bypassing the capacity check — shutdown always
// gets through.
func (q *Queue) Push(name string, args ...interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return
	}
	if q.capacity <= 0 || len(q.events) < q.capacity {
		q.events = append(q.events, Event{Name: name, Args: args})
	}
	if name == "die" {
		q.events = append(q.events, Event{Name: "terminate"})
	}
	q.cond.Broadcast()
}

// PushWait enqueues an event, blocking until the queue has room. This
// is the variant used by in-VM queueEvent, which yields rather than
// drops. Returns immediately, without enqueuing, if the queue has been
// stopped while waiting.
func (q *Queue) PushWait(name string, args ...interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.events) >= q.capacity && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped {
		return
	}
	q.events = append(q.events, Event{Name: name, Args: args})
	q.cond.Broadcast()
}

// GetNextEvent blocks until an event matching filter ("" matches
// anything) is available, discarding any non-matching events (and
// their argv) it passes over. "terminate" always matches regardless of
// filter. ok is false only once the queue has been stopped and
// drained — the caller's cue to observe that it is no longer running.
func (q *Queue) GetNextEvent(filter string) (event Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for len(q.events) > 0 {
			e := q.events[0]
			q.events = q.events[1:]
			q.cond.Broadcast()

			if filter == "" || e.Name == filter || e.Name == "terminate" {
				return e, true
			}
			// non-matching: discarded along with its argv, keep looking
		}
		if q.stopped {
			return Event{}, false
		}
		q.cond.Wait()
	}
}

// Stop drains the queue and wakes every blocked producer/consumer.
// Consumers waiting in GetNextEvent return ok == false; producers
// waiting in PushWait return without enqueuing.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopped = true
	q.events = nil
	q.cond.Broadcast()
}

// Len reports the number of events currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
