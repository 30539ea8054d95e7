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

// Package taskqueue marshals host API calls (window creation, message
// boxes, clipboard) that must run on one thread to a single
// serialization point (§4.9). Any goroutine may Submit a job; the
// owner thread alone calls Drain in a loop to run them.
package taskqueue

import (
	"sync"
	"time"
)

// Job is the callable a submitter wants run on the owner thread.
type Job func(arg any) any

// DrainTimeout bounds how long an owner-thread loop should block in
// Drain waiting for work, matching the "renderer/main loop wakes on
// either a posted notification or a 5-second timeout" guarantee.
const DrainTimeout = 5 * time.Second

type ticket struct {
	job    Job
	arg    any
	async  bool
	result chan any
}

// Queue is the shared main-thread task queue. The zero value is not
// usable; use New.
type Queue struct {
	mu      sync.Mutex
	pending []ticket
	notify  chan struct{}
	stopped bool
	isOwner func() bool
}

// New creates a Queue. isOwner reports whether the calling goroutine
// is the designated owner thread; Submit inlines the job when isOwner
// returns true for the submitting goroutine.
func New(isOwner func() bool) *Queue {
	return &Queue{
		notify:  make(chan struct{}, 1),
		isOwner: isOwner,
	}
}

// Submit runs job on the owner thread. If the calling goroutine is
// already the owner, job runs inline and its result is returned
// immediately. Otherwise the job is appended to the queue with a
// fresh ticket.
//
// If async is false, Submit blocks until the owner thread has run the
// job and published its result, or until the queue is stopped (in
// which case it returns nil). If async is true, Submit returns
// immediately and the job's return value is discarded.
func (q *Queue) Submit(job Job, arg any, async bool) any {
	if q.isOwner != nil && q.isOwner() {
		return job(arg)
	}

	t := ticket{job: job, arg: arg, async: async}
	if !async {
		t.result = make(chan any, 1)
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}

	if async {
		return nil
	}

	v, ok := <-t.result
	if !ok {
		return nil
	}
	return v
}

// Drain is called by the owner thread. It blocks until there is
// pending work, the queue is stopped, or DrainTimeout elapses
// (whichever comes first), then runs every ticket queued at that
// point in submission order, publishing each synchronous ticket's
// result.
func (q *Queue) Drain() {
	select {
	case <-q.notify:
	case <-time.After(DrainTimeout):
	}

	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, t := range pending {
		v := t.job(t.arg)
		if !t.async {
			t.result <- v
			close(t.result)
		}
	}
}

// Stop marks the queue stopped and wakes every blocked synchronous
// Submit call with a nil result. Submissions after Stop return nil
// immediately without running their job.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, t := range pending {
		if !t.async {
			close(t.result)
		}
	}

	select {
	case q.notify <- struct{}{}:
	default:
	}
}
