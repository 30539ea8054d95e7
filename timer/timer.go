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

// Package timer is the per-computer timer/alarm subsystem (§4.4):
// one-shot timers that enqueue a "timer" event after a delay, and
// in-game alarms that fire on a wall-clock hour match.
package timer

import (
	"sync"
	"time"

	"github.com/block16/craftos-go/eventqueue"
)

// StandardsModeStep is the rounding granularity applied to timer
// delays when standards mode is enabled.
const StandardsModeStep = 50 * time.Millisecond

// InGameEpochStep is the granularity the in-game epoch clock snaps to;
// a guest cannot observe wall-clock precision finer than this.
const InGameEpochStep = 200 * time.Millisecond

type alarmSlot struct {
	hour       float64
	tombstoned bool
}

// Manager owns one computer's one-shot timers and in-game alarms,
// pushing "timer"/"alarm" events onto queue as they fire.
type Manager struct {
	queue     *eventqueue.Queue
	standards bool

	mu     sync.Mutex
	nextID int
	freed  map[int]bool
	timers map[int]*time.Timer
	alarms []alarmSlot
}

// NewManager is the preferred method of initialisation for the Manager
// type.
func NewManager(queue *eventqueue.Queue, standardsMode bool) *Manager {
	return &Manager{
		queue:     queue,
		standards: standardsMode,
		freed:     make(map[int]bool),
		timers:    make(map[int]*time.Timer),
	}
}

// StartTimer schedules a one-shot "timer" event after delay and returns
// its id. delay <= 0 enqueues the event immediately. In standards mode
// the delay is rounded up to the next multiple of StandardsModeStep.
func (m *Manager) StartTimer(delay time.Duration) int {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.mu.Unlock()

	if delay <= 0 {
		m.queue.Push("timer", id)
		return id
	}

	if m.standards {
		delay = roundUp(delay, StandardsModeStep)
	}

	t := time.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		wasFreed := m.freed[id]
		delete(m.freed, id)
		delete(m.timers, id)

		if !wasFreed {
			m.queue.Push("timer", id)
		}
	})

	m.mu.Lock()
	m.timers[id] = t
	m.mu.Unlock()

	return id
}

func roundUp(d, step time.Duration) time.Duration {
	if d%step == 0 {
		return d
	}
	return (d/step + 1) * step
}

// CancelTimer is idempotent. If the timer's callback is already
// running, CancelTimer marks its id freed under the same mutex the
// callback checks before pushing its event, so a race never delivers a
// "timer" event after CancelTimer has returned.
func (m *Manager) CancelTimer(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[id]
	if !ok {
		return
	}
	if t.Stop() {
		delete(m.timers, id)
		return
	}
	// already fired or mid-callback: tell it to discard its event
	m.freed[id] = true
}

// SetAlarm appends hour (0..24, fractional) to the alarm vector and
// returns its index. Interior tombstoned slots are never reused, only
// ever left for compactTrailing to reclaim once they reach the end.
func (m *Manager) SetAlarm(hour float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alarms = append(m.alarms, alarmSlot{hour: hour})
	return len(m.alarms) - 1
}

// CancelAlarm tombstones the slot at id. Trailing tombstones are
// compacted off the end of the vector immediately.
func (m *Manager) CancelAlarm(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 0 || id >= len(m.alarms) {
		return
	}
	m.alarms[id].tombstoned = true
	m.compactTrailing()
}

func (m *Manager) compactTrailing() {
	for len(m.alarms) > 0 && m.alarms[len(m.alarms)-1].tombstoned {
		m.alarms = m.alarms[:len(m.alarms)-1]
	}
}

// PollAlarms is called by the VM's poll loop on every wake. For every
// live alarm whose target hour matches now, it pushes an "alarm" event
// carrying the alarm's index and tombstones the slot.
func (m *Manager) PollAlarms(now time.Time) {
	target := float64(now.Hour()) + float64(now.Minute())/60 + float64(now.Second())/3600

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.alarms {
		if m.alarms[i].tombstoned {
			continue
		}
		if m.alarms[i].hour == target {
			m.queue.Push("alarm", i)
			m.alarms[i].tombstoned = true
		}
	}
	m.compactTrailing()
}

// InGameEpoch returns real's Unix milliseconds snapped down to the
// nearest InGameEpochStep, the precision a guest's os.epoch("ingame")
// is allowed to observe.
func InGameEpoch(real time.Time) int64 {
	ms := real.UnixMilli()
	step := InGameEpochStep.Milliseconds()
	return ms - (ms % step)
}
