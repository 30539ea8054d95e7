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

package timer_test

import (
	"testing"
	"time"

	"github.com/block16/craftos-go/eventqueue"
	"github.com/block16/craftos-go/test"
	"github.com/block16/craftos-go/timer"
)

func TestStartTimerImmediateOnNonPositiveDelay(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)

	id := m.StartTimer(0)
	e, ok := q.GetNextEvent("timer")
	test.ExpectSuccess(t, ok)
	test.Equate(t, e.Name, "timer")
	test.Equate(t, e.Args[0], id)
}

func TestStartTimerFiresAfterDelay(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)

	m.StartTimer(20 * time.Millisecond)

	done := make(chan bool, 1)
	go func() {
		_, ok := q.GetNextEvent("timer")
		done <- ok
	}()

	select {
	case ok := <-done:
		test.ExpectSuccess(t, ok)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestCancelTimerPreventsDelivery(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)

	id := m.StartTimer(50 * time.Millisecond)
	m.CancelTimer(id)

	time.Sleep(100 * time.Millisecond)
	test.Equate(t, q.Len(), 0)

	// cancelling again, or cancelling an unknown id, is a no-op
	m.CancelTimer(id)
	m.CancelTimer(99999)
}

func TestSetAndCancelAlarm(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)

	id := m.SetAlarm(6.5)
	test.Equate(t, id, 0)

	now := time.Date(2026, 1, 1, 6, 30, 0, 0, time.UTC)
	m.PollAlarms(now)

	e, ok := q.GetNextEvent("alarm")
	test.ExpectSuccess(t, ok)
	test.Equate(t, e.Args[0], 0)

	// the slot was tombstoned and compacted on delivery, so a fresh
	// SetAlarm reuses index 0
	id2 := m.SetAlarm(12.0)
	test.Equate(t, id2, 0)

	m.CancelAlarm(id2)
	m.PollAlarms(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	test.Equate(t, q.Len(), 0)
}

func TestSetAlarmNeverReusesInteriorTombstone(t *testing.T) {
	q := eventqueue.New(eventqueue.DefaultCapacity)
	m := timer.NewManager(q, false)

	a := m.SetAlarm(1.0)
	b := m.SetAlarm(2.0)
	test.Equate(t, a, 0)
	test.Equate(t, b, 1)

	// a is tombstoned but not trailing: b is still live, so nothing is
	// compacted. A fresh SetAlarm must not alias a's old slot.
	m.CancelAlarm(a)

	c := m.SetAlarm(3.0)
	test.Equate(t, c, 2)

	m.PollAlarms(time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC))
	e, ok := q.GetNextEvent("alarm")
	test.ExpectSuccess(t, ok)
	test.Equate(t, e.Args[0], b)
}

func TestInGameEpochSnapsToStep(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := timer.InGameEpoch(base.Add(90 * time.Millisecond))
	b := timer.InGameEpoch(base.Add(150 * time.Millisecond))
	test.Equate(t, a, b)

	c := timer.InGameEpoch(base.Add(250 * time.Millisecond))
	test.ExpectFailure(t, a == c)
}
