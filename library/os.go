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

package library

import (
	"fmt"
	"time"

	"github.com/block16/craftos-go/eventqueue"
	"github.com/block16/craftos-go/timer"
)

// OSConfig wires the "os" namespace to one computer's identity and
// mutable state. GetLabel/SetLabel round-trip through the owning
// computer's per-computer config; Shutdown/Reboot request a lifecycle
// transition (the actual teardown runs on the supervisor's own
// goroutine, per §4.2).
type OSConfig struct {
	ComputerID int
	GetLabel   func() string
	SetLabel   func(string)
	Queue      *eventqueue.Queue
	Timers     *timer.Manager
	Shutdown   func()
	Reboot     func()
	About      string

	// SetReturnValue records the process exit code a headless run
	// reports once every computer has shut down (§6: "the exit code is
	// the returnValue set by os.shutdown"). May be nil if the host
	// doesn't surface one (interactive front-ends ignore it).
	SetReturnValue func(code int)
}

// OS builds the "os" namespace (§3, supplemented by original_source's
// os.cpp key table: getComputerID, getComputerLabel,
// setComputerLabel, queueEvent, startTimer, cancelTimer, setAlarm,
// cancelAlarm, shutdown, reboot, about, plus the epoch/date additions
// from §5's SUPPLEMENTED FEATURES).
func OS(cfg OSConfig) Namespace {
	return Namespace{
		"getComputerID": func(args []any) ([]any, error) {
			return []any{cfg.ComputerID}, nil
		},
		"getComputerLabel": func(args []any) ([]any, error) {
			label := cfg.GetLabel()
			if label == "" {
				return []any{nil}, nil
			}
			return []any{label}, nil
		},
		"setComputerLabel": func(args []any) ([]any, error) {
			label := optString(args, 0, "")
			cfg.SetLabel(label)
			return nil, nil
		},
		"queueEvent": func(args []any) ([]any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			cfg.Queue.PushWait(name, args[1:]...)
			return nil, nil
		},
		"startTimer": func(args []any) ([]any, error) {
			seconds, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}
			id := cfg.Timers.StartTimer(time.Duration(seconds * float64(time.Second)))
			return []any{id}, nil
		},
		"cancelTimer": func(args []any) ([]any, error) {
			id, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			cfg.Timers.CancelTimer(id)
			return nil, nil
		},
		"setAlarm": func(args []any) ([]any, error) {
			hour, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}
			if hour < 0 || hour >= 24 {
				return []any{nil}, nil
			}
			return []any{cfg.Timers.SetAlarm(hour)}, nil
		},
		"cancelAlarm": func(args []any) ([]any, error) {
			id, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			cfg.Timers.CancelAlarm(id)
			return nil, nil
		},
		"shutdown": func(args []any) ([]any, error) {
			if len(args) > 0 && cfg.SetReturnValue != nil {
				if code, err := argInt(args, 0); err == nil {
					cfg.SetReturnValue(code)
				}
			}
			if cfg.Shutdown != nil {
				cfg.Shutdown()
			}
			return nil, nil
		},
		"reboot": func(args []any) ([]any, error) {
			if cfg.Reboot != nil {
				cfg.Reboot()
			}
			return nil, nil
		},
		"about": func(args []any) ([]any, error) {
			return []any{cfg.About}, nil
		},
		"clock": func(args []any) ([]any, error) {
			return []any{time.Now().Sub(processStart).Seconds()}, nil
		},
		"time": func(args []any) ([]any, error) {
			format := optString(args, 0, "ingame")
			now := time.Now()
			switch format {
			case "utc":
				return []any{fractionalHour(now.UTC())}, nil
			case "local":
				return []any{fractionalHour(now)}, nil
			case "ingame":
				return []any{fractionalHour(now)}, nil
			default:
				return nil, fmt.Errorf("library: os.time: unknown format %q", format)
			}
		},
		"day": func(args []any) ([]any, error) {
			return []any{int(time.Now().Unix() / 86400)}, nil
		},
		"epoch": func(args []any) ([]any, error) {
			format := optString(args, 0, "ingame")
			now := time.Now()
			switch format {
			case "utc":
				return []any{now.UTC().UnixMilli()}, nil
			case "local":
				return []any{now.UnixMilli()}, nil
			case "ingame":
				return []any{timer.InGameEpoch(now)}, nil
			default:
				return nil, fmt.Errorf("library: os.epoch: unknown format %q", format)
			}
		},
		"date": func(args []any) ([]any, error) {
			format := optString(args, 0, "%c")
			return []any{strftime(format, time.Now())}, nil
		},
	}
}

var processStart = time.Now()

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// strftime supports the handful of conversions the guest-visible
// os.date actually needs; anything else is passed through literally.
func strftime(format string, t time.Time) string {
	out := make([]byte, 0, len(format))
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			out = append(out, format[i])
			continue
		}
		i++
		switch format[i] {
		case 'c':
			out = append(out, t.Format("Mon Jan  2 15:04:05 2006")...)
		case 'Y':
			out = append(out, t.Format("2006")...)
		case 'm':
			out = append(out, t.Format("01")...)
		case 'd':
			out = append(out, t.Format("02")...)
		case 'H':
			out = append(out, t.Format("15")...)
		case 'M':
			out = append(out, t.Format("04")...)
		case 'S':
			out = append(out, t.Format("05")...)
		case '%':
			out = append(out, '%')
		default:
			out = append(out, '%', format[i])
		}
	}
	return string(out)
}
