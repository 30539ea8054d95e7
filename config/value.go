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

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is whatever a Setting.Set() call is given: a native Go type from
// a library/flag caller, or a string when the value is coming back off
// disk.
type Value = interface{}

// Setting is the common interface every typed config value implements, so
// a Disk can store them generically.
type Setting interface {
	Set(Value) error
	String() string
}

// Bool is a Setting backed by a boolean. Setting it from a string that
// doesn't parse as a bool is not an error; the value is simply left/set
// false, mirroring how a blank or garbled on-disk value shouldn't
// prevent the rest of the file loading.
type Bool bool

func (b *Bool) Set(v Value) error {
	switch t := v.(type) {
	case bool:
		*b = Bool(t)
	case string:
		x, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			*b = false
			return nil
		}
		*b = Bool(x)
	default:
		return fmt.Errorf("config: cannot set Bool from %T", v)
	}
	return nil
}

func (b *Bool) String() string { return strconv.FormatBool(bool(*b)) }

// Int is a Setting backed by an integer.
type Int int

func (i *Int) Set(v Value) error {
	switch t := v.(type) {
	case int:
		*i = Int(t)
	case string:
		x, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return err
		}
		*i = Int(x)
	default:
		return fmt.Errorf("config: cannot set Int from %T", v)
	}
	return nil
}

func (i *Int) String() string { return strconv.Itoa(int(*i)) }

// Float is a Setting backed by a float64.
type Float float64

func (f *Float) Set(v Value) error {
	switch t := v.(type) {
	case float64:
		*f = Float(t)
	case float32:
		*f = Float(t)
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return err
		}
		*f = Float(x)
	default:
		return fmt.Errorf("config: cannot set Float from %T", v)
	}
	return nil
}

func (f *Float) String() string { return strconv.FormatFloat(float64(*f), 'g', -1, 64) }

// String is a Setting backed by a string, with an optional maximum
// length. A zero maxLen means unlimited.
type String struct {
	val    string
	maxLen int
}

func (s *String) Set(v Value) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("config: cannot set String from %T", v)
	}
	if s.maxLen > 0 && len(str) > s.maxLen {
		str = str[:s.maxLen]
	}
	s.val = str
	return nil
}

// SetMaxLen imposes a maximum length, cropping the current value
// immediately if it's too long. A value of zero removes the limit but
// does not restore anything already cropped.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	if n > 0 && len(s.val) > n {
		s.val = s.val[:n]
	}
}

func (s *String) String() string { return s.val }

// Generic adapts an arbitrary pair of accessor functions to the Setting
// interface, for values that don't fit Bool/Int/Float/String (e.g. a
// packed "w,h" window geometry).
type Generic struct {
	set func(Value) error
	get func() Value
}

// NewGeneric is the preferred method of initialisation for the Generic
// type.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{set: set, get: get}
}

func (g *Generic) Set(v Value) error { return g.set(v) }

func (g *Generic) String() string { return fmt.Sprintf("%v", g.get()) }
