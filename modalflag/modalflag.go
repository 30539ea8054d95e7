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

// Package modalflag wraps the standard flag package with two things
// cmd/craftos needs that flag.FlagSet doesn't give for free: an
// optional chain of named sub-modes (unused by craftos's flat command
// line, but kept for a front-end that wants one), and a -help/-h that
// is recognised before Parse fails on an unrecognised flag rather than
// after.
package modalflag

import (
	"flag"
	"fmt"
	"io"
)

// ParseResult reports what Parse decided to do with argv.
type ParseResult int

const (
	// ParseContinue means flags were parsed successfully and the
	// caller should proceed using RemainingArgs/Mode.
	ParseContinue ParseResult = iota
	// ParseHelp means -help was seen; a usage message has already
	// been written to Output and the caller should exit cleanly
	// without doing anything else.
	ParseHelp
)

// Modes parses one level of flags, optionally followed by a sub-mode
// name consuming the rest of argv. Modes with no sub-modes registered
// behaves like a bare flag.FlagSet.
type Modes struct {
	Output io.Writer

	args     []string
	flagSet  flagSet
	numFlags int
	modes    []string
	mode     string
	path     string
}

// flagSet is the subset of *flag.FlagSet Modes drives; defined as an
// interface so tests can swap in a fake instead of a real flag.FlagSet.
type flagSet interface {
	BoolVar(p *bool, name string, value bool, usage string)
	StringVar(p *string, name string, value string, usage string)
	IntVar(p *int, name string, value int, usage string)
	Var(value flag.Value, name string, usage string)
	Parse(args []string) error
	Args() []string
	PrintDefaults()
}

// NewArgs resets Modes with a fresh argument list (not including the
// program name) and no flags registered yet.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.flagSet = newStdFlagSet(md.Output)
	md.numFlags = 0
	md.modes = nil
	md.mode = ""
	md.path = ""
}

// AddBool registers a bool flag on the current flag set, the same way
// (*flag.FlagSet).BoolVar does, and returns a pointer Parse fills in.
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	md.ensureFlagSet()
	p := new(bool)
	md.flagSet.BoolVar(p, name, value, usage)
	md.numFlags++
	return p
}

// AddString registers a string flag.
func (md *Modes) AddString(name string, value string, usage string) *string {
	md.ensureFlagSet()
	p := new(string)
	md.flagSet.StringVar(p, name, value, usage)
	md.numFlags++
	return p
}

// AddInt registers an int flag.
func (md *Modes) AddInt(name string, value int, usage string) *int {
	md.ensureFlagSet()
	p := new(int)
	md.flagSet.IntVar(p, name, value, usage)
	md.numFlags++
	return p
}

// Var registers a custom flag.Value (e.g. a repeatable string-slice
// flag), the same way (*flag.FlagSet).Var does.
func (md *Modes) Var(value flag.Value, name string, usage string) {
	md.ensureFlagSet()
	md.flagSet.Var(value, name, usage)
	md.numFlags++
}

// AddSubModes declares the names Parse will accept as the first
// RemainingArgs entry after flags. The first name is the default used
// when no sub-mode is named on the command line.
func (md *Modes) AddSubModes(names ...string) {
	md.modes = append(md.modes, names...)
}

func (md *Modes) ensureFlagSet() {
	if md.flagSet == nil {
		md.flagSet = newStdFlagSet(md.Output)
	}
}

// Parse consumes the registered flags from the argument list handed
// to NewArgs, then, if any sub-modes were declared, consumes one more
// argument naming the chosen mode (defaulting to the first declared
// name if none is given).
func (md *Modes) Parse() (ParseResult, error) {
	md.ensureFlagSet()

	for _, a := range md.args {
		if a == "-help" || a == "--help" || a == "-h" || a == "--h" {
			md.printHelp()
			return ParseHelp, nil
		}
	}

	if err := md.flagSet.Parse(md.args); err != nil {
		return ParseContinue, err
	}

	remaining := md.flagSet.Args()
	if len(md.modes) == 0 {
		md.args = remaining
		return ParseContinue, nil
	}

	chosen := md.modes[0]
	if len(remaining) > 0 {
		chosen = remaining[0]
		remaining = remaining[1:]
	}

	found := false
	for _, m := range md.modes {
		if m == chosen {
			found = true
			break
		}
	}
	if !found {
		return ParseContinue, fmt.Errorf("modalflag: unknown mode %q", chosen)
	}

	md.mode = chosen
	md.path = chosen
	md.args = remaining
	return ParseContinue, nil
}

func (md *Modes) printHelp() {
	if md.Output == nil {
		return
	}

	hasFlags := md.numFlags > 0
	if !hasFlags && len(md.modes) == 0 {
		fmt.Fprint(md.Output, "No help available\n")
		return
	}

	fmt.Fprint(md.Output, "Usage:\n")
	if hasFlags {
		md.flagSet.PrintDefaults()
	}
	if len(md.modes) > 0 {
		if hasFlags {
			fmt.Fprint(md.Output, "\n")
		}
		fmt.Fprintf(md.Output, "  available sub-modes: %s\n", joinModes(md.modes))
		fmt.Fprintf(md.Output, "    default: %s\n", md.modes[0])
	}
}

func joinModes(modes []string) string {
	s := ""
	for i, m := range modes {
		if i > 0 {
			s += ", "
		}
		s += m
	}
	return s
}

// Mode returns the sub-mode Parse chose, or "" if none were declared.
func (md *Modes) Mode() string {
	return md.mode
}

// Path returns the full sub-mode path chosen by Parse (a single
// segment today; kept distinct from Mode for a future nested-mode
// front-end).
func (md *Modes) Path() string {
	return md.path
}

// RemainingArgs returns whatever argv was left after flags (and, if
// declared, a sub-mode name) were consumed.
func (md *Modes) RemainingArgs() []string {
	return md.args
}

// newStdFlagSet builds the real flag.FlagSet Modes drives day to day;
// ContinueOnError so a bad flag surfaces as Parse's return error
// instead of an os.Exit.
func newStdFlagSet(w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	if w != nil {
		fs.SetOutput(w)
	}
	return fs
}
