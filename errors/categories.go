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

package errors

// sentinel reasons used by vfs/peripheral/config to build Path() errors and
// by callers doing Is()/Has() style matching against the curated message
// categories below.
const (
	ReasonNoSuchFile      = "No such file"
	ReasonAccessDenied    = "Access denied"
	ReasonNotADirectory   = "not a directory"
	ReasonIsADirectory    = "is a directory"
	ReasonTooManyOpen     = "Too many files open"
	ReasonClosedFile      = "attempt to use a closed file"
	ReasonMountExists     = "mount already exists"
	ReasonMountDisallowed = "mounting is disallowed"
	ReasonNoSuchMount     = "no such mount"
)

// message categories, used with Is()/Head() to classify a curated error
// without string-matching its fully formatted form.
const (
	CategoryScript        = "script error: %v"
	CategoryConfiguration = "configuration error: %v"
	CategoryPlugin        = "plugin error: %v"
	CategoryProtocol      = "protocol error: %v"
	CategoryFatal         = "fatal error: %v"
)
