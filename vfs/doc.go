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

// Package vfs is a per-computer virtual filesystem: sandbox path
// normalization, a mount table mapping logical prefixes onto host
// directories (longest-prefix match, read-only policy), single-segment
// wildcard matching helpers, and file handles over the resolved host
// paths.
//
// Nothing in this package trusts a path it's given; every entry point
// normalizes first, so ".."  can never walk a caller above the
// computer's own root.
package vfs
