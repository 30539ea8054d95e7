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

// Bit builds the "bit" namespace: 32-bit bitwise operators over the
// guest's double-precision numbers, truncated to uint32 the way the
// original's bit32-style library does.
func Bit() Namespace {
	unary := func(f func(uint32) uint32) Function {
		return func(args []any) ([]any, error) {
			a, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			return []any{int(f(uint32(a)))}, nil
		}
	}
	binary := func(f func(uint32, uint32) uint32) Function {
		return func(args []any) ([]any, error) {
			a, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			b, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			return []any{int(f(uint32(a), uint32(b)))}, nil
		}
	}

	return Namespace{
		"band":  binary(func(a, b uint32) uint32 { return a & b }),
		"bor":   binary(func(a, b uint32) uint32 { return a | b }),
		"bxor":  binary(func(a, b uint32) uint32 { return a ^ b }),
		"bnot":  unary(func(a uint32) uint32 { return ^a }),
		"blshift": binary(func(a, n uint32) uint32 { return a << (n & 31) }),
		"brshift": binary(func(a, n uint32) uint32 { return a >> (n & 31) }),
		"barshift": binary(func(a, n uint32) uint32 {
			return uint32(int32(a) >> (n & 31))
		}),
	}
}
