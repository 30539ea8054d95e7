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

	"github.com/block16/craftos-go/terminal"
)

// Term builds the "term" namespace (§4.7) around buf.
func Term(buf *terminal.Buffer) Namespace {
	return Namespace{
		"write": func(args []any) ([]any, error) {
			s, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			buf.Write(s)
			return nil, nil
		},
		"blit": func(args []any) ([]any, error) {
			text, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			fg, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			bg, err := argString(args, 2)
			if err != nil {
				return nil, err
			}
			buf.Blit(text, fg, bg)
			return nil, nil
		},
		"scroll": func(args []any) ([]any, error) {
			n, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			buf.Scroll(n)
			return nil, nil
		},
		"clear": func(args []any) ([]any, error) {
			buf.Clear()
			return nil, nil
		},
		"clearLine": func(args []any) ([]any, error) {
			buf.ClearLine()
			return nil, nil
		},
		"setCursorPos": func(args []any) ([]any, error) {
			x, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			y, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			buf.SetCursorPos(x-1, y-1)
			return nil, nil
		},
		"getCursorPos": func(args []any) ([]any, error) {
			x, y := buf.CursorPos()
			return []any{x + 1, y + 1}, nil
		},
		"setCursorBlink": func(args []any) ([]any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("library: term.setCursorBlink requires a boolean argument")
			}
			on, _ := args[0].(bool)
			buf.SetCursorBlink(on)
			return nil, nil
		},
		"getSize": func(args []any) ([]any, error) {
			w, h := buf.Size()
			return []any{w, h}, nil
		},
		"isColor": func(args []any) ([]any, error) {
			return []any{buf.IsColor()}, nil
		},
		"setTextColor": func(args []any) ([]any, error) {
			i, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			buf.SetTextColor(i)
			return nil, nil
		},
		"setBackgroundColor": func(args []any) ([]any, error) {
			i, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			buf.SetBackgroundColor(i)
			return nil, nil
		},
		"getPaletteColor": func(args []any) ([]any, error) {
			i, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			rgb, ok := buf.GetPaletteColor(i)
			if !ok {
				return nil, fmt.Errorf("library: term.getPaletteColor: index %d out of range", i)
			}
			return []any{
				float64(rgb.R) / 255,
				float64(rgb.G) / 255,
				float64(rgb.B) / 255,
			}, nil
		},
		"setPaletteColor": func(args []any) ([]any, error) {
			i, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			r, err := argFloat(args, 1)
			if err != nil {
				return nil, err
			}
			g, err := argFloat(args, 2)
			if err != nil {
				return nil, err
			}
			b, err := argFloat(args, 3)
			if err != nil {
				return nil, err
			}
			buf.SetPaletteColor(i, terminal.RGB{R: byte(r * 255), G: byte(g * 255), B: byte(b * 255)})
			return nil, nil
		},
		"setGraphicsMode": func(args []any) ([]any, error) {
			m, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			if !buf.SetGraphicsMode(m) {
				return nil, fmt.Errorf("library: term.setGraphicsMode: invalid mode %d", m)
			}
			return nil, nil
		},
		"getGraphicsMode": func(args []any) ([]any, error) {
			return []any{buf.GraphicsMode()}, nil
		},
		"setPixel": func(args []any) ([]any, error) {
			x, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			y, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			c, err := argInt(args, 2)
			if err != nil {
				return nil, err
			}
			buf.SetPixel(x, y, c)
			return nil, nil
		},
		"getPixel": func(args []any) ([]any, error) {
			x, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			y, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			return []any{int(buf.GetPixel(x, y))}, nil
		},
		"setTextScale": func(args []any) ([]any, error) {
			s, err := argFloat(args, 0)
			if err != nil {
				return nil, err
			}
			buf.SetTextScale(s)
			return nil, nil
		},
		"getTextScale": func(args []any) ([]any, error) {
			return []any{buf.TextScale()}, nil
		},
		"drawPixels": func(args []any) ([]any, error) {
			x, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			y, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			if len(args) < 3 {
				return nil, fmt.Errorf("library: term.drawPixels requires a rows argument at position 3")
			}
			rows, ok := args[2].([]any)
			if !ok {
				return nil, fmt.Errorf("library: term.drawPixels: argument 3 must be a sequence of rows, got %T", args[2])
			}
			decoded := make([][]byte, len(rows))
			for i, row := range rows {
				b, err := decodePixelRow(row)
				if err != nil {
					return nil, fmt.Errorf("library: term.drawPixels: row %d: %w", i+1, err)
				}
				decoded[i] = b
			}
			buf.DrawPixels(x, y, decoded)
			return nil, nil
		},
	}
}

// decodePixelRow decodes one drawPixels row, a raw byte string or a
// nested sequence of numbers, into the palette-index bytes
// terminal.Buffer.DrawPixels wants.
func decodePixelRow(row any) ([]byte, error) {
	switch v := row.(type) {
	case string:
		return []byte(v), nil
	case []any:
		out := make([]byte, len(v))
		for i, cell := range v {
			n, err := argInt([]any{cell}, 0)
			if err != nil {
				return nil, fmt.Errorf("cell %d must be numeric, got %T", i+1, cell)
			}
			out[i] = byte(n % 256)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a string or a sequence, got %T", row)
	}
}

