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

package vfs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/block16/craftos-go/errors"
)

// Mode is a file open mode (§4.6): r, rb, w, wb, a, ab.
type Mode int

const (
	ModeRead Mode = iota
	ModeReadBinary
	ModeWrite
	ModeWriteBinary
	ModeAppend
	ModeAppendBinary
)

func (m Mode) binary() bool {
	switch m {
	case ModeReadBinary, ModeWriteBinary, ModeAppendBinary:
		return true
	}
	return false
}

func (m Mode) write() bool {
	switch m {
	case ModeWrite, ModeWriteBinary, ModeAppend, ModeAppendBinary:
		return true
	}
	return false
}

// Whence selects the reference point for Handle.Seek.
type Whence int

const (
	SeekSet Whence = iota
	SeekCur
	SeekEnd
)

// Handle is an open file within a Table's sandbox. Every operation
// takes a lock; a Handle is safe to share between the VM goroutine and
// a peripheral goroutine, though in practice only one ever touches a
// given handle at a time.
type Handle struct {
	mu     sync.Mutex
	table  *Table
	file   *os.File
	reader *bufio.Reader
	mode   Mode
	closed bool
}

// Open resolves path against table and opens it in mode, enforcing the
// read-only policy, the open-file limit, and the "can't open a
// directory" rule.
func Open(table *Table, path string, mode Mode) (*Handle, error) {
	segments, err := Normalize(path)
	if err != nil {
		return nil, err
	}

	if mode.write() && table.IsReadOnly(segments) {
		return nil, errors.Path(Join(segments), errors.ReasonAccessDenied)
	}

	hostPath, _, _, err := table.Resolve(segments, mode.write())
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(hostPath); statErr == nil && info.IsDir() {
		return nil, errors.Path(Join(segments), errors.ReasonIsADirectory)
	}

	if err := table.AcquireHandle(); err != nil {
		return nil, err
	}

	var flag int
	switch {
	case mode == ModeRead || mode == ModeReadBinary:
		flag = os.O_RDONLY
	case mode == ModeWrite || mode == ModeWriteBinary:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	default: // append
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(hostPath, flag, 0o644)
	if err != nil {
		table.ReleaseHandle()
		if os.IsNotExist(err) {
			return nil, errors.Path(Join(segments), errors.ReasonNoSuchFile)
		}
		return nil, err
	}

	h := &Handle{table: table, file: f, mode: mode}
	if mode == ModeRead {
		h.reader = bufio.NewReader(f)
	}
	return h, nil
}

// toLatin1View collapses CRLF to LF, then re-expresses the decoded
// UTF-8 text one byte per rune, replacing any rune outside 0..255 with
// '?'.
func toLatin1View(data []byte) string {
	data = []byte(strings.ReplaceAll(string(data), "\r\n", "\n"))

	var sb strings.Builder
	sb.Grow(len(data))
	for _, r := range string(data) {
		if r > 255 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte(byte(r))
		}
	}
	return sb.String()
}

// fromLatin1 treats s as a sequence of Latin-1 codepoints (one byte
// each) and re-encodes it as UTF-8, the on-disk representation for text
// handles.
func fromLatin1(s string) []byte {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		buf.WriteRune(rune(s[i]))
	}
	return []byte(buf.String())
}

// ReadAll consumes the remainder of the handle.
func (h *Handle) ReadAll() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", errors.Path("", errors.ReasonClosedFile)
	}

	var r io.Reader = h.file
	if h.reader != nil {
		r = h.reader
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if h.mode.binary() {
		return string(data), nil
	}
	return toLatin1View(data), nil
}

// ReadLine reads a single line, stripping the trailing newline. ok is
// false only at end of stream (no error; an exhausted handle just has
// nothing left to read).
func (h *Handle) ReadLine() (line string, ok bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", false, errors.Path("", errors.ReasonClosedFile)
	}
	if h.reader == nil {
		return "", false, fmt.Errorf("vfs: readLine requires mode r")
	}

	raw, rerr := h.reader.ReadString('\n')
	if rerr != nil && rerr != io.EOF {
		return "", false, rerr
	}
	if raw == "" && rerr == io.EOF {
		return "", false, nil
	}

	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	return toLatin1View([]byte(raw)), true, nil
}

// Read returns exactly n bytes, or fewer at end of stream.
func (h *Handle) Read(n int) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", errors.Path("", errors.ReasonClosedFile)
	}

	var r io.Reader = h.file
	if h.reader != nil {
		r = h.reader
	}

	buf := make([]byte, n)
	read, rerr := io.ReadFull(r, buf)
	if rerr != nil && rerr != io.EOF && rerr != io.ErrUnexpectedEOF {
		return "", rerr
	}

	data := buf[:read]
	if h.mode.binary() {
		return string(data), nil
	}
	return toLatin1View(data), nil
}

// ReadByte reads a single byte and returns it as 0..255. ok is false
// only at end of stream (no error; an exhausted handle just has
// nothing left to read), matching fs_handle_readByte's "zero results"
// contract rather than Read's "fewer bytes" one.
func (h *Handle) ReadByte() (value int, ok bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, false, errors.Path("", errors.ReasonClosedFile)
	}

	var r io.Reader = h.file
	if h.reader != nil {
		r = h.reader
	}

	var b [1]byte
	n, rerr := io.ReadFull(r, b[:])
	if n == 0 && (rerr == io.EOF || rerr == io.ErrUnexpectedEOF) {
		return 0, false, nil
	}
	if rerr != nil {
		return 0, false, rerr
	}
	return int(b[0]), true, nil
}

// Write appends s, interpreting it as Latin-1 text (re-encoded UTF-8 on
// disk) unless the handle is binary, in which case s is written as raw
// bytes.
func (h *Handle) Write(s string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Path("", errors.ReasonClosedFile)
	}

	var data []byte
	if h.mode.binary() {
		data = []byte(s)
	} else {
		data = fromLatin1(s)
	}

	_, err := h.file.Write(data)
	return err
}

// WriteByte writes a single byte value (0..255) to a binary handle.
func (h *Handle) WriteByte(b byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Path("", errors.ReasonClosedFile)
	}
	_, err := h.file.Write([]byte{b})
	return err
}

// WriteLine writes s followed by a single LF.
func (h *Handle) WriteLine(s string) error {
	if err := h.Write(s); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.file.Write([]byte{'\n'})
	return err
}

// Seek repositions a binary handle. Text handles don't support seeking.
func (h *Handle) Seek(whence Whence, offset int64) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.Path("", errors.ReasonClosedFile)
	}
	if !h.mode.binary() {
		return 0, fmt.Errorf("vfs: seek requires a binary handle")
	}

	var w int
	switch whence {
	case SeekSet:
		w = io.SeekStart
	case SeekCur:
		w = io.SeekCurrent
	case SeekEnd:
		w = io.SeekEnd
	default:
		return 0, fmt.Errorf("vfs: invalid whence %d", whence)
	}
	return h.file.Seek(offset, w)
}

// Flush commits any buffered host-level writes.
func (h *Handle) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Path("", errors.ReasonClosedFile)
	}
	return h.file.Sync()
}

// Close releases the handle's slot in the computer's open-file counter.
// Closing twice raises "attempt to use a closed file".
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errors.Path("", errors.ReasonClosedFile)
	}
	h.closed = true
	h.mu.Unlock()

	h.table.ReleaseHandle()
	return h.file.Close()
}
