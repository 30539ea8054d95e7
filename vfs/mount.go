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
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/block16/craftos-go/errors"
)

// Policy is the mount-mode policy read from configuration (§4.5).
type Policy int

const (
	// PolicyRW allows a caller to mount read-only or writable.
	PolicyRW Policy = iota
	// PolicyRO makes every new mount read-only, as PolicyROStrict
	// does: AddMount's readOnly flag has no value that requests a
	// writable mount under this policy.
	PolicyRO
	// PolicyROStrict forces every new mount to read-only.
	PolicyROStrict
	// PolicyNone disallows any new mount.
	PolicyNone
)

// Mount is one entry in a Table: a logical prefix bound to a host
// directory.
type Mount struct {
	Prefix   []string
	Label    string
	HostRoot string
	ReadOnly bool
}

// Table is a computer's mount table: one root mount (label "hdd",
// Prefix nil) plus any number of additional mounts layered over it.
// Resolution always picks the longest matching prefix.
type Table struct {
	mu    sync.RWMutex
	mode  Policy
	root  Mount
	extra []Mount

	openMu    sync.Mutex
	openCount int
	openMax   int
}

// NewTable is the preferred method of initialisation for the Table
// type. rootHostDir is the host directory backing the computer's own
// "hdd" mount; openMax is the maximum number of simultaneously open
// file handles (0 means unlimited).
func NewTable(rootHostDir string, rootReadOnly bool, mode Policy, openMax int) *Table {
	return &Table{
		mode:    mode,
		root:    Mount{Label: "hdd", HostRoot: rootHostDir, ReadOnly: rootReadOnly},
		openMax: openMax,
	}
}

// AddMount registers a new mount at prefix. Fails under PolicyNone, or
// if prefix is already mounted. Under PolicyROStrict and PolicyRO the
// mount is made read-only whatever readOnly says.
func (t *Table) AddMount(prefix []string, label, hostRoot string, readOnly bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mode == PolicyNone {
		return errors.Path(Join(prefix), errors.ReasonMountDisallowed)
	}
	if t.mode == PolicyROStrict {
		readOnly = true
	} else if t.mode == PolicyRO && !readOnly {
		readOnly = true
	}

	for _, m := range t.extra {
		if segmentsEqual(m.Prefix, prefix) {
			return errors.Path(Join(prefix), errors.ReasonMountExists)
		}
	}

	t.extra = append(t.extra, Mount{Prefix: append([]string(nil), prefix...), Label: label, HostRoot: hostRoot, ReadOnly: readOnly})

	// longest prefix first, so Resolve's linear scan finds the deepest
	// match without needing a trie.
	sort.SliceStable(t.extra, func(i, j int) bool {
		return len(t.extra[i].Prefix) > len(t.extra[j].Prefix)
	})
	return nil
}

// RemoveMount removes the mount registered at exactly prefix.
func (t *Table) RemoveMount(prefix []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, m := range t.extra {
		if segmentsEqual(m.Prefix, prefix) {
			t.extra = append(t.extra[:i], t.extra[i+1:]...)
			return nil
		}
	}
	return errors.Path(Join(prefix), errors.ReasonNoSuchMount)
}

// Mounts returns a snapshot of every registered mount, root first.
func (t *Table) Mounts() []Mount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Mount, 0, len(t.extra)+1)
	out = append(out, t.root)
	out = append(out, t.extra...)
	return out
}

// match finds the deepest mount whose prefix is a prefix of segments.
func (t *Table) match(segments []string) Mount {
	for _, m := range t.extra {
		if len(m.Prefix) <= len(segments) && segmentsEqual(m.Prefix, segments[:len(m.Prefix)]) {
			return m
		}
	}
	return t.root
}

// IsReadOnly reports whether segments falls under a read-only mount.
func (t *Table) IsReadOnly(segments []string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.match(segments).ReadOnly
}

// Resolve turns a normalized sandbox path into a host path and the
// label of the mount it resolved through. If createAncestors is true,
// any missing ancestor directories on the host are created.
func (t *Table) Resolve(segments []string, createAncestors bool) (hostPath string, label string, readOnly bool, err error) {
	t.mu.RLock()
	m := t.match(segments)
	t.mu.RUnlock()

	rel := segments[len(m.Prefix):]
	hostPath = filepath.Join(append([]string{m.HostRoot}, rel...)...)

	if createAncestors {
		dir := filepath.Dir(hostPath)
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return "", "", false, mkErr
		}
	}

	return hostPath, m.Label, m.ReadOnly, nil
}

// AcquireHandle increments the open-file counter, failing with
// "Too many files open" if openMax would be exceeded.
func (t *Table) AcquireHandle() error {
	t.openMu.Lock()
	defer t.openMu.Unlock()

	if t.openMax > 0 && t.openCount >= t.openMax {
		return errors.Path("", errors.ReasonTooManyOpen)
	}
	t.openCount++
	return nil
}

// ReleaseHandle decrements the open-file counter.
func (t *Table) ReleaseHandle() {
	t.openMu.Lock()
	defer t.openMu.Unlock()
	if t.openCount > 0 {
		t.openCount--
	}
}

// OpenCount reports the number of currently open file handles.
func (t *Table) OpenCount() int {
	t.openMu.Lock()
	defer t.openMu.Unlock()
	return t.openCount
}

// List lists the entries of the directory at the sandbox path p,
// merging the host directory's own entries with any mount whose
// prefix lies immediately below p (so a mount doesn't need its own
// directory entry on the host root to be visible).
func (t *Table) List(p string) ([]string, error) {
	segments, err := Normalize(p)
	if err != nil {
		return nil, err
	}

	hostPath, _, _, err := t.Resolve(segments, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string

	entries, err := os.ReadDir(hostPath)
	if err == nil {
		for _, e := range entries {
			if !seen[e.Name()] {
				seen[e.Name()] = true
				names = append(names, e.Name())
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	t.mu.RLock()
	mounts := append([]Mount{t.root}, t.extra...)
	t.mu.RUnlock()

	for _, m := range mounts {
		if len(m.Prefix) != len(segments)+1 {
			continue
		}
		if !segmentsEqual(m.Prefix[:len(segments)], segments) {
			continue
		}
		name := m.Prefix[len(segments)]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// Exists reports whether the sandbox path p resolves to something
// present on the host (file or directory).
func (t *Table) Exists(p string) bool {
	segments, err := Normalize(p)
	if err != nil {
		return false
	}
	hostPath, _, _, err := t.Resolve(segments, false)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(hostPath)
	return statErr == nil
}

// IsDir reports whether the sandbox path p resolves to a directory on
// the host.
func (t *Table) IsDir(p string) bool {
	segments, err := Normalize(p)
	if err != nil {
		return false
	}
	hostPath, _, _, err := t.Resolve(segments, false)
	if err != nil {
		return false
	}
	info, statErr := os.Stat(hostPath)
	return statErr == nil && info.IsDir()
}

func segmentsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
