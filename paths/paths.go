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

// Package paths resolves paths into the emulator's writable base directory
// (§6: config/, computer/<id>/, computer/debug/, screenshots/, plugins/).
// The base directory defaults to ".craftos", relative to the working
// directory the front-end was launched from, but can be overridden with
// SetBaseDir, which is what the "--directory" command line flag does.
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

const defaultBaseDirName = ".craftos"

var (
	mu      sync.RWMutex
	baseDir = defaultBaseDirName
)

// SetBaseDir overrides the base directory used by ResourcePath. An empty
// string restores the default (".craftos").
func SetBaseDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if dir == "" {
		dir = defaultBaseDirName
	}
	baseDir = dir
}

// BaseDir returns the currently configured base directory.
func BaseDir() (string, error) {
	mu.RLock()
	defer mu.RUnlock()
	return baseDir, nil
}

// ResourcePath joins subDir and file onto the base directory. Either
// argument may be empty: ResourcePath("", "") returns the bare base
// directory, ResourcePath("computer/5", "") returns the subdirectory alone.
func ResourcePath(subDir string, file string) (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}

	p := base
	if subDir != "" {
		p = filepath.Join(p, subDir)
	}
	if file != "" {
		p = filepath.Join(p, file)
	}
	return p, nil
}

// EnsureDir creates subDir (and any ancestors) under the base directory if
// it doesn't already exist.
func EnsureDir(subDir string) (string, error) {
	p, err := ResourcePath(subDir, "")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", err
	}
	return p, nil
}
