package fsys

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

// mockFile is one in-memory file's content and mode.
type mockFile struct {
	data []byte
	mode os.FileMode
}

// Mock is an in-memory FileSystem for tests: it records what was asked of
// it so tests can assert on both outcome and call shape.
type Mock struct {
	files map[string]mockFile
	dirs  map[string]bool

	// Renamed, Removed and Chmodded record those operations in call order,
	// for tests that care about which of them ran and in what order.
	Renamed [][2]string
	Removed []string
	Chmodded []string
}

// NewMock creates an empty in-memory filesystem.
func NewMock() *Mock {
	return &Mock{
		files: make(map[string]mockFile),
		dirs:  make(map[string]bool),
	}
}

func clean(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// WithFile seeds the mock with a file, for test setup.
func (m *Mock) WithFile(p string, data []byte, mode os.FileMode) *Mock {
	m.files[clean(p)] = mockFile{data: append([]byte(nil), data...), mode: mode}
	return m
}

// ReadFileString is a test convenience for reading back a seeded/written file.
func (m *Mock) ReadFileString(p string) (string, bool) {
	f, ok := m.files[clean(p)]
	return string(f.data), ok
}

// Mode returns the recorded mode for p, for assertions.
func (m *Mock) Mode(p string) (os.FileMode, bool) {
	f, ok := m.files[clean(p)]
	return f.mode, ok
}

// Stat implements FileSystem.Stat.
func (m *Mock) Stat(p string) (FileInfo, error) {
	p = clean(p)
	if m.dirs[p] {
		return FileInfo{Exists: true, IsDir: true}, nil
	}
	f, ok := m.files[p]
	if !ok {
		return FileInfo{Exists: false}, nil
	}
	return FileInfo{Exists: true, Mode: f.mode, Size: int64(len(f.data)), IsRegular: true}, nil
}

// ReadFile implements FileSystem.ReadFile.
func (m *Mock) ReadFile(p string) ([]byte, error) {
	f, ok := m.files[clean(p)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

// WriteFile implements FileSystem.WriteFile.
func (m *Mock) WriteFile(p string, data []byte, perm os.FileMode) error {
	p = clean(p)
	m.files[p] = mockFile{data: append([]byte(nil), data...), mode: perm}
	m.dirs[path.Dir(p)] = true
	return nil
}

// Rename implements FileSystem.Rename.
func (m *Mock) Rename(oldpath, newpath string) error {
	oldpath, newpath = clean(oldpath), clean(newpath)
	f, ok := m.files[oldpath]
	if !ok {
		return &os.PathError{Op: "rename", Path: oldpath, Err: os.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = f
	m.Renamed = append(m.Renamed, [2]string{oldpath, newpath})
	return nil
}

// Remove implements FileSystem.Remove.
func (m *Mock) Remove(p string) error {
	p = clean(p)
	if _, ok := m.files[p]; !ok {
		return &os.PathError{Op: "remove", Path: p, Err: os.ErrNotExist}
	}
	delete(m.files, p)
	m.Removed = append(m.Removed, p)
	return nil
}

// Chmod implements FileSystem.Chmod.
func (m *Mock) Chmod(p string, mode os.FileMode) error {
	p = clean(p)
	f, ok := m.files[p]
	if !ok {
		return &os.PathError{Op: "chmod", Path: p, Err: os.ErrNotExist}
	}
	f.mode = mode
	m.files[p] = f
	m.Chmodded = append(m.Chmodded, p)
	return nil
}

// MkdirAll implements FileSystem.MkdirAll.
func (m *Mock) MkdirAll(p string, perm os.FileMode) error {
	m.dirs[clean(p)] = true
	return nil
}

// RemoveEmptyDir implements FileSystem.RemoveEmptyDir.
func (m *Mock) RemoveEmptyDir(p string) error {
	p = clean(p)
	if !m.dirs[p] {
		return &os.PathError{Op: "rmdir", Path: p, Err: os.ErrNotExist}
	}
	for f := range m.files {
		if path.Dir(f) == p {
			return fmt.Errorf("directory not empty: %s", p)
		}
	}
	for d := range m.dirs {
		if d != p && path.Dir(d) == p {
			return fmt.Errorf("directory not empty: %s", p)
		}
	}
	delete(m.dirs, p)
	return nil
}

// Files returns a sorted snapshot of all file paths currently present, for
// assertions that want to check the whole tree shape.
func (m *Mock) Files() []string {
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
