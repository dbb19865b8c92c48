// Package fsys is go-patch's filesystem collaborator: an interface over the
// open/read/write/rename/unlink/chmod/mkdir/rmdir primitives the applier
// needs but does not own, with a real OS-backed implementation and an
// in-memory mock for tests.
package fsys

import "os"

// FileInfo is the subset of os.FileInfo the core actually consults.
type FileInfo struct {
	Mode    os.FileMode
	Size    int64
	IsDir   bool
	Exists  bool
	IsRegular bool
}

// FileSystem is every filesystem primitive the core depends on.
type FileSystem interface {
	// Stat returns metadata about path. A non-existent path is not an error:
	// the returned FileInfo has Exists == false.
	Stat(path string) (FileInfo, error)

	// ReadFile reads the full contents of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating it with perm if it doesn't
	// exist and truncating it otherwise.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Rename moves oldpath to newpath, as os.Rename.
	Rename(oldpath, newpath string) error

	// Remove deletes path.
	Remove(path string) error

	// Chmod sets path's permission bits.
	Chmod(path string, mode os.FileMode) error

	// MkdirAll creates path and any missing parents, as os.MkdirAll.
	MkdirAll(path string, perm os.FileMode) error

	// Remove an empty directory; returns an error if it is not empty or
	// does not exist. Used to clean up parent directories left empty by a
	// delete patch.
	RemoveEmptyDir(path string) error
}
