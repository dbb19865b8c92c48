package fsys

import (
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// OS is the real, disk-backed FileSystem implementation.
type OS struct {
	// Root, if non-empty, is the directory every relative path is resolved
	// against (set by --directory). Empty means the process's current
	// working directory.
	Root string
}

// NewOS creates an OS-backed FileSystem rooted at root ("" for cwd).
func NewOS(root string) *OS {
	return &OS{Root: root}
}

// resolve safely joins a relative path against o.Root, so ".." cannot walk
// above the root — patch content is attacker-influenced data, and a
// renamed/created path that walks outside the working directory is a real
// vulnerability class for patch-applying tools. Absolute paths, and every
// path when Root is empty, are returned unchanged and are not confined.
func (o *OS) resolve(path string) (string, error) {
	if o.Root == "" {
		return path, nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	return securejoin.SecureJoin(o.Root, path)
}

// Stat implements FileSystem.Stat.
func (o *OS) Stat(path string) (FileInfo, error) {
	p, err := o.resolve(path)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{Exists: false}, nil
		}
		return FileInfo{}, err
	}
	return FileInfo{
		Mode:      info.Mode(),
		Size:      info.Size(),
		IsDir:     info.IsDir(),
		Exists:    true,
		IsRegular: info.Mode().IsRegular(),
	}, nil
}

// ReadFile implements FileSystem.ReadFile.
func (o *OS) ReadFile(path string) ([]byte, error) {
	p, err := o.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// WriteFile implements FileSystem.WriteFile. It writes via a process-unique
// temporary file in the target's directory and renames it into place, so a
// crash mid-write leaves the previous content intact.
func (o *OS) WriteFile(path string, data []byte, perm os.FileMode) error {
	p, err := o.resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	tmp, err := os.CreateTemp(dir, ".go-patch-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Rename implements FileSystem.Rename.
func (o *OS) Rename(oldpath, newpath string) error {
	op, err := o.resolve(oldpath)
	if err != nil {
		return err
	}
	np, err := o.resolve(newpath)
	if err != nil {
		return err
	}
	return os.Rename(op, np)
}

// Remove implements FileSystem.Remove.
func (o *OS) Remove(path string) error {
	p, err := o.resolve(path)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// Chmod implements FileSystem.Chmod.
func (o *OS) Chmod(path string, mode os.FileMode) error {
	p, err := o.resolve(path)
	if err != nil {
		return err
	}
	return os.Chmod(p, mode)
}

// MkdirAll implements FileSystem.MkdirAll.
func (o *OS) MkdirAll(path string, perm os.FileMode) error {
	p, err := o.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, perm)
}

// RemoveEmptyDir implements FileSystem.RemoveEmptyDir.
func (o *OS) RemoveEmptyDir(path string) error {
	p, err := o.resolve(path)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("directory not empty: %s", path)
	}
	return os.Remove(p)
}
