package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrFileWrite is returned when the README cannot be read or saved.
var ErrFileWrite = errors.New("failed to update changelog file")

// UpdateFile inserts e into the README at path and saves it in one atomic write.
// A missing README is created with a "# <project>" title, where project is the
// name of the directory containing path.
func UpdateFile(path string, e Entry, opts Options) (created bool, err error) {
	// Write through symlinks instead of replacing them.
	if real, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
		path = real
	}

	content, mode, created, err := readOrNew(path)
	if err != nil {
		return false, err
	}

	updated := InsertEntry(content, e, opts)
	if err := writeAtomic(path, []byte(updated), mode); err != nil {
		return false, err
	}
	return created, nil
}

func readOrNew(path string) (string, fs.FileMode, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		title := filepath.Base(filepath.Dir(abs))
		return "# " + title + "\n", 0o644, true, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: %s: %v", ErrFileWrite, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: reading %s: %v", ErrFileWrite, path, err)
	}
	return string(data), info.Mode().Perm(), false, nil
}

// writeAtomic writes data to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", ErrFileWrite, dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrFileWrite, tmpName, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: setting mode on %s: %v", ErrFileWrite, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrFileWrite, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", ErrFileWrite, path, err)
	}
	return nil
}
