package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileCheckpoint keeps the last processed block as decimal text in a file.
// Save replaces the file atomically.
type FileCheckpoint struct {
	path string
}

func NewFileCheckpoint(dir string) (*FileCheckpoint, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCheckpoint{path: filepath.Join(dir, DefaultCheckpointFile)}, nil
}

func (fc *FileCheckpoint) Path() string {
	return fc.path
}

func (fc *FileCheckpoint) Load() (uint64, bool, error) {
	b, err := os.ReadFile(fc.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}

	height, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, false, ErrCorruptCheckpoint(fc.path, err)
	}
	return height, true, nil
}

func (fc *FileCheckpoint) Save(height uint64) error {
	tmp, err := os.CreateTemp(filepath.Dir(fc.path), filepath.Base(fc.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// the temp file is gone once renamed
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(strconv.FormatUint(height, 10)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, fc.path); err != nil {
		return err
	}
	return syncDir(filepath.Dir(fc.path))
}

// syncDir flushes the directory entry so a rename survives a power loss.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}
