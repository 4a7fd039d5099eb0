// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
)

// DefaultMaxBytes is the size a log file may reach before it is rotated.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// DefaultBackups is the number of rotated generations kept on disk.
const DefaultBackups = 5

const (
	dirPermissions  fs.FileMode = 0o755
	filePermissions fs.FileMode = 0o644
)

// RotatingFile writes plain lines to a file, rotating it once it grows past
// maxBytes. Rotated files are named <path>.1 (newest) to <path>.<backups>
// (oldest); older generations are removed.
type RotatingFile struct {
	mu        sync.Mutex
	path      string
	maxBytes  int64
	backups   int
	level     atomic.Int32
	precision Precision

	file *os.File
	size int64
}

// FileOption customizes a RotatingFile.
type FileOption func(*RotatingFile)

// WithMaxBytes sets the rotation threshold; zero or negative disables rotation.
func WithMaxBytes(maxBytes int64) FileOption {
	return func(f *RotatingFile) {
		f.maxBytes = maxBytes
	}
}

// WithBackups sets how many rotated generations are kept.
func WithBackups(backups int) FileOption {
	return func(f *RotatingFile) {
		if backups >= 0 {
			f.backups = backups
		}
	}
}

// OpenRotatingFile opens path for appending, creating it and its parent
// directory when missing.
func OpenRotatingFile(path string, level Level, precision Precision, opts ...FileOption) (*RotatingFile, error) {
	f := &RotatingFile{
		path:      path,
		maxBytes:  DefaultMaxBytes,
		backups:   DefaultBackups,
		precision: precision,
	}
	f.level.Store(int32(level))
	for _, opt := range opts {
		opt(f)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePermissions)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	f.file = file
	f.size = info.Size()
	return f, nil
}

// Path returns the path of the active file.
func (f *RotatingFile) Path() string {
	return f.path
}

func (f *RotatingFile) Level() Level {
	return Level(f.level.Load())
}

// SetLevel updates the minimum level accepted by the sink; invalid levels are ignored.
func (f *RotatingFile) SetLevel(level Level) {
	if level.valid() {
		f.level.Store(int32(level))
	}
}

func (f *RotatingFile) Emit(record Record) error {
	line := FormatRecord(record, f.precision) + "\n"

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return fs.ErrClosed
	}

	if f.shouldRotate(int64(len(line))) {
		if err := f.rotate(); err != nil {
			return err
		}
	}

	n, err := f.file.WriteString(line)
	f.size += int64(n)
	return err
}

func (f *RotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil
	return err
}

// shouldRotate must be called with f.mu held.
func (f *RotatingFile) shouldRotate(next int64) bool {
	return f.maxBytes > 0 && f.size > 0 && f.size+next >= f.maxBytes
}

// rotate shifts every generation up by one, archives the active file as
// generation 1 and starts a new empty file. It must be called with f.mu held.
func (f *RotatingFile) rotate() error {
	if err := f.file.Close(); err != nil {
		return err
	}
	f.file = nil

	if f.backups > 0 {
		for i := f.backups - 1; i > 0; i-- {
			if err := renameIfExists(f.backupPath(i), f.backupPath(i+1)); err != nil {
				return err
			}
		}
		if err := renameIfExists(f.path, f.backupPath(1)); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, filePermissions)
	if err != nil {
		return fmt.Errorf("reopening %s after rotation: %w", f.path, err)
	}

	f.file = file
	f.size = 0
	return nil
}

func (f *RotatingFile) backupPath(generation int) string {
	return f.path + "." + strconv.Itoa(generation)
}

// renameIfExists moves src over dst, discarding dst. A missing src is not an error.
func renameIfExists(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
