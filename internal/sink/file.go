// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const (
	DefaultLogDir     = "./logs"
	DefaultFilePrefix = "templogger"

	fileNameLayout = "2006-01-02_15-04-05"
)

var (
	// ErrFileSink wraps every failure of the log file.
	ErrFileSink = errors.New("file sink")
)

// FileName returns the name of a log file created at t.
func FileName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format(fileNameLayout) + ".log"
}

// File appends lines to a log file. Writes are buffered until Flush or Close.
type File struct {
	lock   sync.Mutex
	path   string
	file   afero.File
	writer *bufio.Writer
	closed bool
}

// OpenFile creates the directory of path when missing and opens path for appending.
func OpenFile(fs afero.Fs, path string) (*File, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating log directory: %w", ErrFileSink, err)
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrFileSink, path, err)
	}

	return &File{
		path:   path,
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Path returns the path of the log file.
func (f *File) Path() string {
	return f.path
}

// WriteLine appends text and a newline.
func (f *File) WriteLine(text string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.closed {
		return fmt.Errorf("%w: %s is closed", ErrFileSink, f.path)
	}
	if _, err := f.writer.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSink, err)
	}
	return nil
}

// Flush writes buffered lines to the file.
func (f *File) Flush() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.closed {
		return nil
	}
	if err := f.writer.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSink, err)
	}
	return nil
}

// Close flushes and closes the file. Calling Close more than once is a no-op.
func (f *File) Close() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var result *multierror.Error
	if err := f.writer.Flush(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrFileSink, err))
	}
	if err := f.file.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrFileSink, err))
	}
	return result.ErrorOrNil()
}
