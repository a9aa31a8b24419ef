// Package fsx contains the file system helpers used by nimbus-cli.
package fsx

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/rogpeppe/go-internal/lockedfile"
)

// OpenFile is a wrapper for os.Open that ensures that we're opening a
// file rather than a directory. If you are opening a directory, this
// func returns an *os.PathError error with Err set to syscall.EISDIR.
func OpenFile(pathname string) (fs.File, error) {
	return openWithFS(filesystem{}, pathname)
}

func openWithFS(fsys fs.FS, pathname string) (fs.File, error) {
	file, err := fsys.Open(pathname)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, &os.PathError{
			Op:   "openFile",
			Path: pathname,
			Err:  syscall.EISDIR,
		}
	}
	return file, nil
}

// filesystem is a private implementation of fs.FS.
type filesystem struct{}

// Open implements fs.FS.Open.
func (filesystem) Open(pathname string) (fs.File, error) {
	return os.Open(pathname)
}

// ReadFile reads the whole content of a regular file.
func ReadFile(pathname string) ([]byte, error) {
	file, err := OpenFile(pathname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// WriteFile writes data to pathname while holding the file lock, so
// that a concurrent reader never observes a half-written file.
func WriteFile(pathname string, data []byte) error {
	return lockedfile.Write(pathname, bytes.NewReader(data), 0644)
}

// ResetDir removes dirname and everything below it and creates it
// again as an empty directory.
func ResetDir(dirname string) error {
	if err := os.RemoveAll(dirname); err != nil {
		return err
	}
	return os.MkdirAll(dirname, 0755)
}
