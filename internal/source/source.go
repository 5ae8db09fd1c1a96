// Package source loads encoded image files into memory for decoding.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// File is an encoded image held in memory. On Unix the contents are
// memory-mapped read-only; elsewhere they are read into a heap buffer.
type File struct {
	data   []byte
	path   string
	mapped bool
}

// Open loads a file. Empty files are rejected.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := mapFile(f, size)
	if err == nil {
		return &File{data: data, path: path, mapped: true}, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{data: data, path: path}, nil
}

// Bytes returns the file contents. The slice is read-only and becomes
// invalid after Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Size returns the file size in bytes.
func (f *File) Size() int {
	return len(f.data)
}

// Close releases the file contents.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	var err error
	if f.mapped {
		err = unmapFile(f.data)
	}
	f.data = nil
	return err
}

// OpenAll opens every path or none: if any fails, the files already opened
// are closed and the errors for all failing paths are returned together.
func OpenAll(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	var errs []error
	for _, p := range paths {
		f, err := Open(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	if len(errs) > 0 {
		CloseAll(files)
		return nil, errors.Join(errs...)
	}
	return files, nil
}

// CloseAll closes every file, ignoring errors.
func CloseAll(files []*File) {
	for _, f := range files {
		f.Close()
	}
}

// Collect resolves input paths to a list of files. Directories are
// expanded one level to the files whose extension is in exts (compared
// case-insensitively); explicitly named files are kept regardless of
// extension.
func Collect(paths []string, exts []string) ([]string, error) {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			result = append(result, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("readdir %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && hasExt(e.Name(), exts) {
				result = append(result, filepath.Join(p, e.Name()))
			}
		}
	}
	return result, nil
}

func hasExt(name string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
}
