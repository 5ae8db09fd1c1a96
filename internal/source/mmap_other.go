//go:build !unix

package source

import (
	"errors"
	"os"
)

// mapFile always fails off Unix; Open falls back to reading the file.
func mapFile(f *os.File, size int64) ([]byte, error) {
	return nil, errors.New("memory mapping is not supported on this platform")
}

func unmapFile(data []byte) error {
	return nil
}
