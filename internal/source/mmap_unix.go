//go:build unix

package source

import (
	"fmt"
	"math"
	"os"
	"syscall"
)

// mapFile maps f read-only into memory. f may be closed afterwards.
func mapFile(f *os.File, size int64) ([]byte, error) {
	if size > math.MaxInt {
		return nil, fmt.Errorf("%s: too large to map (%d bytes)", f.Name(), size)
	}
	return syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE)
}

func unmapFile(data []byte) error {
	return syscall.Munmap(data)
}
