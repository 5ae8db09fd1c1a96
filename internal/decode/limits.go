package decode

import (
	"fmt"
	"math"
)

const (
	// MaxDimension caps either side of an image.
	MaxDimension = 1 << 24
	// maxPixelBytes bounds a fully expanded RGBA buffer so a header that
	// lies about its size cannot force a huge allocation.
	maxPixelBytes int64 = math.MaxInt32
)

func checkLimits(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("image dimension exceeds limit (%d x %d)", width, height)
	}
	if n := int64(width) * int64(height) * 4; n > maxPixelBytes {
		return fmt.Errorf("image needs %d bytes, limit is %d", n, maxPixelBytes)
	}
	return nil
}
