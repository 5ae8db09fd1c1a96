//go:build !decode_minimal

package decode

import (
	"bytes"
	"encoding/binary"
	"image"

	"golang.org/x/image/bmp"
)

const (
	bmpFileHeaderLen = 14
	bmpV4InfoLen     = 108
)

func init() {
	register(&codec{
		name:   "bmp",
		exts:   []string{".bmp"},
		match:  func(buf []byte) bool { return bytes.HasPrefix(buf, []byte("BM")) },
		config: configFrom(bmp.DecodeConfig),
		decode: decodeFrom(bmp.Decode),
		native: bmpChannels,
	})
}

// bmpChannels is 4 for 32-bit bitmaps with a V4 or later info header that
// declares an alpha mask, 3 otherwise.
func bmpChannels(buf []byte, _ image.Config) int {
	if len(buf) < bmpFileHeaderLen+bmpV4InfoLen {
		return 3
	}
	info := buf[bmpFileHeaderLen:]
	infoLen := binary.LittleEndian.Uint32(info[0:4])
	bpp := binary.LittleEndian.Uint16(info[14:16])
	if bpp != 32 || infoLen < bmpV4InfoLen {
		return 3
	}
	if alphaMask := binary.LittleEndian.Uint32(info[52:56]); alphaMask == 0 {
		return 3
	}
	return 4
}
