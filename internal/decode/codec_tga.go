//go:build !decode_minimal

package decode

import (
	"encoding/binary"
	"image"

	"github.com/ftrvxmtrx/tga"
)

const tgaHeaderLen = 18

// Image types; the run-length encoded variants add tgaRLE.
const (
	tgaColorMapped = 1
	tgaTrueColor   = 2
	tgaGray        = 3
	tgaRLE         = 8
)

func init() {
	register(&codec{
		name:     "tga",
		exts:     []string{".tga"},
		match:    isTGA,
		fallback: true,
		config:   configFrom(tga.DecodeConfig),
		decode:   decodeFrom(tga.Decode),
		native:   tgaChannels,
	})
}

// isTGA checks that every header field is in range. TGA has no magic
// number, so this is the only way to recognise it.
func isTGA(buf []byte) bool {
	if len(buf) < tgaHeaderLen {
		return false
	}
	cmapType, imgType := buf[1], buf[2]
	width := binary.LittleEndian.Uint16(buf[12:14])
	height := binary.LittleEndian.Uint16(buf[14:16])
	bpp := buf[16]
	if width == 0 || height == 0 {
		return false
	}

	switch imgType &^ tgaRLE {
	case tgaColorMapped:
		if cmapType != 1 {
			return false
		}
		switch buf[7] {
		case 15, 16, 24, 32:
		default:
			return false
		}
		return bpp == 8 || bpp == 16
	case tgaTrueColor:
		return cmapType == 0 && (bpp == 15 || bpp == 16 || bpp == 24 || bpp == 32)
	case tgaGray:
		return cmapType == 0 && (bpp == 8 || bpp == 16)
	}
	return false
}

func tgaChannels(buf []byte, _ image.Config) int {
	bits := buf[16]
	switch buf[2] &^ tgaRLE {
	case tgaColorMapped:
		bits = buf[7]
	case tgaGray:
		if bits == 16 {
			return 2
		}
		return 1
	}
	switch bits {
	case 8:
		return 1
	case 32:
		return 4
	}
	return 3
}
