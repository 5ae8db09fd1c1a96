//go:build !decode_minimal

package decode

import (
	"bytes"
	"encoding/binary"
	"image"

	"golang.org/x/image/tiff"
)

// TIFF tags needed to work out the native channel count.
const (
	tagPhotometric     = 262
	tagSamplesPerPixel = 277
	dtShort            = 3
)

// Photometric interpretations.
const (
	photoWhiteIsZero = 0
	photoBlackIsZero = 1
	photoRGB         = 2
	photoPaletted    = 3
)

func init() {
	register(&codec{
		name:   "tiff",
		exts:   []string{".tif", ".tiff"},
		match:  isTIFF,
		config: configFrom(tiff.DecodeConfig),
		decode: decodeFrom(tiff.Decode),
		native: tiffChannels,
	})
}

func isTIFF(buf []byte) bool {
	return bytes.HasPrefix(buf, []byte("II*\x00")) || bytes.HasPrefix(buf, []byte("MM\x00*"))
}

// tiffChannels inspects the first IFD. RGB with an extra sample is
// reported as RGBA; gray and paletted images keep 1 and 3.
func tiffChannels(buf []byte, _ image.Config) int {
	photometric, spp, ok := firstIFD(buf)
	if !ok {
		return 4
	}
	switch photometric {
	case photoWhiteIsZero, photoBlackIsZero:
		return 1
	case photoPaletted:
		return 3
	case photoRGB:
		if spp >= 4 {
			return 4
		}
		return 3
	default:
		return 3
	}
}

// firstIFD reads Photometric and SamplesPerPixel from the first image file
// directory of a classic (non-Big) TIFF.
func firstIFD(buf []byte) (photometric, spp uint16, ok bool) {
	if len(buf) < 8 {
		return 0, 0, false
	}
	var bo binary.ByteOrder = binary.LittleEndian
	if buf[0] == 'M' {
		bo = binary.BigEndian
	}

	offset := int64(bo.Uint32(buf[4:8]))
	if offset+2 > int64(len(buf)) {
		return 0, 0, false
	}
	numEntries := int64(bo.Uint16(buf[offset:]))
	entries := offset + 2
	if entries+numEntries*12 > int64(len(buf)) {
		return 0, 0, false
	}

	spp = 1
	var seenPhotometric bool
	for i := int64(0); i < numEntries; i++ {
		e := buf[entries+i*12 : entries+i*12+12]
		tag := bo.Uint16(e[0:2])
		if bo.Uint16(e[2:4]) != dtShort {
			continue
		}
		switch tag {
		case tagPhotometric:
			photometric = bo.Uint16(e[8:10])
			seenPhotometric = true
		case tagSamplesPerPixel:
			spp = bo.Uint16(e[8:10])
		}
	}
	return photometric, spp, seenPhotometric
}
