package decode

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// PNG colour types from the IHDR chunk.
const (
	pngGray       = 0
	pngTrueColor  = 2
	pngPaletted   = 3
	pngGrayAlpha  = 4
	pngTrueAlpha  = 6
	pngIHDREnd    = 8 + 8 + 13 // signature, chunk header, IHDR body
	pngColorIndex = 8 + 8 + 9
)

func init() {
	register(&codec{
		name:   "png",
		exts:   []string{".png"},
		match:  func(buf []byte) bool { return bytes.HasPrefix(buf, pngMagic) },
		config: configFrom(png.DecodeConfig),
		decode: decodeFrom(png.Decode),
		native: pngChannels,
	})
}

// pngChannels reads the channel count from IHDR. The Go decoder widens
// gray+alpha and RGB-with-tRNS to NRGBA, so the colour model alone cannot
// tell them apart.
func pngChannels(buf []byte, _ image.Config) int {
	if len(buf) < pngIHDREnd {
		return 4
	}
	var n int
	switch buf[pngColorIndex] {
	case pngGray:
		n = 1
	case pngGrayAlpha:
		n = 2
	case pngTrueColor, pngPaletted:
		n = 3
	case pngTrueAlpha:
		return 4
	default:
		return 4
	}
	if hasPNGChunk(buf, "tRNS") {
		n++
	}
	return n
}

// hasPNGChunk reports whether a chunk of the given type appears before the
// image data.
func hasPNGChunk(buf []byte, typ string) bool {
	pos := len(pngMagic)
	for pos+8 <= len(buf) {
		length := int(binary.BigEndian.Uint32(buf[pos:]))
		name := string(buf[pos+4 : pos+8])
		switch name {
		case typ:
			return true
		case "IDAT", "IEND":
			return false
		}
		if length < 0 || length > len(buf)-pos-12 {
			return false
		}
		pos += 12 + length
	}
	return false
}
