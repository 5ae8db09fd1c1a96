package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

func init() {
	register(&codec{
		name:   "jpeg",
		exts:   []string{".jpg", ".jpeg"},
		match:  func(buf []byte) bool { return bytes.HasPrefix(buf, []byte{0xff, 0xd8, 0xff}) },
		config: configFrom(jpeg.DecodeConfig),
		decode: decodeFrom(jpeg.Decode),
		native: jpegChannels,
	})
}

// jpegChannels is 1 for single-component scans and 3 otherwise; CMYK and
// YCCK are delivered as RGB.
func jpegChannels(_ []byte, cfg image.Config) int {
	if cfg.ColorModel == color.GrayModel {
		return 1
	}
	return 3
}
