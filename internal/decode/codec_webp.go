//go:build !decode_minimal

package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	"github.com/gen2brain/webp"
)

const (
	webpChunkStart = 12
	vp8xAlphaFlag  = 0x10
	vp8lAlphaBit   = 1 << 28
)

func init() {
	register(&codec{
		name:   "webp",
		exts:   []string{".webp"},
		match:  isWebP,
		config: configFrom(webp.DecodeConfig),
		decode: webpDecode,
		native: webpChannels,
	})
}

func isWebP(buf []byte) bool {
	return len(buf) >= webpChunkStart &&
		bytes.Equal(buf[0:4], []byte("RIFF")) &&
		bytes.Equal(buf[8:12], []byte("WEBP"))
}

// webpDecode returns the first frame as RGBA. webp.Decode hands back a
// 4:2:0 YCbCr view even for lossless files, which does not round-trip.
func webpDecode(buf []byte) (image.Image, error) {
	w, err := webp.DecodeAll(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	if len(w.Image) == 0 {
		return nil, errors.New("webp: no frames")
	}
	return w.Image[0], nil
}

// webpChannels reads the alpha hint from the first chunk: the VP8X feature
// flags for extended files, or the alpha_is_used bit of a lossless header.
// Simple lossy files never carry alpha.
func webpChannels(buf []byte, _ image.Config) int {
	if len(buf) < webpChunkStart+8 {
		return 3
	}
	payload := buf[webpChunkStart+8:]
	switch string(buf[webpChunkStart : webpChunkStart+4]) {
	case "VP8X":
		if len(payload) > 0 && payload[0]&vp8xAlphaFlag != 0 {
			return 4
		}
	case "VP8L":
		// One signature byte, then width/height/alpha/version packed LE.
		if len(payload) >= 5 && binary.LittleEndian.Uint32(payload[1:5])&vp8lAlphaBit != 0 {
			return 4
		}
	}
	return 3
}
