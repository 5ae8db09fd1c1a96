//go:build !decode_minimal

package decode

import (
	"bytes"
	"image/gif"
)

func init() {
	register(&codec{
		name: "gif",
		exts: []string{".gif"},
		match: func(buf []byte) bool {
			return bytes.HasPrefix(buf, []byte("GIF87a")) || bytes.HasPrefix(buf, []byte("GIF89a"))
		},
		// The config carries the logical screen size; the first frame is
		// composited onto it.
		config: configFrom(gif.DecodeConfig),
		decode: decodeFrom(gif.Decode),
		native: fixedChannels(4),
	})
}
