//go:build !decode_minimal

package decode

import (
	"bytes"
	"image"
	"strconv"

	"github.com/spakin/netpbm"
)

func init() {
	register(&codec{
		name:   "pnm",
		exts:   []string{".pbm", ".pgm", ".ppm", ".pnm", ".pam"},
		match:  isPNM,
		config: configFrom(netpbm.DecodeConfig),
		decode: pnmDecode,
		native: pnmChannels,
	})
}

// isPNM accepts the plain (P1-P3) and raw (P4-P6) Netpbm variants and PAM.
func isPNM(buf []byte) bool {
	if len(buf) < 3 || buf[0] != 'P' || buf[1] < '1' || buf[1] > '7' {
		return false
	}
	switch buf[2] {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func pnmDecode(buf []byte) (image.Image, error) {
	img, err := netpbm.Decode(bytes.NewReader(buf), nil)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func pnmChannels(buf []byte, _ image.Config) int {
	switch buf[1] {
	case '3', '6':
		return 3
	case '7':
		return pamDepth(buf)
	}
	return 1
}

// pamDepth reads the DEPTH field of a PAM header.
func pamDepth(buf []byte) int {
	hdr := buf
	if i := bytes.Index(buf, []byte("ENDHDR")); i >= 0 {
		hdr = buf[:i]
	}
	for _, line := range bytes.Split(hdr, []byte{'\n'}) {
		f := bytes.Fields(line)
		if len(f) != 2 || string(f[0]) != "DEPTH" {
			continue
		}
		n, err := strconv.Atoi(string(f[1]))
		if err != nil {
			break
		}
		return min(max(n, 1), 4)
	}
	return 3
}
