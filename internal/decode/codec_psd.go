//go:build !decode_minimal

package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/oov/psd"
)

const psdHeaderLen = 26

// Colour modes from the file header.
const (
	psdBitmap  = 0
	psdGray    = 1
	psdCMYK    = 4
	psdDuotone = 8
)

func init() {
	register(&codec{
		name:   "psd",
		exts:   []string{".psd", ".psb"},
		match:  isPSD,
		config: psdConfig,
		decode: psdDecode,
		native: psdChannels,
	})
}

// isPSD matches "8BPS" followed by version 1 (PSD) or 2 (PSB).
func isPSD(buf []byte) bool {
	return len(buf) >= 6 && bytes.Equal(buf[:4], []byte("8BPS")) &&
		buf[4] == 0 && (buf[5] == 1 || buf[5] == 2)
}

func psdConfig(buf []byte) (image.Config, error) {
	cfg, _, err := psd.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      cfg.Rect.Dx(),
		Height:     cfg.Rect.Dy(),
	}, nil
}

// psdDecode returns the merged composite. Layers are skipped.
func psdDecode(buf []byte) (image.Image, error) {
	doc, _, err := psd.Decode(bytes.NewReader(buf), &psd.DecodeOptions{SkipLayerImage: true})
	if err != nil {
		return nil, err
	}
	if doc.Picker == nil {
		return nil, errors.New("psd: file has no merged image")
	}
	return doc.Picker, nil
}

// psdChannels counts colour channels for the header's mode plus one
// alpha channel when the file stores any extra channel.
func psdChannels(buf []byte, _ image.Config) int {
	if len(buf) < psdHeaderLen {
		return 4
	}
	n := int(binary.BigEndian.Uint16(buf[12:14]))
	switch binary.BigEndian.Uint16(buf[24:26]) {
	case psdBitmap, psdGray, psdDuotone:
		if n >= 2 {
			return 2
		}
		return 1
	case psdCMYK:
		if n >= 5 {
			return 4
		}
		return 3
	}
	if n >= 4 {
		return 4
	}
	return 3
}
