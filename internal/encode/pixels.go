package encode

import (
	"errors"
	"fmt"
	"image"

	"github.com/pspoerri/pixdecode/internal/decode"
)

// ToImage wraps a decoded pixel buffer as an image.Image.
//
// One and four channel buffers are shared with the returned image; two and
// three channel buffers are expanded into a new NRGBA/RGBA image.
func ToImage(img *decode.Image) (image.Image, error) {
	if img.Released() {
		return nil, errors.New("image has been released")
	}
	pix, width, height, channels := img.Pix, img.Width, img.Height, img.Channels
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if want := width * height * channels; len(pix) != want {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%dx%d",
			len(pix), want, width, height, channels)
	}

	rect := image.Rect(0, 0, width, height)
	switch channels {
	case 1:
		return &image.Gray{Pix: pix, Stride: width, Rect: rect}, nil
	case 4:
		return &image.NRGBA{Pix: pix, Stride: width * 4, Rect: rect}, nil
	case 2:
		m := image.NewNRGBA(rect)
		for i, o := 0, 0; i < len(pix); i, o = i+2, o+4 {
			y, a := pix[i], pix[i+1]
			m.Pix[o], m.Pix[o+1], m.Pix[o+2], m.Pix[o+3] = y, y, y, a
		}
		return m, nil
	default:
		// Opaque, so the premultiplied RGBA layout holds the values as-is.
		m := image.NewRGBA(rect)
		for i, o := 0, 0; i < len(pix); i, o = i+3, o+4 {
			m.Pix[o], m.Pix[o+1], m.Pix[o+2], m.Pix[o+3] = pix[i], pix[i+1], pix[i+2], 0xff
		}
		return m, nil
	}
}
