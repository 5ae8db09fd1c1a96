// Package decode turns an encoded image held in memory into a flat 8-bit
// pixel buffer.
//
// Output pixels are row-major, top-to-bottom, with channels interleaved per
// pixel. The set of recognised container formats is fixed at build time:
// the default build carries every codec in this package, while building
// with -tags decode_minimal restricts it to PNG and JPEG.
package decode

import (
	"errors"
	"fmt"
)

// ErrDecodeFailure is the single failure class of this package. Every error
// returned by DecodeImage and Probe wraps it.
var ErrDecodeFailure = errors.New("decode failure")

// Dimensions is the width and height of a decoded image.
type Dimensions struct {
	Width  int
	Height int
}

// Image is a decoded pixel buffer owned by the caller.
type Image struct {
	Pix      []byte // len(Pix) == Width*Height*Channels
	Width    int
	Height   int
	Channels int
	Format   string // codec that produced the pixels, e.g. "png"
}

// Dimensions returns the image's width and height.
func (img *Image) Dimensions() Dimensions {
	return Dimensions{Width: img.Width, Height: img.Height}
}

// Release drops the pixel buffer. Calling it again is a no-op.
func (img *Image) Release() {
	if img == nil {
		return
	}
	img.Pix = nil
	img.Width, img.Height, img.Channels = 0, 0, 0
}

// Released reports whether Release has been called.
func (img *Image) Released() bool {
	return img == nil || img.Pix == nil
}

// Decode decodes buf into a pixel buffer with the requested number of
// channels (0 keeps the image's native channel count, otherwise 1 gray,
// 2 gray+alpha, 3 RGB, 4 RGBA).
//
// On any failure it returns nil and zero dimensions; there is no partial
// result. Use DecodeImage to learn why a decode failed.
func Decode(buf []byte, channels int) ([]byte, Dimensions) {
	img, err := DecodeImage(buf, channels)
	if err != nil {
		return nil, Dimensions{}
	}
	return img.Pix, img.Dimensions()
}

// DecodeImage is Decode with the failure cause kept. The returned error
// always wraps ErrDecodeFailure.
func DecodeImage(buf []byte, channels int) (img *Image, err error) {
	if channels < 0 || channels > 4 {
		return nil, failf("requested %d channels, want 0-4", channels)
	}
	if len(buf) == 0 {
		return nil, failf("empty buffer")
	}
	c := lookup(buf)
	if c == nil {
		return nil, failf("unknown or unsupported image format")
	}

	// Third-party codecs occasionally panic on hostile input.
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, failf("%s: decoder panic: %v", c.name, r)
		}
	}()

	cfg, err := c.config(buf)
	if err != nil {
		return nil, wrap(c.name, "reading header", err)
	}
	if err := checkLimits(cfg.Width, cfg.Height); err != nil {
		return nil, wrap(c.name, "checking limits", err)
	}

	src, err := c.decode(buf)
	if err != nil {
		return nil, wrap(c.name, "decoding", err)
	}

	want := channels
	if want == 0 {
		want = c.native(buf, cfg)
	}
	pix := toChannels(src, cfg.Width, cfg.Height, want)

	return &Image{
		Pix:      pix,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Channels: want,
		Format:   c.name,
	}, nil
}

// Info describes an encoded image without decoding its pixels.
type Info struct {
	Format   string
	Width    int
	Height   int
	Channels int // native channel count
}

// Probe reads only the header of buf.
func Probe(buf []byte) (info Info, err error) {
	if len(buf) == 0 {
		return Info{}, failf("empty buffer")
	}
	c := lookup(buf)
	if c == nil {
		return Info{}, failf("unknown or unsupported image format")
	}

	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, failf("%s: decoder panic: %v", c.name, r)
		}
	}()

	cfg, err := c.config(buf)
	if err != nil {
		return Info{}, wrap(c.name, "reading header", err)
	}
	return Info{
		Format:   c.name,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Channels: c.native(buf, cfg),
	}, nil
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecodeFailure, fmt.Sprintf(format, args...))
}

func wrap(codec, op string, err error) error {
	return fmt.Errorf("%w: %s: %s: %w", ErrDecodeFailure, codec, op, err)
}
