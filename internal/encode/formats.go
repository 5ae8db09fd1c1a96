package encode

import (
	"bytes"
	"image/jpeg"
	"image/png"

	"github.com/gen2brain/webp"

	"github.com/pspoerri/pixdecode/internal/decode"
)

// pngEncoder writes every channel layout without loss. Gray+alpha is
// stored as RGBA with equal colour samples.
type pngEncoder struct{}

func (pngEncoder) Encode(img *decode.Image) ([]byte, error) {
	m, err := ToImage(img)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngEncoder) Format() string        { return "png" }
func (pngEncoder) FileExtension() string { return ".png" }
func (pngEncoder) Lossless() bool        { return true }

// jpegEncoder composites any alpha over black.
type jpegEncoder struct {
	quality int
}

func (e jpegEncoder) Encode(img *decode.Image) ([]byte, error) {
	m, err := ToImage(img)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, m, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jpegEncoder) Format() string        { return "jpeg" }
func (jpegEncoder) FileExtension() string { return ".jpg" }
func (jpegEncoder) Lossless() bool        { return false }

// webpEncoder goes through gen2brain/webp, which loads a system libwebp
// via purego when present and runs a WASM build otherwise.
type webpEncoder struct {
	quality int
}

func (e webpEncoder) Encode(img *decode.Image) ([]byte, error) {
	m, err := ToImage(img)
	if err != nil {
		return nil, err
	}
	lossless := e.quality >= 100
	var buf bytes.Buffer
	opts := webp.Options{Quality: e.quality, Lossless: lossless, Exact: lossless}
	if err := webp.Encode(&buf, m, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (webpEncoder) Format() string        { return "webp" }
func (webpEncoder) FileExtension() string { return ".webp" }

// Lossless is false even at quality 100: the decoder hands back
// premultiplied RGBA, so translucent pixels do not survive exactly.
func (webpEncoder) Lossless() bool { return false }
