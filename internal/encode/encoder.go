// Package encode writes decoded pixel buffers out as viewable image files.
package encode

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pspoerri/pixdecode/internal/decode"
)

const defaultQuality = 85

// Encoder turns a decoded pixel buffer into an image file.
type Encoder interface {
	Encode(img *decode.Image) ([]byte, error)
	Format() string
	FileExtension() string
	// Lossless reports whether the file decodes back to exactly the same
	// pixels at the same channel count.
	Lossless() bool
}

// NewEncoder returns the preview encoder for format. quality applies to
// jpeg and webp; 0 selects the default and webp at 100 is lossless.
func NewEncoder(format string, quality int) (Encoder, error) {
	if quality <= 0 {
		quality = defaultQuality
	}
	quality = min(quality, 100)

	switch strings.ToLower(format) {
	case "png":
		return pngEncoder{}, nil
	case "jpeg", "jpg":
		return jpegEncoder{quality: quality}, nil
	case "webp":
		return webpEncoder{quality: quality}, nil
	default:
		return nil, fmt.Errorf("unsupported preview format %q (supported: png, jpeg, webp)", format)
	}
}

// Verify decodes data, a preview enc produced from img, and checks it
// against img. Dimensions must always match; pixels only when enc is
// lossless. The preview format has to be compiled into package decode.
func Verify(enc Encoder, data []byte, img *decode.Image) error {
	got, err := decode.DecodeImage(data, img.Channels)
	if err != nil {
		return fmt.Errorf("%s preview does not decode: %w", enc.Format(), err)
	}
	defer got.Release()

	if got.Width != img.Width || got.Height != img.Height {
		return fmt.Errorf("%s preview is %dx%d, want %dx%d",
			enc.Format(), got.Width, got.Height, img.Width, img.Height)
	}
	if enc.Lossless() && !bytes.Equal(got.Pix, img.Pix) {
		return fmt.Errorf("%s preview pixels differ from the decoded image", enc.Format())
	}
	return nil
}
