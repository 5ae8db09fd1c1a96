package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pspoerri/pixdecode/internal/encode"
)

// DirSink writes decoded pixels into Dir.
//
// With Raw set, each image is dumped as "<name>.<W>x<H>x<C>.raw" holding
// the bare pixel buffer. With Preview set, it is also re-encoded as
// "<name><ext>" for viewing. <name> is the source file's base name, so
// sources in one batch should have distinct base names.
type DirSink struct {
	Dir     string
	Raw     bool
	Preview encode.Encoder
	// Verify decodes each preview again and checks it against the pixels
	// before it is written.
	Verify bool
}

func (s *DirSink) WriteResult(res Result) error {
	if res.Err != nil {
		return nil
	}
	img := res.Image
	name := filepath.Base(res.Path)

	if s.Raw {
		p := filepath.Join(s.Dir, RawName(name, img.Width, img.Height, img.Channels))
		if err := os.WriteFile(p, img.Pix, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
	}

	if s.Preview != nil {
		data, err := s.Preview.Encode(img)
		if err != nil {
			return fmt.Errorf("encoding %s preview of %s: %w", s.Preview.Format(), name, err)
		}
		if s.Verify {
			if err := encode.Verify(s.Preview, data, img); err != nil {
				return fmt.Errorf("checking preview of %s: %w", name, err)
			}
		}
		p := filepath.Join(s.Dir, name+s.Preview.FileExtension())
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
	}
	return nil
}

// RawName is the file name DirSink uses for a raw pixel dump.
func RawName(name string, width, height, channels int) string {
	return fmt.Sprintf("%s.%dx%dx%d.raw", name, width, height, channels)
}
