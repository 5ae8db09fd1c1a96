package decode

import (
	"bytes"
	"image"
	"io"
)

// codec binds one container format to its decoder. Codecs register
// themselves from init functions in build-tagged files, so the set of
// formats is decided when the binary is compiled.
type codec struct {
	name   string
	exts   []string
	match  func(buf []byte) bool
	config func(buf []byte) (image.Config, error)
	decode func(buf []byte) (image.Image, error)
	// native returns the channel count the image carries as encoded.
	// It is only called after config succeeded on the same buffer.
	native func(buf []byte, cfg image.Config) int
	// fallback codecs have no signature. They are tried only after every
	// codec with one has refused the buffer.
	fallback bool
}

var codecs []*codec

func register(c *codec) {
	codecs = append(codecs, c)
}

// lookup returns the first registered codec whose signature matches buf.
func lookup(buf []byte) *codec {
	for _, c := range codecs {
		if !c.fallback && c.match(buf) {
			return c
		}
	}
	for _, c := range codecs {
		if c.fallback && c.match(buf) {
			return c
		}
	}
	return nil
}

// Formats returns the names of the codecs compiled into this build.
func Formats() []string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.name
	}
	return names
}

// Extensions returns the lower-case file extensions (with leading dot)
// of the codecs compiled into this build.
func Extensions() []string {
	var exts []string
	for _, c := range codecs {
		exts = append(exts, c.exts...)
	}
	return exts
}

func configFrom(fn func(io.Reader) (image.Config, error)) func([]byte) (image.Config, error) {
	return func(buf []byte) (image.Config, error) {
		return fn(bytes.NewReader(buf))
	}
}

func decodeFrom(fn func(io.Reader) (image.Image, error)) func([]byte) (image.Image, error) {
	return func(buf []byte) (image.Image, error) {
		return fn(bytes.NewReader(buf))
	}
}

func fixedChannels(n int) func([]byte, image.Config) int {
	return func([]byte, image.Config) int { return n }
}
