package main

import (
	"fmt"
	"os"

	"github.com/pspoerri/pixdecode/internal/decode"
	"github.com/pspoerri/pixdecode/internal/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: imginfo <file...>\n")
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := describe(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(path string) error {
	f, err := source.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := decode.Probe(f.Bytes())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("  Format:   %s\n", info.Format)
	fmt.Printf("  Size:     %d x %d\n", info.Width, info.Height)
	fmt.Printf("  Channels: %d (native)\n", info.Channels)
	fmt.Printf("  Encoded:  %d bytes\n", f.Size())

	img, err := decode.DecodeImage(f.Bytes(), 0)
	if err != nil {
		fmt.Printf("  Decode: ERROR: %v\n", err)
		return nil
	}
	defer img.Release()
	fmt.Printf("  Decode: OK, %d pixel bytes\n", len(img.Pix))
	samplePixels(img, 5)
	return nil
}

func samplePixels(img *decode.Image, count int) {
	step := img.Width / (count + 1)
	if step < 1 {
		step = 1
	}
	fmt.Printf("  Sample pixels (diagonal):\n")
	for i := 0; i < count; i++ {
		x := (i + 1) * step
		y := (i + 1) * step
		if x >= img.Width || y >= img.Height {
			break
		}
		o := (y*img.Width + x) * img.Channels
		fmt.Printf("    (%d,%d): %v\n", x, y, img.Pix[o:o+img.Channels])
	}
}
