package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/pspoerri/pixdecode/internal/batch"
	"github.com/pspoerri/pixdecode/internal/decode"
	"github.com/pspoerri/pixdecode/internal/encode"
	"github.com/pspoerri/pixdecode/internal/source"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		channels    int
		outDir      string
		raw         bool
		preview     string
		verify      bool
		quality     int
		concurrency int
		verbose     bool
		progress    bool
		showVersion bool
		showFormats bool
		cpuProfile  string
	)

	flag.IntVar(&channels, "channels", 0, "Output channels: 0 native, 1 gray, 2 gray+alpha, 3 RGB, 4 RGBA")
	flag.StringVar(&outDir, "out", ".", "Output directory")
	flag.BoolVar(&raw, "raw", true, "Write raw pixel dumps (<name>.<W>x<H>x<C>.raw)")
	flag.StringVar(&preview, "preview", "", "Also write a re-encoded preview: png, jpeg, webp")
	flag.BoolVar(&verify, "verify", false, "Decode each preview again and check it against the pixels")
	flag.IntVar(&quality, "quality", 85, "JPEG/WebP preview quality 1-100 (WebP 100 = lossless)")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Number of parallel workers")
	flag.BoolVar(&verbose, "verbose", false, "Verbose output")
	flag.BoolVar(&progress, "progress", false, "Show a progress bar on stderr")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&showFormats, "formats", false, "List the image formats compiled into this build and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: imgdecode [flags] <input-dir-or-files...>\n\n")
		fmt.Fprintf(os.Stderr, "Decode images to flat 8-bit pixel buffers.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("imgdecode %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}
	if showFormats {
		fmt.Println(strings.Join(decode.Formats(), "\n"))
		os.Exit(0)
	}

	if channels < 0 || channels > 4 {
		log.Fatalf("-channels must be between 0 and 4, got %d", channels)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("Creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
		if verbose {
			log.Printf("CPU profiling enabled → %s", cpuProfile)
		}
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	sink := &batch.DirSink{Dir: outDir, Raw: raw}
	if preview != "" {
		enc, err := encode.NewEncoder(preview, quality)
		if err != nil {
			log.Fatalf("Preview: %v", err)
		}
		sink.Preview = enc
		sink.Verify = verify
		if verify && !slices.Contains(decode.Formats(), enc.Format()) {
			log.Fatalf("-verify: %s is not compiled into this build", enc.Format())
		}
	}
	if !sink.Raw && sink.Preview == nil {
		log.Fatal("Nothing to write: enable -raw or set -preview")
	}

	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		log.Fatalf("Output directory %s does not exist", outDir)
	}

	paths, err := source.Collect(args, decode.Extensions())
	if err != nil {
		log.Fatalf("Collecting input files: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("No image files found in the specified inputs")
	}
	if verbose {
		log.Printf("Found %d file(s); formats: %s", len(paths), strings.Join(decode.Formats(), ", "))
	}

	start := time.Now()
	files, err := source.OpenAll(paths)
	if err != nil {
		log.Fatalf("Opening inputs:\n%v", err)
	}
	defer source.CloseAll(files)

	sources := make([]batch.Source, len(files))
	for i, f := range files {
		sources[i] = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := batch.Config{
		Channels:    channels,
		Concurrency: concurrency,
		Verbose:     verbose,
	}
	if progress {
		cfg.Progress = os.Stderr
	}

	stats, err := batch.Run(ctx, cfg, sources, sink)
	if err != nil {
		log.Printf("Decoding: %v", err)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	fmt.Printf("Done: %d decoded, %d failed, %s of pixels, %v → %s\n",
		stats.Decoded, stats.Failed, batch.FormatBytes(stats.PixelBytes), elapsed, outDir)
	if stats.Failed > 0 && !verbose {
		log.Printf("%d file(s) failed to decode; rerun with -verbose for details", stats.Failed)
	}

	if err != nil || stats.Failed > 0 {
		// os.Exit skips the deferred cleanup.
		pprof.StopCPUProfile()
		source.CloseAll(files)
		os.Exit(1)
	}
}
