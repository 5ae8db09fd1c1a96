// Package batch decodes many encoded images concurrently and hands each
// result to a Sink.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/pspoerri/pixdecode/internal/decode"
)

// Config holds batch decoding configuration.
type Config struct {
	Channels    int // requested channels, 0 = native
	Concurrency int
	Verbose     bool
	Progress    io.Writer // progress bar destination; nil disables it
}

// Source is an encoded image held in memory (implemented by source.File).
type Source interface {
	Path() string
	Bytes() []byte
}

// Result is the outcome of decoding one source. Exactly one of Image and
// Err is set.
type Result struct {
	Path  string
	Image *decode.Image
	Err   error
}

// Sink consumes results. WriteResult is called from several goroutines at
// once. The image is released as soon as WriteResult returns, so a sink
// must not keep Image.Pix.
type Sink interface {
	WriteResult(res Result) error
}

// Stats holds batch statistics.
type Stats struct {
	Decoded    int64
	Failed     int64
	PixelBytes int64
}

// Run decodes every source with cfg.Concurrency workers.
//
// A source that fails to decode is counted and passed to the sink; it does
// not stop the batch. The first sink error, or cancellation of ctx, stops
// feeding new work and is returned once the workers have drained.
func Run(ctx context.Context, cfg Config, sources []Source, sink Sink) (Stats, error) {
	if len(sources) == 0 {
		return Stats{}, fmt.Errorf("no source files")
	}
	workers := cfg.Concurrency
	if workers < 1 {
		workers = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var decoded, failed, pixelBytes atomic.Int64
	snapshot := func() Stats {
		return Stats{
			Decoded:    decoded.Load(),
			Failed:     failed.Load(),
			PixelBytes: pixelBytes.Load(),
		}
	}

	var pb *progressBar
	if cfg.Progress != nil {
		pb = startProgress(cfg.Progress, int64(len(sources)), snapshot)
	}

	jobs := make(chan Source, workers*2)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				img, err := decode.DecodeImage(src.Bytes(), cfg.Channels)
				if err != nil {
					failed.Add(1)
					if cfg.Verbose {
						log.Printf("%s: %v", src.Path(), err)
					}
				} else {
					decoded.Add(1)
					pixelBytes.Add(int64(len(img.Pix)))
				}

				werr := sink.WriteResult(Result{Path: src.Path(), Image: img, Err: err})
				img.Release()
				if werr != nil {
					select {
					case errCh <- fmt.Errorf("writing result for %s: %w", src.Path(), werr):
					default:
					}
					cancel()
					return
				}
			}
		}()
	}

feed:
	for _, s := range sources {
		select {
		case jobs <- s:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if pb != nil {
		pb.Finish()
	}

	stats := snapshot()

	select {
	case err := <-errCh:
		return stats, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
