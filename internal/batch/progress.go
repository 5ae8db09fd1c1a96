package batch

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const progressWidth = 30

// progressBar redraws a one-line decode status (files done, failures,
// pixel bytes produced) until Finish. Counts come from the stats func,
// which must be safe to call while workers run.
type progressBar struct {
	out     io.Writer
	total   int64
	stats   func() Stats
	start   time.Time
	done    chan struct{}
	stopped chan struct{}
}

func startProgress(out io.Writer, total int64, stats func() Stats) *progressBar {
	pb := &progressBar{
		out:     out,
		total:   total,
		stats:   stats,
		start:   time.Now(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go pb.run()
	return pb
}

// Finish stops the refresh loop and leaves the final state on its own line.
func (pb *progressBar) Finish() {
	close(pb.done)
	<-pb.stopped
	pb.draw()
	fmt.Fprintln(pb.out)
}

func (pb *progressBar) run() {
	defer close(pb.stopped)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-pb.done:
			return
		case <-ticker.C:
			pb.draw()
		}
	}
}

func (pb *progressBar) draw() {
	s := pb.stats()
	n := s.Decoded + s.Failed

	filled := progressWidth
	if pb.total > 0 && n < pb.total {
		filled = int(n * progressWidth / pb.total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\rDecoding [%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat(".", progressWidth-filled), n, pb.total)
	if s.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", s.Failed)
	}
	fmt.Fprintf(&b, "  %s  %s\033[K", FormatBytes(s.PixelBytes), formatDuration(time.Since(pb.start)))
	io.WriteString(pb.out, b.String())
}

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// formatDuration formats a duration concisely (e.g. "1m23s", "45s", "0s").
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
