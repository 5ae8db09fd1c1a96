package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pspoerri/pixdecode/internal/decode"
	"github.com/pspoerri/pixdecode/internal/encode"
)

type memSource struct {
	path string
	data []byte
}

func (m memSource) Path() string  { return m.path }
func (m memSource) Bytes() []byte { return m.data }

// recordSink keeps every result it sees.
type recordSink struct {
	mu      sync.Mutex
	results []Result
	sizes   map[string]int
	failAt  int // return an error on this call number (1-based); 0 never
	calls   int
}

func (s *recordSink) WriteResult(res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.results = append(s.results, res)
	if s.sizes == nil {
		s.sizes = map[string]int{}
	}
	if res.Image != nil {
		s.sizes[res.Path] = len(res.Image.Pix)
	}
	if s.failAt != 0 && s.calls == s.failAt {
		return errors.New("disk full")
	}
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func testSources(t *testing.T, n int) []Source {
	sources := make([]Source, 0, n)
	for i := 0; i < n; i++ {
		sources = append(sources, memSource{
			path: filepath.Join("in", "img"+string(rune('a'+i))+".png"),
			data: pngBytes(t, 4+i, 3),
		})
	}
	return sources
}

func TestRun_DecodesAll(t *testing.T) {
	sources := testSources(t, 5)
	sources = append(sources, memSource{path: "in/bad.png", data: []byte("garbage")})

	sink := &recordSink{}
	stats, err := Run(context.Background(), Config{Channels: 3, Concurrency: 3}, sources, sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stats.Decoded != 5 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 5 decoded, 1 failed", stats)
	}
	var wantBytes int64
	for i := 0; i < 5; i++ {
		wantBytes += int64((4 + i) * 3 * 3)
	}
	if stats.PixelBytes != wantBytes {
		t.Errorf("PixelBytes = %d, want %d", stats.PixelBytes, wantBytes)
	}
	if len(sink.results) != 6 {
		t.Fatalf("sink saw %d results, want 6", len(sink.results))
	}
	for _, res := range sink.results {
		if res.Path == "in/bad.png" {
			if !errors.Is(res.Err, decode.ErrDecodeFailure) || res.Image != nil {
				t.Errorf("bad source result = %+v, want decode failure", res)
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("%s: unexpected error %v", res.Path, res.Err)
		}
	}
}

func TestRun_NoSources(t *testing.T) {
	if _, err := Run(context.Background(), Config{}, nil, &recordSink{}); err == nil {
		t.Error("expected error for empty source list")
	}
}

func TestRun_ReleasesImages(t *testing.T) {
	sink := &recordSink{}
	if _, err := Run(context.Background(), Config{Concurrency: 2}, testSources(t, 4), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, res := range sink.results {
		if sink.sizes[res.Path] == 0 {
			t.Errorf("%s: sink saw an empty pixel buffer", res.Path)
		}
		if !res.Image.Released() {
			t.Errorf("%s: image not released after WriteResult", res.Path)
		}
	}
}

func TestRun_SinkErrorStops(t *testing.T) {
	sink := &recordSink{failAt: 1}
	_, err := Run(context.Background(), Config{Concurrency: 1}, testSources(t, 8), sink)
	if err == nil {
		t.Fatal("expected sink error, got nil")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want it to carry the sink error", err)
	}
	if sink.calls >= 8 {
		t.Errorf("sink called %d times, want the batch to stop early", sink.calls)
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Concurrency: 2}, testSources(t, 3), &recordSink{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRun_Progress(t *testing.T) {
	sources := append(testSources(t, 3), memSource{path: "in/bad.png", data: []byte("garbage")})

	var out bytes.Buffer
	stats, err := Run(context.Background(), Config{Concurrency: 2, Progress: &out}, sources, &recordSink{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if !strings.HasSuffix(s, "\n") {
		t.Fatal("progress output should end with a newline")
	}
	// The last redraw carries the final counts.
	last := s[strings.LastIndex(s, "\r"):]
	for _, want := range []string{"Decoding", "4/4", "(1 failed)", FormatBytes(stats.PixelBytes)} {
		if !strings.Contains(last, want) {
			t.Errorf("final progress line %q missing %q", last, want)
		}
	}
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	enc, err := encode.NewEncoder("png", 0)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	sink := &DirSink{Dir: dir, Raw: true, Preview: enc, Verify: true}

	src := memSource{path: "/somewhere/photo.png", data: pngBytes(t, 6, 2)}
	if _, err := Run(context.Background(), Config{Channels: 4, Concurrency: 1}, []Source{src}, sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want, _ := decode.Decode(src.data, 4)

	raw, err := os.ReadFile(filepath.Join(dir, RawName("photo.png", 6, 2, 4)))
	if err != nil {
		t.Fatalf("reading raw dump: %v", err)
	}
	if !bytes.Equal(raw, want) {
		t.Error("raw dump differs from decoded pixels")
	}

	preview, err := os.ReadFile(filepath.Join(dir, "photo.png.png"))
	if err != nil {
		t.Fatalf("reading preview: %v", err)
	}
	got, dims := decode.Decode(preview, 4)
	if dims != (decode.Dimensions{Width: 6, Height: 2}) || !bytes.Equal(got, want) {
		t.Error("preview does not decode back to the dumped pixels")
	}
}

// fixedEncoder returns the same file whatever it is given.
type fixedEncoder struct{ data []byte }

func (e fixedEncoder) Encode(*decode.Image) ([]byte, error) { return e.data, nil }
func (fixedEncoder) Format() string                         { return "png" }
func (fixedEncoder) FileExtension() string                  { return ".png" }
func (fixedEncoder) Lossless() bool                         { return true }

func TestDirSink_VerifyRejectsBadPreview(t *testing.T) {
	dir := t.TempDir()
	sink := &DirSink{Dir: dir, Preview: fixedEncoder{data: pngBytes(t, 1, 1)}, Verify: true}

	src := memSource{path: "in/wide.png", data: pngBytes(t, 5, 2)}
	_, err := Run(context.Background(), Config{Concurrency: 1}, []Source{src}, sink)
	if err == nil || !strings.Contains(err.Error(), "checking preview of wide.png") {
		t.Fatalf("Run error = %v, want preview check failure", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "wide.png.png")); !os.IsNotExist(err) {
		t.Error("a preview that failed the check was written")
	}
}

func TestDirSink_SkipsFailures(t *testing.T) {
	dir := t.TempDir()
	sink := &DirSink{Dir: dir, Raw: true}
	if err := sink.WriteResult(Result{Path: "x.png", Err: decode.ErrDecodeFailure}); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("sink wrote %d files for a failed decode", len(entries))
	}
}

func TestDirSink_MissingDir(t *testing.T) {
	sink := &DirSink{Dir: filepath.Join(t.TempDir(), "nope"), Raw: true}
	img := &decode.Image{Pix: []byte{1}, Width: 1, Height: 1, Channels: 1}
	if err := sink.WriteResult(Result{Path: "a.png", Image: img}); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestRawName(t *testing.T) {
	if got := RawName("a.jpg", 640, 480, 3); got != "a.jpg.640x480x3.raw" {
		t.Errorf("RawName = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
		{5 << 30, "5.0 GB"},
		{2 << 40, "2048.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "1s"},
		{45 * time.Second, "45s"},
		{83 * time.Second, "1m23s"},
		{10*time.Minute + 5*time.Second, "10m05s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
