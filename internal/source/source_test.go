package source

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	want := []byte("\x89PNG\r\n\x1a\nnot really a png")
	p := writeFile(t, dir, "a.png", want)

	f, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(f.Bytes(), want) {
		t.Errorf("Bytes() = %q, want %q", f.Bytes(), want)
	}
	if f.Path() != p {
		t.Errorf("Path() = %q, want %q", f.Path(), p)
	}
	if f.Size() != len(want) {
		t.Errorf("Size() = %d, want %d", f.Size(), len(want))
	}

	if err := f.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if f.Bytes() != nil {
		t.Error("Bytes() after Close should be nil")
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.png", nil)

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing", filepath.Join(dir, "nope.png"), "opening"},
		{"empty", empty, "empty file"},
		{"directory", dir, "is a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestOpenAll(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jpg", []byte{0xff, 0xd8, 0xff})
	b := writeFile(t, dir, "b.jpg", []byte{0xff, 0xd8, 0xff, 0xe0})

	files, err := OpenAll([]string{a, b})
	if err != nil {
		t.Fatalf("OpenAll: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	CloseAll(files)

	// One bad path fails the whole set and every failure is reported.
	missing1 := filepath.Join(dir, "x.jpg")
	missing2 := filepath.Join(dir, "y.jpg")
	files, err = OpenAll([]string{a, missing1, missing2})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if files != nil {
		t.Errorf("files = %v, want nil", files)
	}
	for _, p := range []string{missing1, missing2} {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("error %q does not mention %s", err, p)
		}
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", []byte{1})
	writeFile(t, dir, "b.JPG", []byte{1})
	writeFile(t, dir, "notes.txt", []byte{1})
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	explicit := writeFile(t, t.TempDir(), "raw.bin", []byte{1})

	got, err := Collect([]string{dir, explicit}, []string{".png", ".jpg"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		explicit,
	}
	if !slices.Equal(got, want) {
		t.Errorf("Collect = %v, want %v", got, want)
	}

	if _, err := Collect([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Error("expected error for missing path")
	}
}
