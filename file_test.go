package imwatermark

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writePNG(t *testing.T, path string, px *Pixels) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, px.Image()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeFile_DecodeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, grayPixels(512, 512, 128))

	for _, out := range []string{"marked.png", "marked.jpg", "marked.JPEG"} {
		t.Run(out, func(t *testing.T) {
			marked := filepath.Join(dir, out)
			if err := EncodeFile(src, marked, func(o *FileOptions) { o.Text = "TEST" }); err != nil {
				t.Fatalf("encode: %v", err)
			}

			txt := filepath.Join(dir, out+".txt")
			text, err := DecodeFile(marked, txt, 4)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if text != "TEST" {
				t.Fatalf("decoded %q, want %q", text, "TEST")
			}

			b, err := os.ReadFile(txt)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != "TEST" {
				t.Fatalf("text file contains %q", b)
			}
		})
	}
}

func TestEncodeFile_defaults(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, grayPixels(256, 256, 128))

	marked := filepath.Join(dir, "marked.png")
	if err := EncodeFile(src, marked, func(o *FileOptions) { o.Text = "" }); err != nil {
		t.Fatal(err)
	}
	text, err := DecodeFile(marked, filepath.Join(dir, "wm.txt"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if text != "SDV2" {
		t.Fatalf("decoded %q, want default watermark", text)
	}
}

func TestEncodeFile_quality(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, noisePixels(256, 256))

	for _, q := range []int{0, 100} {
		out := filepath.Join(dir, "q.jpg")
		if err := EncodeFile(src, out, func(o *FileOptions) { o.Quality = q }); err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
	}

	for _, out := range []string{"bad.jpg", "bad.png"} {
		out = filepath.Join(dir, out)
		err := EncodeFile(src, out, func(o *FileOptions) { o.Quality = 101 })
		if !errors.Is(err, ErrInvalidQuality) {
			t.Fatalf("%s: got %v, want ErrInvalidQuality", out, err)
		}
		if _, err := os.Stat(out); !os.IsNotExist(err) {
			t.Fatalf("%s must not be written", out)
		}
	}
}

func TestEncodeFile_errors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, grayPixels(256, 256, 128))

	if err := EncodeFile(src, filepath.Join(dir, "out.gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}

	small := filepath.Join(dir, "small.png")
	writePNG(t, small, grayPixels(100, 100, 128))
	if err := EncodeFile(small, filepath.Join(dir, "out.png")); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("got %v, want ErrImageTooSmall", err)
	}
	if _, err := DecodeFile(small, filepath.Join(dir, "out.txt"), 4); !errors.Is(err, ErrImageTooSmall) {
		t.Fatalf("got %v, want ErrImageTooSmall", err)
	}

	if err := EncodeFile(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png")); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestLoadPixels_bmp(t *testing.T) {
	src := noisePixels(256, 256)

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src.Image()); err != nil {
		t.Fatal(err)
	}

	px, format, err := LoadPixels(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if format != "bmp" {
		t.Fatalf("format %q", format)
	}
	if !bytes.Equal(px.Pix, src.Pix) {
		t.Fatalf("pixels differ after bmp round trip")
	}
}

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]string{
		"a.jpg":     FormatJPEG,
		"a.JPG":     FormatJPEG,
		"b/c.jpeg":  FormatJPEG,
		"image.png": FormatPNG,
		"image.PNG": FormatPNG,
	} {
		got, err := FormatForPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v", path, got, err)
		}
	}
	for _, path := range []string{"a.webp", "noext", "a.bmp"} {
		if _, err := FormatForPath(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: got %v", path, err)
		}
	}
}

func TestEncodeFile_jpegHeaders(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writePNG(t, src, noisePixels(256, 256))

	for _, q := range []int{50, 75, 100} {
		out := filepath.Join(dir, "out.jpg")
		if err := EncodeFile(src, out, func(o *FileOptions) { o.Quality = q }); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		info, err := ProbeJPEG(data)
		if err != nil {
			t.Fatal(err)
		}
		if info.Width != 256 || info.Height != 256 || info.Components != 3 {
			t.Fatalf("unexpected frame %+v", info)
		}
		if !info.FullChroma() {
			t.Fatalf("quality %d: chroma is subsampled: %+v", q, info.Sampling)
		}
		if d := info.Quality - q; d < -2 || d > 2 {
			t.Fatalf("estimated quality %d, want %d", info.Quality, q)
		}
	}
}

func TestProbeJPEG_invalid(t *testing.T) {
	if _, err := ProbeJPEG([]byte("not a jpeg")); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ProbeJPEG([]byte{0xFF, 0xD8, 0xFF, 0xD9}); err == nil {
		t.Fatal("expected error for missing frame header")
	}
}
