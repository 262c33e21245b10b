package imwatermark

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder.
	_ "image/jpeg" // Register JPEG decoder.
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder.
	_ "golang.org/x/image/tiff" // Register TIFF decoder.
	_ "golang.org/x/image/webp" // Register WebP decoder.

	"github.com/vearutop/imwatermark/internal/jpegx"
)

// Output container formats.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// FormatForPath returns the output container format implied by the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadPixels decodes an image and converts it to RGB.
// It returns the pixels and the name of the source format.
func LoadPixels(r io.Reader) (*Pixels, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return LoadPixelsBytes(data)
}

// LoadPixelsBytes decodes image data and converts it to RGB.
// Dimensions are validated before the pixel data is decoded.
func LoadPixelsBytes(data []byte) (*Pixels, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if err := ValidateSize(cfg.Width, cfg.Height); err != nil {
		return nil, format, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, err
	}
	return FromImage(img), format, nil
}

// LoadPixelsFile reads and decodes an image file.
func LoadPixelsFile(path string) (*Pixels, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	px, _, err := LoadPixelsBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return px, nil
}

// SavePixels encodes pixels as JPEG (4:4:4 chroma, given quality) or PNG.
func SavePixels(w io.Writer, px *Pixels, format string, quality int) error {
	switch format {
	case FormatJPEG:
		if err := ValidateQuality(quality); err != nil {
			return err
		}
		return jpegx.Encode(w, px.Image(), jpegx.EncoderOptions{
			Quality:  quality,
			Sampling: jpegx.Sampling444,
		})
	case FormatPNG:
		return png.Encode(w, px.Image())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeFile reads an image from inPath, embeds the watermark text and writes the result
// to outPath. The output format is chosen by the outPath extension (.jpg, .jpeg or .png).
// Nothing is written if any step fails.
func EncodeFile(inPath, outPath string, opts ...func(o *FileOptions)) error {
	opt := FileOptions{
		Text:    defaultText,
		Quality: defaultQuality,
	}
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Text == "" {
		opt.Text = defaultText
	}
	if err := ValidateQuality(opt.Quality); err != nil {
		return err
	}
	format, err := FormatForPath(outPath)
	if err != nil {
		return err
	}

	px, err := LoadPixelsFile(inPath)
	if err != nil {
		return err
	}
	marked, err := EncodeText(px, opt.Text, opt.Codec...)
	if err != nil {
		return fmt.Errorf("embed watermark: %w", err)
	}

	var buf bytes.Buffer
	if err := SavePixels(&buf, marked, format, opt.Quality); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return os.WriteFile(filepath.Clean(outPath), buf.Bytes(), 0o644)
}

// DecodeFile recovers byteLen bytes of watermark text from inPath and writes the text to
// outPath. A byteLen <= 0 defaults to 4.
func DecodeFile(inPath, outPath string, byteLen int, opts ...func(o *Options)) (string, error) {
	if byteLen <= 0 {
		byteLen = defaultByteLength
	}
	opt, err := buildOptions(opts)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Clean(inPath))
	if err != nil {
		return "", err
	}
	px, format, err := LoadPixelsBytes(data)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", inPath, err)
	}
	if format == FormatJPEG {
		if info, err := ProbeJPEG(data); err == nil && !info.FullChroma() {
			opt.Logger.Warn().
				Int("quality", info.Quality).
				Str("input", inPath).
				Msg("input jpeg has subsampled chroma, watermark may be degraded")
		}
	}

	text, err := DecodeText(px, byteLen, opts...)
	if err != nil {
		return "", fmt.Errorf("extract watermark: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(outPath), []byte(text), 0o644); err != nil {
		return "", err
	}
	return text, nil
}
