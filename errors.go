package imwatermark

import (
	"errors"
	"fmt"
)

// Errors returned by the codec.
var (
	ErrImageTooSmall            = errors.New("image too small, should be at least 256x256 pixels")
	ErrImageTooLarge            = errors.New("image too large, max size is 4096x4096 pixels")
	ErrInvalidQuality           = errors.New("jpeg quality must be between 0 and 100")
	ErrUnsupportedSubsampleMode = errors.New("unsupported chroma subsample mode")
	ErrUnsupportedFormat        = errors.New("unsupported output format")
	ErrEmptyPayload             = errors.New("empty watermark payload")
	ErrPayloadTooLarge          = errors.New("watermark payload exceeds block capacity")
	ErrInvalidBitLength         = errors.New("watermark bit length must be positive")
	ErrInvalidBlockSize         = errors.New("block size must be an even number >= 2")
)

// SizeError reports image dimensions rejected by the area bounds.
// It unwraps to ErrImageTooSmall or ErrImageTooLarge.
type SizeError struct {
	Width  int
	Height int
	err    error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%dx%d: %v", e.Width, e.Height, e.err)
}

func (e *SizeError) Unwrap() error {
	return e.err
}

// ValidateSize checks that width*height is within [256*256, 4096*4096].
func ValidateSize(width, height int) error {
	area := width * height
	if area < minArea {
		return &SizeError{Width: width, Height: height, err: ErrImageTooSmall}
	}
	if area > maxArea {
		return &SizeError{Width: width, Height: height, err: ErrImageTooLarge}
	}
	return nil
}

// ValidateQuality checks a JPEG quality value.
func ValidateQuality(quality int) error {
	if quality < 0 || quality > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}
	return nil
}
