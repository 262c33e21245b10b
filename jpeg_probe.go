package imwatermark

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vearutop/imwatermark/internal/jpegx"
)

// SamplingFactor is a JPEG component sampling factor.
type SamplingFactor = jpegx.SamplingFactor

// JPEGInfo describes a baseline JPEG stream.
type JPEGInfo struct {
	Width, Height int
	Components    int
	Sampling      [3]SamplingFactor
	// Quality is estimated from the luminance quantization table, 0 if unknown.
	Quality int
}

// FullChroma reports whether chroma is stored at full resolution (4:4:4).
func (i JPEGInfo) FullChroma() bool {
	return i.Components == 1 || i.Sampling == jpegx.Sampling444
}

// ProbeJPEG reads frame and quantization headers without decoding the scan.
func ProbeJPEG(data []byte) (*JPEGInfo, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errors.New("invalid jpeg")
	}
	var (
		info     JPEGInfo
		lumQuant [64]byte
		hasQuant bool
		hasSOF   bool
	)
	pos := 2
	for pos+3 < len(data) {
		if data[pos] != 0xFF {
			pos++
			continue
		}
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			break
		}
		marker := data[pos]
		pos++
		if marker == 0xDA || marker == 0xD9 {
			break
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue
		}
		if pos+1 >= len(data) {
			return nil, errors.New("truncated marker")
		}
		segLen := int(binary.BigEndian.Uint16(data[pos:]))
		if segLen < 2 || pos+segLen > len(data) {
			return nil, errors.New("invalid segment length")
		}
		seg := data[pos+2 : pos+segLen]
		switch marker {
		case 0xDB: // DQT
			ok, err := parseLuminanceDQT(seg, &lumQuant)
			if err != nil {
				return nil, err
			}
			hasQuant = hasQuant || ok
		case 0xC0, 0xC1: // SOF0, SOF1
			if err := parseSOF(seg, &info); err != nil {
				return nil, err
			}
			hasSOF = true
		case 0xC2:
			return nil, errors.New("progressive jpeg is not supported")
		}
		pos += segLen
	}
	if !hasSOF {
		return nil, errors.New("missing SOF0")
	}
	if hasQuant {
		info.Quality = jpegx.EstimateQuality(lumQuant)
	}
	return &info, nil
}

// parseLuminanceDQT copies table 0 into dst and reports whether it was present.
func parseLuminanceDQT(seg []byte, dst *[64]byte) (bool, error) {
	found := false
	pos := 0
	for pos < len(seg) {
		pq := seg[pos] >> 4
		tq := seg[pos] & 0x0F
		pos++
		if pq != 0 {
			return found, errors.New("unsupported 16-bit quant table")
		}
		if pos+64 > len(seg) {
			return found, errors.New("truncated dqt table")
		}
		if tq == 0 {
			copy(dst[:], seg[pos:pos+64])
			found = true
		}
		pos += 64
	}
	return found, nil
}

func parseSOF(seg []byte, info *JPEGInfo) error {
	if len(seg) < 6 {
		return errors.New("truncated sof")
	}
	if precision := seg[0]; precision != 8 {
		return fmt.Errorf("unsupported precision %d", precision)
	}
	info.Height = int(binary.BigEndian.Uint16(seg[1:]))
	info.Width = int(binary.BigEndian.Uint16(seg[3:]))
	n := int(seg[5])
	if n < 1 {
		return errors.New("invalid component count")
	}
	info.Components = n
	pos := 6
	for i := 0; i < n && i < 3; i++ {
		if pos+3 > len(seg) {
			return errors.New("truncated sof components")
		}
		samp := seg[pos+1]
		info.Sampling[i] = SamplingFactor{H: int(samp >> 4), V: int(samp & 0x0F)}
		pos += 3
	}
	if n == 1 {
		info.Sampling[0] = SamplingFactor{H: 1, V: 1}
	}
	return nil
}
