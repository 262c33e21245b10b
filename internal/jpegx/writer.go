// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jpegx is a baseline JPEG encoder derived from image/jpeg with control over
// chroma sampling factors.
package jpegx

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"io"
)

// SamplingFactor is a component sampling factor.
type SamplingFactor struct {
	H, V int
}

// Supported sampling configurations for Y, Cb, Cr.
var (
	Sampling420 = [3]SamplingFactor{{H: 2, V: 2}, {H: 1, V: 1}, {H: 1, V: 1}}
	Sampling444 = [3]SamplingFactor{{H: 1, V: 1}, {H: 1, V: 1}, {H: 1, V: 1}}
)

// EncoderOptions controls encoding.
type EncoderOptions struct {
	// Quality ranges from 0 to 100, values below 1 are clipped to 1.
	Quality int
	// Sampling is Sampling420 (default when zero) or Sampling444.
	Sampling [3]SamplingFactor
}

// ErrUnsupportedSampling is returned for sampling factors other than 4:2:0 and 4:4:4.
var ErrUnsupportedSampling = errors.New("jpegx: unsupported sampling factors")

// div returns a/b rounded to the nearest integer, instead of rounded to zero.
func div(a, b int32) int32 {
	if a >= 0 {
		return (a + (b >> 1)) / b
	}
	return -((-a + (b >> 1)) / b)
}

// bitCount counts the number of bits needed to hold an integer.
func bitCount(a int32) uint32 {
	var n uint32
	for a > 0 {
		n++
		a >>= 1
	}
	return n
}

type writer interface {
	Flush() error
	io.Writer
	io.ByteWriter
}

type encoder struct {
	w   writer
	err error
	buf [16]byte
	// bits and nBits are accumulated bits to write to w.
	bits, nBits uint32
	// quant is the scaled quantization tables, in zig-zag order.
	quant [nQuantIndex][blockSize]byte
	full  bool // 4:4:4
}

func (e *encoder) flush() {
	if e.err != nil {
		return
	}
	e.err = e.w.Flush()
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}

// emit emits the least significant nBits bits of bits to the bit-stream.
func (e *encoder) emit(bits, nBits uint32) {
	nBits += e.nBits
	bits <<= 32 - nBits
	bits |= e.bits
	for nBits >= 8 {
		b := uint8(bits >> 24)
		e.writeByte(b)
		if b == 0xff {
			e.writeByte(0x00)
		}
		bits <<= 8
		nBits -= 8
	}
	e.bits, e.nBits = bits, nBits
}

func (e *encoder) emitHuff(h huffIndex, value int32) {
	x := theHuffmanLUT[h][value]
	e.emit(x&(1<<24-1), x>>24)
}

func (e *encoder) emitHuffRLE(h huffIndex, runLength, value int32) {
	a, b := value, value
	if a < 0 {
		a, b = -value, value-1
	}
	nBits := bitCount(a)
	e.emitHuff(h, runLength<<4|int32(nBits))
	if nBits > 0 {
		e.emit(uint32(b)&(1<<nBits-1), nBits)
	}
}

func (e *encoder) writeMarkerHeader(marker uint8, markerlen int) {
	e.buf[0] = 0xff
	e.buf[1] = marker
	e.buf[2] = uint8(markerlen >> 8)
	e.buf[3] = uint8(markerlen & 0xff)
	e.write(e.buf[:4])
}

func (e *encoder) writeDQT() {
	const markerlen = 2 + int(nQuantIndex)*(1+blockSize)
	e.writeMarkerHeader(dqtMarker, markerlen)
	for i := range e.quant {
		e.writeByte(uint8(i))
		e.write(e.quant[i][:])
	}
}

func (e *encoder) writeSOF(size image.Point, nComponent int) {
	markerlen := 8 + 3*nComponent
	e.writeMarkerHeader(sof0Marker, markerlen)
	e.buf[0] = 8 // 8-bit color.
	e.buf[1] = uint8(size.Y >> 8)
	e.buf[2] = uint8(size.Y & 0xff)
	e.buf[3] = uint8(size.X >> 8)
	e.buf[4] = uint8(size.X & 0xff)
	e.buf[5] = uint8(nComponent)
	if nComponent == 1 {
		e.buf[6] = 1
		e.buf[7] = 0x11
		e.buf[8] = 0x00
	} else {
		factors := "\x22\x11\x11"
		if e.full {
			factors = "\x11\x11\x11"
		}
		for i := 0; i < nComponent; i++ {
			e.buf[3*i+6] = uint8(i + 1)
			e.buf[3*i+7] = factors[i]
			e.buf[3*i+8] = "\x00\x01\x01"[i]
		}
	}
	e.write(e.buf[:3*(nComponent-1)+9])
}

func (e *encoder) writeDHT(nComponent int) {
	markerlen := 2
	specs := theHuffmanSpec[:]
	if nComponent == 1 {
		specs = specs[:2]
	}
	for _, s := range specs {
		markerlen += 1 + 16 + len(s.value)
	}
	e.writeMarkerHeader(dhtMarker, markerlen)
	for i, s := range specs {
		e.writeByte("\x00\x10\x01\x11"[i])
		e.write(s.count[:])
		e.write(s.value)
	}
}

// writeBlock writes a block in natural order and returns its quantized DC value.
func (e *encoder) writeBlock(b *block, q quantIndex, prevDC int32) int32 {
	fdct(b)
	dc := div(b[0], 8*int32(e.quant[q][0]))
	e.emitHuffRLE(huffIndex(2*q+0), 0, dc-prevDC)
	h, runLength := huffIndex(2*q+1), int32(0)
	for zig := 1; zig < blockSize; zig++ {
		ac := div(b[unzig[zig]], 8*int32(e.quant[q][zig]))
		if ac == 0 {
			runLength++
		} else {
			for runLength > 15 {
				e.emitHuff(h, 0xf0)
				runLength -= 16
			}
			e.emitHuffRLE(h, runLength, ac)
			runLength = 0
		}
	}
	if runLength > 0 {
		e.emitHuff(h, 0x00)
	}
	return dc
}

// toYCbCr converts the 8x8 region of m whose top-left corner is p, edges are replicated.
func toYCbCr(m image.Image, p image.Point, yBlock, cbBlock, crBlock *block) {
	b := m.Bounds()
	xmax := b.Max.X - 1
	ymax := b.Max.Y - 1
	nrgba, _ := m.(*image.NRGBA)
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			x, y := min(p.X+i, xmax), min(p.Y+j, ymax)
			var r, g, bl uint8
			if nrgba != nil {
				pix := nrgba.Pix[nrgba.PixOffset(x, y):]
				r, g, bl = pix[0], pix[1], pix[2]
			} else {
				r32, g32, b32, _ := m.At(x, y).RGBA()
				r, g, bl = uint8(r32>>8), uint8(g32>>8), uint8(b32>>8)
			}
			yy, cb, cr := color.RGBToYCbCr(r, g, bl)
			yBlock[8*j+i] = int32(yy)
			cbBlock[8*j+i] = int32(cb)
			crBlock[8*j+i] = int32(cr)
		}
	}
}

func grayToY(m *image.Gray, p image.Point, yBlock *block) {
	b := m.Bounds()
	xmax := b.Max.X - 1
	ymax := b.Max.Y - 1
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			yBlock[8*j+i] = int32(m.Pix[m.PixOffset(min(p.X+i, xmax), min(p.Y+j, ymax))])
		}
	}
}

// scale scales the 16x16 region represented by the 4 src blocks to the 8x8 dst block.
func scale(dst *block, src *[4]block) {
	for i := 0; i < 4; i++ {
		dstOff := (i&2)<<4 | (i&1)<<2
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				j := 16*y + 2*x
				sum := src[i][j] + src[i][j+1] + src[i][j+8] + src[i][j+9]
				dst[8*y+x+dstOff] = (sum + 2) >> 2
			}
		}
	}
}

var sosHeaderY = []byte{
	0xff, 0xda, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3f, 0x00,
}

var sosHeaderYCbCr = []byte{
	0xff, 0xda, 0x00, 0x0c, 0x03, 0x01, 0x00, 0x02,
	0x11, 0x03, 0x11, 0x00, 0x3f, 0x00,
}

func (e *encoder) writeSOS(m image.Image) {
	var (
		b      block
		cb, cr [4]block
		// DC components are delta-encoded.
		prevDCY, prevDCCb, prevDCCr int32
	)
	bounds := m.Bounds()
	switch m := m.(type) {
	case *image.Gray:
		e.write(sosHeaderY)
		for y := bounds.Min.Y; y < bounds.Max.Y; y += 8 {
			for x := bounds.Min.X; x < bounds.Max.X; x += 8 {
				grayToY(m, image.Pt(x, y), &b)
				prevDCY = e.writeBlock(&b, quantIndexLuminance, prevDCY)
			}
		}
	default:
		e.write(sosHeaderYCbCr)
		if e.full {
			for y := bounds.Min.Y; y < bounds.Max.Y; y += 8 {
				for x := bounds.Min.X; x < bounds.Max.X; x += 8 {
					toYCbCr(m, image.Pt(x, y), &b, &cb[0], &cr[0])
					prevDCY = e.writeBlock(&b, quantIndexLuminance, prevDCY)
					prevDCCb = e.writeBlock(&cb[0], quantIndexChrominance, prevDCCb)
					prevDCCr = e.writeBlock(&cr[0], quantIndexChrominance, prevDCCr)
				}
			}
			break
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y += 16 {
			for x := bounds.Min.X; x < bounds.Max.X; x += 16 {
				for i := 0; i < 4; i++ {
					xOff := (i & 1) * 8
					yOff := (i & 2) * 4
					toYCbCr(m, image.Pt(x+xOff, y+yOff), &b, &cb[i], &cr[i])
					prevDCY = e.writeBlock(&b, quantIndexLuminance, prevDCY)
				}
				scale(&b, &cb)
				prevDCCb = e.writeBlock(&b, quantIndexChrominance, prevDCCb)
				scale(&b, &cr)
				prevDCCr = e.writeBlock(&b, quantIndexChrominance, prevDCCr)
			}
		}
	}
	// Pad the last byte with 1's.
	e.emit(0x7f, 7)
}

// Encode writes m to w as a baseline JPEG.
func Encode(w io.Writer, m image.Image, opt EncoderOptions) error {
	b := m.Bounds()
	if b.Dx() >= 1<<16 || b.Dy() >= 1<<16 {
		return errors.New("jpegx: image is too large to encode")
	}
	var e encoder
	switch opt.Sampling {
	case [3]SamplingFactor{}, Sampling420:
	case Sampling444:
		e.full = true
	default:
		return ErrUnsupportedSampling
	}
	if ww, ok := w.(writer); ok {
		e.w = ww
	} else {
		e.w = bufio.NewWriter(w)
	}
	quality := opt.Quality
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}
	// Convert from a quality rating to a scaling factor.
	var sc int
	if quality < 50 {
		sc = 5000 / quality
	} else {
		sc = 200 - quality*2
	}
	for i := range e.quant {
		for j := range e.quant[i] {
			x := int(unscaledQuant[i][j])
			x = (x*sc + 50) / 100
			if x < 1 {
				x = 1
			} else if x > 255 {
				x = 255
			}
			e.quant[i][j] = uint8(x)
		}
	}
	nComponent := 3
	if _, ok := m.(*image.Gray); ok {
		nComponent = 1
	}
	e.buf[0] = 0xff
	e.buf[1] = soiMarker
	e.write(e.buf[:2])
	e.writeDQT()
	e.writeSOF(b.Size(), nComponent)
	e.writeDHT(nComponent)
	e.writeSOS(m)
	e.buf[0] = 0xff
	e.buf[1] = eoiMarker
	e.write(e.buf[:2])
	e.flush()
	return e.err
}
