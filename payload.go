package imwatermark

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// unpackBits expands bytes into bits, most significant bit first.
func unpackBits(payload []byte) []uint8 {
	bits := make([]uint8, 0, len(payload)*8)
	for _, b := range payload {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>shift)&1)
		}
	}
	return bits
}

// packBits packs bits into bytes, most significant bit first.
// Trailing bits that do not fill a whole byte are dropped.
func packBits(bits []uint8) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for _, bit := range bits[i*8 : i*8+8] {
			b = b<<1 | bit&1
		}
		out[i] = b
	}
	return out
}

// textBytes encodes text as UTF-8, ill-formed sequences become U+FFFD.
func textBytes(text string) []byte {
	b, err := unicode.UTF8.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return []byte(strings.ToValidUTF8(text, "�"))
	}
	return b
}

// bytesText decodes UTF-8 best-effort, invalid bytes become U+FFFD.
func bytesText(b []byte) string {
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(s)
}
