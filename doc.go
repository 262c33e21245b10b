// Package imwatermark provides a pure-Go invisible image watermark codec.
//
// A short byte payload is hidden in the chroma planes of an RGB image: the image is
// converted to YUV, chroma is pre-subsampled, each chroma plane goes through a single-level
// Haar wavelet transform and one payload bit is quantized into the dominant coefficient of
// every 4x4 block of the approximation subband. Decoding reads a noisy bit per block and
// votes over all blocks carrying the same payload position, so the payload survives moderate
// lossy recompression while the image stays visually unchanged.
package imwatermark
