package imwatermark

const (
	minImageSide = 256
	maxImageSide = 4096

	minArea = minImageSide * minImageSide
	maxArea = maxImageSide * maxImageSide
)

const (
	defaultBlockSize  = 4
	defaultChromaStep = 36.0
	defaultText       = "SDV2"
	defaultQuality    = 100
	defaultByteLength = 4
)

// Chroma planes are stored with this offset so that neutral chroma sits at 128 after rounding.
const chromaOffset = 127.5

// Decoded bits are the vote mean scaled to a byte and compared against this threshold.
const voteThreshold = 127
