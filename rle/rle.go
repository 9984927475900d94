// Package rle implements the bi-level run-length codec.
//
// A pixel stream is a row-major sequence of bytes that are either Dark (0)
// or Light (255). The encoded stream is a sequence of run lengths whose
// polarity is implied by position: the first length is always a dark run
// (possibly of length 0), then light, then dark, and so on.
//
// Run lengths above 255 are framed with continuation pairs (255, 0). The
// decoder flips polarity after every byte, so a pair adds 255 pixels and
// leaves the polarity where it was.
//
// The encoded stream has no header and no size. Callers that concatenate
// several encoded frames must track the frame boundaries themselves, either
// by storing per-frame byte lengths (see package container) or by fixing
// the pixel count per frame and cutting the stream with SplitFrames.
package rle

const (
	// Dark is the pixel value of a dark run.
	Dark byte = 0
	// Light is the pixel value of a light run.
	Light byte = 255
)

// maxByteRun is the largest run length a single byte can carry.
const maxByteRun = 255

// level returns the pixel value for a polarity.
func level(light bool) byte {
	if light {
		return Light
	}
	return Dark
}
