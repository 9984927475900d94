package rle

import "fmt"

// SplitFrames cuts a stream of encoded frames written back to back into
// one slice per frame, given the pixel count every frame decodes to.
//
// A non-empty frame ends on the byte that brings its pixel sum to
// framePixels: continuation pairs are only emitted while more than 255
// pixels remain, so the sum cannot reach the boundary early. An empty frame
// (framePixels == 0) is the single byte 0. The returned slices alias stream.
func SplitFrames(stream []byte, framePixels int) ([][]byte, error) {
	if framePixels < 0 {
		return nil, fmt.Errorf("rle: negative frame size %d", framePixels)
	}
	var frames [][]byte
	start, sum := 0, 0
	for i, n := range stream {
		sum += int(n)
		if sum > framePixels {
			return frames, fmt.Errorf("%w: frame %d at byte %d has %d of %d pixels",
				ErrFrameOverrun, len(frames), i, sum, framePixels)
		}
		if sum == framePixels && (framePixels > 0 || n == 0) {
			frames = append(frames, stream[start:i+1])
			start, sum = i+1, 0
		}
	}
	if start < len(stream) {
		return frames, fmt.Errorf("%w: frame %d has %d of %d pixels",
			ErrTruncatedFrame, len(frames), sum, framePixels)
	}
	return frames, nil
}
