package rle

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidPixelValue = errors.New("rle: invalid pixel value")
	ErrFrameOverrun      = errors.New("rle: run crosses frame boundary")
	ErrTruncatedFrame    = errors.New("rle: truncated frame")
)

// InvalidPixelError reports the first pixel that is neither Dark nor Light.
type InvalidPixelError struct {
	Offset int
	Value  byte
}

func (e *InvalidPixelError) Error() string {
	return fmt.Sprintf("rle: invalid pixel value %d at offset %d (want 0 or 255)", e.Value, e.Offset)
}

// Is makes errors.Is(err, ErrInvalidPixelValue) hold.
func (e *InvalidPixelError) Is(target error) bool {
	return target == ErrInvalidPixelValue
}
