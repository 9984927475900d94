package container

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/svanichkin/bwrle/log"
	"github.com/svanichkin/bwrle/rle"
)

// Writer appends encoded frames to a container file.
// It is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	hdr    Header
	codec  Codec
	runs   []byte
	frames int
	lgr    log.Logger
}

// NewWriter writes the file header to w. A nil codec stores frames as they
// are.
func NewWriter(w io.Writer, hdr Header, codec Codec) (*Writer, error) {
	if codec == nil {
		codec = &NoneCodec{}
	}
	hdr.Method = codec.MethodByte()
	if err := hdr.validate(); err != nil {
		return nil, err
	}
	if err := writeHeader(w, hdr); err != nil {
		return nil, errors.Wrap(err, "error writing container header")
	}
	return &Writer{
		w:     w,
		hdr:   hdr,
		codec: codec,
		lgr:   log.WithModule("container"),
	}, nil
}

// WriteFrame encodes pixels and appends them as one block.
func (w *Writer) WriteFrame(pixels []byte) error {
	if len(pixels) != w.hdr.FramePixels() {
		return fmt.Errorf("%w: frame %d has %d pixels, want %dx%d",
			ErrFrameSize, w.frames, len(pixels), w.hdr.Width, w.hdr.Height)
	}
	runs, err := rle.AppendEncode(w.runs[:0], pixels)
	if err != nil {
		return err
	}
	w.runs = runs
	block, err := CompressBlock(w.codec, runs)
	if err != nil {
		return errors.Wrapf(err, "error compressing frame %d", w.frames)
	}
	if _, err := w.w.Write(block); err != nil {
		return errors.Wrapf(err, "error writing frame %d", w.frames)
	}
	w.lgr.Debug("wrote frame",
		"frame", w.frames,
		"runs_bytes", len(runs),
		"block_bytes", len(block),
		"method", MethodName(w.codec.MethodByte()))
	w.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Header returns the header written to the file.
func (w *Writer) Header() Header {
	return w.hdr
}
