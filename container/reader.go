package container

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/svanichkin/bwrle/rle"
)

// Reader reads frames from a container file.
// It is not safe for concurrent use.
type Reader struct {
	r     io.Reader
	hdr   Header
	frame int
}

// NewReader reads and validates the file header.
func NewReader(r io.Reader) (*Reader, error) {
	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, hdr: hdr}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.hdr
}

// NextBlock returns the next frame's rle stream, decompressed.
// It returns io.EOF when no frames are left.
func (r *Reader) NextBlock() (Block, error) {
	var hb [BlockHeaderSize]byte
	if _, err := io.ReadFull(r.r, hb[:]); err != nil {
		if err == io.EOF {
			return Block{}, io.EOF
		}
		return Block{}, errors.Wrapf(err, "error reading header of frame %d", r.frame)
	}
	method, total, size, err := ReadBlockHeader(hb[:])
	if err != nil {
		return Block{}, errors.Wrapf(err, "frame %d", r.frame)
	}
	if err := checkBlockSizes(total, size, r.hdr.FramePixels()); err != nil {
		return Block{}, errors.Wrapf(err, "frame %d", r.frame)
	}
	codec, err := CodecForMethod(method)
	if err != nil {
		return Block{}, errors.Wrapf(err, "frame %d", r.frame)
	}
	payload := make([]byte, int(total)-BlockHeaderSize)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Block{}, errors.Wrapf(err, "error reading payload of frame %d", r.frame)
	}
	runs, err := codec.Decompress(payload, int(size))
	if err != nil {
		return Block{}, errors.Wrapf(err, "error decompressing frame %d", r.frame)
	}
	r.frame++
	return Block{Method: method, Stored: len(payload), Runs: runs}, nil
}

// Next returns the pixels of the next frame.
// It returns io.EOF when no frames are left.
func (r *Reader) Next() ([]byte, error) {
	b, err := r.NextBlock()
	if err != nil {
		return nil, err
	}
	if n := rle.DecodedLen(b.Runs); n != r.hdr.FramePixels() {
		return nil, fmt.Errorf("%w: frame %d decodes to %d pixels, want %dx%d",
			ErrFrameSize, r.frame-1, n, r.hdr.Width, r.hdr.Height)
	}
	return rle.Decode(b.Runs), nil
}

// ReadAll returns the pixels of every remaining frame.
func (r *Reader) ReadAll() ([][]byte, error) {
	var frames [][]byte
	for {
		f, err := r.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
