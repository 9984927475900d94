// Package container stores encoded bi-level frames in a file that keeps
// frame boundaries and image size.
//
// Layout:
//
//	header: magic "BWRL" (4) | version (1) | width uint16 BE | height uint16 BE | method (1)
//	frame:  method (1) | block size incl. header uint32 LE | run-stream size uint32 LE | payload
//
// The payload is the rle stream of one frame, compressed with the block's
// method. Frames follow each other until end of file.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	magic   = "BWRL"
	version = 1

	// HeaderSize is the size of the file header.
	HeaderSize = len(magic) + 1 + 2 + 2 + 1
	// BlockHeaderSize is the size of the header in front of every frame.
	BlockHeaderSize = 9

	// maxBlockSize is the largest block the uint32 size field can describe.
	maxBlockSize = 1<<32 - 1

	// zstdFrameOverhead covers the zstd frame header and block headers on
	// top of the lz4 worst case, which already exceeds zstd's size/256.
	zstdFrameOverhead = 128
)

// Errors
var (
	ErrInvalidMagic       = errors.New("container: invalid magic")
	ErrUnsupportedVersion = errors.New("container: unsupported version")
	ErrUnknownMethod      = errors.New("container: unknown compression method")
	ErrCorruptBlock       = errors.New("container: corrupt block")
	ErrFrameSize          = errors.New("container: frame size mismatch")
	ErrInvalidSize        = errors.New("container: invalid image size")
)

// Header describes every frame in the file.
type Header struct {
	Width  int
	Height int
	// Method is the default codec of the file; blocks carry their own.
	Method byte
}

// FramePixels is the number of pixels every frame decodes to.
func (h Header) FramePixels() int {
	return h.Width * h.Height
}

func (h Header) validate() error {
	if h.Width < 0 || h.Height < 0 || h.Width > 0xffff || h.Height > 0xffff {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, h.Width, h.Height)
	}
	return nil
}

func writeHeader(w io.Writer, h Header) error {
	var b [HeaderSize]byte
	copy(b[:], magic)
	b[4] = version
	binary.BigEndian.PutUint16(b[5:7], uint16(h.Width))
	binary.BigEndian.PutUint16(b[7:9], uint16(h.Height))
	b[9] = h.Method
	_, err := w.Write(b[:])
	return err
}

func readHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, ErrInvalidMagic
		}
		return Header{}, err
	}
	if string(b[:4]) != magic {
		return Header{}, ErrInvalidMagic
	}
	if b[4] != version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b[4])
	}
	h := Header{
		Width:  int(binary.BigEndian.Uint16(b[5:7])),
		Height: int(binary.BigEndian.Uint16(b[7:9])),
		Method: b[9],
	}
	if _, err := CodecForMethod(h.Method); err != nil {
		return Header{}, err
	}
	return h, nil
}

// MaxRunsSize is the longest rle stream a frame of n pixels can have.
// One byte per pixel plus the leading zero run is the real worst case;
// doubling leaves room for non-canonical continuation pairs.
func MaxRunsSize(n int) int {
	return 2*n + 1
}

// MaxStoredSize is the largest payload any codec stores for a run stream
// of size bytes.
func MaxStoredSize(size int) int {
	return lz4.CompressBlockBound(size) + zstdFrameOverhead
}

// checkBlockSizes rejects block headers that cannot belong to a frame of
// framePixels pixels, before anything is allocated for them.
func checkBlockSizes(total, size uint32, framePixels int) error {
	if uint64(size) > uint64(MaxRunsSize(framePixels)) {
		return fmt.Errorf("%w: run stream of %d bytes for a %d pixel frame", ErrCorruptBlock, size, framePixels)
	}
	stored := uint64(total) - BlockHeaderSize
	if stored > uint64(MaxStoredSize(int(size))) {
		return fmt.Errorf("%w: %d stored bytes for a %d byte run stream", ErrCorruptBlock, stored, size)
	}
	return nil
}

// Block is one frame as stored in the file.
type Block struct {
	Method byte
	// Stored is the size of the payload on disk.
	Stored int
	// Runs is the decompressed rle stream.
	Runs []byte
}

// CompressBlock returns the block (header + payload) for an rle stream.
func CompressBlock(codec Codec, runs []byte) ([]byte, error) {
	payload, err := codec.Compress(runs)
	if err != nil {
		return nil, err
	}
	total := BlockHeaderSize + len(payload)
	if uint64(total) > maxBlockSize {
		return nil, fmt.Errorf("%w: %d bytes does not fit a block", ErrCorruptBlock, total)
	}
	block := make([]byte, total)
	block[0] = codec.MethodByte()
	binary.LittleEndian.PutUint32(block[1:5], uint32(total))
	binary.LittleEndian.PutUint32(block[5:9], uint32(len(runs)))
	copy(block[BlockHeaderSize:], payload)
	return block, nil
}

// ReadBlockHeader parses a block header and returns the method, the total
// block size including the header and the decompressed size.
func ReadBlockHeader(data []byte) (method byte, total uint32, size uint32, err error) {
	if len(data) < BlockHeaderSize {
		return 0, 0, 0, fmt.Errorf("%w: not enough data for block header", ErrCorruptBlock)
	}
	method = data[0]
	total = binary.LittleEndian.Uint32(data[1:5])
	size = binary.LittleEndian.Uint32(data[5:9])
	if total < BlockHeaderSize {
		return 0, 0, 0, fmt.Errorf("%w: block size %d below header size", ErrCorruptBlock, total)
	}
	return method, total, size, nil
}

// DecompressBlock parses one complete block, as produced by CompressBlock,
// for a frame of framePixels pixels.
func DecompressBlock(data []byte, framePixels int) (Block, error) {
	method, total, size, err := ReadBlockHeader(data)
	if err != nil {
		return Block{}, err
	}
	if err := checkBlockSizes(total, size, framePixels); err != nil {
		return Block{}, err
	}
	if uint64(total) != uint64(len(data)) {
		return Block{}, fmt.Errorf("%w: header says %d bytes, have %d", ErrCorruptBlock, total, len(data))
	}
	codec, err := CodecForMethod(method)
	if err != nil {
		return Block{}, err
	}
	payload := data[BlockHeaderSize:]
	runs, err := codec.Decompress(payload, int(size))
	if err != nil {
		return Block{}, err
	}
	return Block{Method: method, Stored: len(payload), Runs: runs}, nil
}
