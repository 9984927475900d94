package container

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoders and decoders are reused across frames; EncodeAll and DecodeAll
// are safe for concurrent use.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCoders() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(runtime.NumCPU()),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

// ZstdCodec implements zstd compression of run-length streams.
type ZstdCodec struct{}

func (c *ZstdCodec) MethodByte() byte { return MethodZstd }

func (c *ZstdCodec) Compress(src []byte) ([]byte, error) {
	enc, _, err := zstdCoders()
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return enc.EncodeAll(src, nil), nil
}

func (c *ZstdCodec) Decompress(src []byte, decompressedSize int) ([]byte, error) {
	_, dec, err := zstdCoders()
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	var h zstd.Header
	if err := h.Decode(src); err == nil && h.HasFCS && h.FrameContentSize > uint64(decompressedSize) {
		return nil, fmt.Errorf("%w: zstd frame holds %d bytes, header says %d", ErrCorruptBlock, h.FrameContentSize, decompressedSize)
	}
	dst, err := dec.DecodeAll(src, make([]byte, 0, decompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(dst) != decompressedSize {
		return nil, fmt.Errorf("zstd decompress: expected %d bytes, got %d", decompressedSize, len(dst))
	}
	return dst, nil
}
