package container

import (
	"fmt"
	"strings"
)

// Codec compresses and decompresses the run-length stream of one frame.
type Codec interface {
	// MethodByte returns the single-byte codec identifier.
	MethodByte() byte
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, decompressedSize int) ([]byte, error)
}

// Method bytes stored in the file header and in every block.
const (
	MethodNone byte = 0x02
	MethodLZ4  byte = 0x82
	MethodZstd byte = 0x90
)

// CodecForMethod returns the codec for a method byte.
func CodecForMethod(method byte) (Codec, error) {
	switch method {
	case MethodNone:
		return &NoneCodec{}, nil
	case MethodLZ4:
		return &LZ4Codec{}, nil
	case MethodZstd:
		return &ZstdCodec{}, nil
	}
	return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownMethod, method)
}

// CodecByName returns the codec called none, lz4 or zstd.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return &NoneCodec{}, nil
	case "lz4":
		return &LZ4Codec{}, nil
	case "zstd":
		return &ZstdCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// MethodName is the inverse of CodecByName.
func MethodName(method byte) string {
	switch method {
	case MethodNone:
		return "none"
	case MethodLZ4:
		return "lz4"
	case MethodZstd:
		return "zstd"
	}
	return fmt.Sprintf("0x%02x", method)
}

// NoneCodec stores run-length streams as they are.
type NoneCodec struct{}

func (c *NoneCodec) MethodByte() byte { return MethodNone }

func (c *NoneCodec) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst, nil
}

func (c *NoneCodec) Decompress(src []byte, decompressedSize int) ([]byte, error) {
	if len(src) != decompressedSize {
		return nil, fmt.Errorf("%w: stored block has %d bytes, header says %d", ErrCorruptBlock, len(src), decompressedSize)
	}
	dst := make([]byte, decompressedSize)
	copy(dst, src)
	return dst, nil
}
