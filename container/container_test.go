package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svanichkin/bwrle/rle"
)

func makeFrame(r *rand.Rand, n, maxRun int) []byte {
	out := make([]byte, 0, n)
	v := rle.Dark
	for len(out) < n {
		k := 1 + r.Intn(maxRun)
		for i := 0; i < k && len(out) < n; i++ {
			out = append(out, v)
		}
		v ^= 0xff
	}
	return out
}

func allCodecs() []Codec {
	return []Codec{&NoneCodec{}, &LZ4Codec{}, &ZstdCodec{}}
}

func TestWriteReadFrames(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	hdr := Header{Width: 64, Height: 48}

	for _, codec := range allCodecs() {
		t.Run(MethodName(codec.MethodByte()), func(t *testing.T) {
			frames := [][]byte{
				bytes.Repeat([]byte{rle.Light}, hdr.FramePixels()),
				bytes.Repeat([]byte{rle.Dark}, hdr.FramePixels()),
				makeFrame(r, hdr.FramePixels(), 3),
				makeFrame(r, hdr.FramePixels(), 700),
			}

			var buf bytes.Buffer
			w, err := NewWriter(&buf, hdr, codec)
			require.NoError(t, err)
			for _, f := range frames {
				require.NoError(t, w.WriteFrame(f))
			}
			require.Equal(t, len(frames), w.Frames())

			rd, err := NewReader(&buf)
			require.NoError(t, err)
			require.Equal(t, 64, rd.Header().Width)
			require.Equal(t, 48, rd.Header().Height)
			require.Equal(t, codec.MethodByte(), rd.Header().Method)

			got, err := rd.ReadAll()
			require.NoError(t, err)
			require.Equal(t, frames, got)

			_, err = rd.Next()
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestNilCodecStoresFrames(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Width: 3, Height: 2}, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame([]byte{0, 0, 0, 255, 255, 0}))
	require.Equal(t, MethodNone, w.Header().Method)

	want := []byte{'B', 'W', 'R', 'L', 1, 0, 3, 0, 2, MethodNone,
		MethodNone, 12, 0, 0, 0, 3, 0, 0, 0, 3, 2, 1}
	require.Equal(t, want, buf.Bytes())
}

func TestWriteFrameErrors(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Width: 2, Height: 2}, &ZstdCodec{})
	require.NoError(t, err)

	err = w.WriteFrame([]byte{0, 0, 0})
	require.True(t, errors.Is(err, ErrFrameSize))

	err = w.WriteFrame([]byte{0, 0, 0, 7})
	require.True(t, errors.Is(err, rle.ErrInvalidPixelValue))
	require.Equal(t, 0, w.Frames())

	_, err = NewWriter(&buf, Header{Width: 70000, Height: 1}, nil)
	require.True(t, errors.Is(err, ErrInvalidSize))
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("BW")))
	require.Equal(t, ErrInvalidMagic, err)

	_, err = NewReader(bytes.NewReader([]byte("BABE\n12345")))
	require.Equal(t, ErrInvalidMagic, err)

	_, err = NewReader(bytes.NewReader([]byte{'B', 'W', 'R', 'L', 9, 0, 1, 0, 1, MethodNone}))
	require.True(t, errors.Is(err, ErrUnsupportedVersion))

	_, err = NewReader(bytes.NewReader([]byte{'B', 'W', 'R', 'L', 1, 0, 1, 0, 1, 0x55}))
	require.True(t, errors.Is(err, ErrUnknownMethod))
}

func TestReaderTruncatedBlock(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Width: 4, Height: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteFrame([]byte{0, 255, 0, 255}))

	data := buf.Bytes()
	rd, err := NewReader(bytes.NewReader(data[:len(data)-1]))
	require.NoError(t, err)
	_, err = rd.Next()
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	rd, err = NewReader(bytes.NewReader(data[:HeaderSize+4]))
	require.NoError(t, err)
	_, err = rd.Next()
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReaderFrameSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, Header{Width: 2, Height: 2, Method: MethodNone}))
	block, err := CompressBlock(&NoneCodec{}, []byte{3})
	require.NoError(t, err)
	buf.Write(block)

	rd, err := NewReader(&buf)
	require.NoError(t, err)
	_, err = rd.Next()
	require.True(t, errors.Is(err, ErrFrameSize))
}

func TestCodecLookup(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		c, err := CodecByName(name)
		require.NoError(t, err)
		require.Equal(t, name, MethodName(c.MethodByte()))

		c2, err := CodecForMethod(c.MethodByte())
		require.NoError(t, err)
		require.Equal(t, c, c2)
	}
	_, err := CodecByName("gzip")
	require.True(t, errors.Is(err, ErrUnknownMethod))
	_, err = CodecForMethod(0x01)
	require.True(t, errors.Is(err, ErrUnknownMethod))
}

func TestCodecsRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	inputs := [][]byte{
		{0},
		{3, 2, 1},
		bytes.Repeat([]byte{255, 0}, 400),
	}
	for i := 0; i < 4; i++ {
		runs, err := rle.Encode(makeFrame(r, 5000, 20))
		require.NoError(t, err)
		inputs = append(inputs, runs)
	}
	for _, codec := range allCodecs() {
		for _, in := range inputs {
			packed, err := codec.Compress(in)
			require.NoError(t, err)
			out, err := codec.Decompress(packed, len(in))
			require.NoError(t, err)
			require.Equal(t, in, out)
		}
	}
}

func TestReadBlockHeader(t *testing.T) {
	_, _, _, err := ReadBlockHeader([]byte{1, 2})
	require.True(t, errors.Is(err, ErrCorruptBlock))

	_, _, _, err = ReadBlockHeader([]byte{MethodNone, 4, 0, 0, 0, 0, 0, 0, 0})
	require.True(t, errors.Is(err, ErrCorruptBlock))

	block, err := CompressBlock(&NoneCodec{}, []byte{1, 2, 3})
	require.NoError(t, err)
	method, total, size, err := ReadBlockHeader(block)
	require.NoError(t, err)
	require.Equal(t, MethodNone, method)
	require.Equal(t, uint32(12), total)
	require.Equal(t, uint32(3), size)
}

// corruptFile is a valid 1x1 header followed by one block header with the
// given sizes and a single payload byte.
func corruptFile(total, size uint32) []byte {
	var buf bytes.Buffer
	_ = writeHeader(&buf, Header{Width: 1, Height: 1, Method: MethodNone})
	var bh [BlockHeaderSize]byte
	bh[0] = MethodNone
	binary.LittleEndian.PutUint32(bh[1:5], total)
	binary.LittleEndian.PutUint32(bh[5:9], size)
	buf.Write(bh[:])
	buf.WriteByte(1)
	return buf.Bytes()
}

func TestReaderRejectsOversizedBlocks(t *testing.T) {
	tests := []struct {
		name        string
		total, size uint32
	}{
		{"huge total", 0xF0000000, 1},
		{"huge size", BlockHeaderSize + 1, 0xF0000000},
		{"both huge", 0xFFFFFFFF, 0xFFFFFFFF},
		{"size above frame", BlockHeaderSize + 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := corruptFile(tt.total, tt.size)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			rd, err := NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			_, err = rd.Next()
			runtime.ReadMemStats(&after)

			require.True(t, errors.Is(err, ErrCorruptBlock), "got %v", err)
			require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))

			_, err = DecompressBlock(data[HeaderSize:], 1)
			require.True(t, errors.Is(err, ErrCorruptBlock), "got %v", err)
		})
	}
}

func TestDecompressBlock(t *testing.T) {
	runs, err := rle.Encode(makeFrame(rand.New(rand.NewSource(5)), 900, 40))
	require.NoError(t, err)

	for _, codec := range allCodecs() {
		block, err := CompressBlock(codec, runs)
		require.NoError(t, err)
		require.LessOrEqual(t, len(block)-BlockHeaderSize, MaxStoredSize(len(runs)))

		b, err := DecompressBlock(block, 900)
		require.NoError(t, err)
		require.Equal(t, runs, b.Runs)
		require.Equal(t, codec.MethodByte(), b.Method)

		_, err = DecompressBlock(block[:len(block)-1], 900)
		require.True(t, errors.Is(err, ErrCorruptBlock))
	}
}

func TestZstdRejectsLargerFrame(t *testing.T) {
	packed, err := (&ZstdCodec{}).Compress(bytes.Repeat([]byte{255, 0}, 100))
	require.NoError(t, err)
	_, err = (&ZstdCodec{}).Decompress(packed, 10)
	require.Error(t, err)
}
