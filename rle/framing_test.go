package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeLength(t *testing.T) {
	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0}},
		{1, []byte{1}},
		{45, []byte{45}},
		{255, []byte{255}},
		{256, []byte{255, 0, 1}},
		{300, []byte{255, 0, 45}},
		{510, []byte{255, 0, 255}},
		{511, []byte{255, 0, 255, 0, 1}},
		{765, []byte{255, 0, 255, 0, 255}},
	}
	for _, tt := range tests {
		got := EncodeLength(tt.n)
		require.Equal(t, tt.want, got, "length %d", tt.n)
		require.Equal(t, len(got), FramedLen(tt.n), "framed len %d", tt.n)
		require.Equal(t, tt.n, DecodeLength(got))
	}
}

func TestFramedLenMatchesAppend(t *testing.T) {
	for n := 0; n < 2000; n++ {
		b := AppendLength(nil, n)
		require.Len(t, b, FramedLen(n), "length %d", n)
		require.Equal(t, n, DecodeLength(b), "length %d", n)
		if n > 0 {
			require.NotZero(t, b[len(b)-1], "terminal byte of %d", n)
		}
	}
}

func TestAppendLengthKeepsPrefix(t *testing.T) {
	dst := []byte{9, 9}
	dst = AppendLength(dst, 256)
	require.Equal(t, []byte{9, 9, 255, 0, 1}, dst)
}

func TestAppendLengthNegativePanics(t *testing.T) {
	require.Panics(t, func() { AppendLength(nil, -1) })
}
