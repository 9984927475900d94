package rle

import (
	"math/rand"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	pixels := randomPixels(rand.New(rand.NewSource(1)), 640*480, 40)
	b.SetBytes(int64(len(pixels)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(pixels); err != nil {
			b.Fatalf("encode failed: %v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	pixels := randomPixels(rand.New(rand.NewSource(1)), 640*480, 40)
	enc, err := Encode(pixels)
	if err != nil {
		b.Fatalf("encode failed: %v", err)
	}
	b.SetBytes(int64(len(pixels)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(enc)
	}
}
