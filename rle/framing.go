package rle

// AppendLength appends the framed form of run length n to dst.
//
//	0   -> [0]
//	255 -> [255]
//	256 -> [255 0 1]
//	510 -> [255 0 255]
func AppendLength(dst []byte, n int) []byte {
	if n < 0 {
		panic("rle: negative run length")
	}
	if n == 0 {
		return append(dst, 0)
	}
	for n > maxByteRun {
		dst = append(dst, maxByteRun, 0)
		n -= maxByteRun
	}
	return append(dst, byte(n))
}

// EncodeLength returns the framed form of run length n.
func EncodeLength(n int) []byte {
	return AppendLength(make([]byte, 0, FramedLen(n)), n)
}

// FramedLen returns the number of bytes AppendLength emits for n.
func FramedLen(n int) int {
	if n <= 0 {
		return 1
	}
	return 2*((n-1)/maxByteRun) + 1
}

// DecodeLength returns the run length carried by a single framed length.
// Continuation pairs contribute 255 each and the terminal byte the rest.
func DecodeLength(b []byte) int {
	n := 0
	for _, v := range b {
		n += int(v)
	}
	return n
}
