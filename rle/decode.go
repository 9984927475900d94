package rle

// Decode reconstructs the pixel stream from a run-length stream.
// Each byte adds that many pixels of the current polarity and then flips
// the polarity, including zero bytes. Every byte sequence is accepted.
func Decode(encoded []byte) []byte {
	out := make([]byte, 0, DecodedLen(encoded))
	light := false
	for _, n := range encoded {
		v := level(light)
		for i := 0; i < int(n); i++ {
			out = append(out, v)
		}
		light = !light
	}
	return out
}

// DecodedLen returns the number of pixels Decode produces for encoded.
func DecodedLen(encoded []byte) int {
	return DecodeLength(encoded)
}

// Run is one logical run of the encoded stream.
type Run struct {
	Light bool
	Len   int
}

// Runs lists the logical runs of encoded, merging continuation pairs back
// into the run they extend. A (255, 0) pair only continues a run when more
// bytes follow it; otherwise the zero byte is a run of its own.
func Runs(encoded []byte) []Run {
	var runs []Run
	light := false
	for i := 0; i < len(encoded); i++ {
		n := int(encoded[i])
		for n%maxByteRun == 0 && n > 0 && i+2 < len(encoded) && encoded[i+1] == 0 {
			i += 2
			n += int(encoded[i])
		}
		runs = append(runs, Run{Light: light, Len: n})
		light = !light
	}
	return runs
}
