package rle

// Encode compresses a pixel stream into a run-length stream.
// The first run is always dark, so a stream starting with Light begins with
// a zero-length dark run. An empty stream encodes to [0].
//
// Pixels other than Dark and Light are rejected with an *InvalidPixelError.
func Encode(pixels []byte) ([]byte, error) {
	out, err := AppendEncode(nil, pixels)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendEncode appends the encoded form of pixels to dst. On error the
// returned slice has the length dst had on entry.
func AppendEncode(dst, pixels []byte) ([]byte, error) {
	start := len(dst)
	light := false
	count := 0
	for i, p := range pixels {
		if p != Dark && p != Light {
			return dst[:start], &InvalidPixelError{Offset: i, Value: p}
		}
		if p == level(light) {
			count++
			continue
		}
		dst = AppendLength(dst, count)
		count = 1
		light = !light
	}
	return AppendLength(dst, count), nil
}
