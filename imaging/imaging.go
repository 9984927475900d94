// Package imaging turns images into bi-level pixel streams and back.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/svanichkin/bwrle/rle"
)

// DefaultLevel is the threshold used when none is configured.
const DefaultLevel = 127

// ErrInvalidSize is returned for non-positive or mismatched image sizes.
var ErrInvalidSize = errors.New("imaging: invalid size")

// Options control Bilevel.
type Options struct {
	// Width and Height of the output; zero keeps the source size.
	Width  int
	Height int
	// Pixels brighter than Level become light.
	Level uint8
	// Invert swaps dark and light.
	Invert bool
}

// Load decodes a png, jpeg or gif file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding image %s", path)
	}
	return img, nil
}

// Luma returns integer Rec. 601 luma (0..255) for an RGBA pixel.
func Luma(c color.RGBA) uint8 {
	return uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000)
}

// ToGray converts any image into an *image.Gray with bounds starting at (0,0).
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := src.(*image.Gray); ok {
		draw.Copy(dst, image.Point{}, g, b, draw.Src, nil)
		return dst
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			dst.Pix[y*dst.Stride+x] = Luma(c)
		}
	}
	return dst
}

// Resize scales src to w x h with bilinear interpolation.
func Resize(src *image.Gray, w, h int) (*image.Gray, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
		return dst, nil
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Threshold flattens img row by row into a stream of rle.Dark and
// rle.Light pixels. Values above level become light, or dark if invert is set.
func Threshold(img *image.Gray, level uint8, invert bool) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, v := range row {
			if (v > level) != invert {
				out = append(out, rle.Light)
			} else {
				out = append(out, rle.Dark)
			}
		}
	}
	return out
}

// Bilevel converts img to gray, resizes it and thresholds it.
func Bilevel(img image.Image, opts Options) ([]byte, error) {
	gray := ToGray(img)
	w, h := opts.Width, opts.Height
	if w == 0 && h == 0 {
		w, h = gray.Bounds().Dx(), gray.Bounds().Dy()
	}
	resized, err := Resize(gray, w, h)
	if err != nil {
		return nil, err
	}
	return Threshold(resized, opts.Level, opts.Invert), nil
}

// FromPixels reshapes a decoded pixel stream into a w x h image.
func FromPixels(pixels []byte, w, h int) (*image.Gray, error) {
	if w < 0 || h < 0 || len(pixels) != w*h {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidSize, len(pixels), w, h)
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	return img, nil
}

// SavePNG writes img to path as png.
func SavePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return errors.Wrapf(err, "error encoding %s", path)
	}
	return out.Close()
}
