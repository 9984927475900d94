package imaging

import (
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// LoadFrames returns every frame of an animated gif, each composited onto
// the full logical screen. Other formats return a single frame.
func LoadFrames(path string) ([]image.Image, error) {
	if !strings.EqualFold(filepath.Ext(path), ".gif") {
		img, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding gif %s", path)
	}
	return Composite(g), nil
}

// Composite renders the frames of g the way a player shows them.
func Composite(g *gif.GIF) []image.Image {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
		for _, p := range g.Image[1:] {
			bounds = bounds.Union(p.Bounds())
		}
	}
	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, p := range g.Image {
		var saved *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Copy(saved, bounds.Min, canvas, bounds, draw.Src, nil)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frame := image.NewRGBA(bounds)
		draw.Copy(frame, bounds.Min, canvas, bounds, draw.Src, nil)
		frames = append(frames, frame)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return frames
}
