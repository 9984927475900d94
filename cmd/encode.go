package cmd

import (
	"bytes"
	"image"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/config"
	"github.com/svanichkin/bwrle/container"
	"github.com/svanichkin/bwrle/imaging"
	"github.com/svanichkin/bwrle/log"
	"github.com/svanichkin/bwrle/rle"
)

const (
	flagInvert      = "invert"
	flagThreshold   = "threshold"
	flagVideo       = "video"
	flagCompression = "compression"
	flagVerify      = "verify"
)

var errVerify = errors.New("decoded frame differs from source")

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <image> <out>",
		Short: "Thresholds an image (or every gif frame) and run-length encodes it.",
		Long: `Thresholds an image to black and white and writes its run-length encoding.

With --format framed (the default) the output starts with a header that
records the frame size, and every frame is stored with its length. With
--format raw the bare run-length streams are written back to back, and the
frame size has to be known to decode them. Use - as <out> for stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := encodeSettings(cmd, cfg.Encode)
			if err != nil {
				return err
			}
			video, _ := cmd.Flags().GetBool(flagVideo)
			return encodeFile(args[0], args[1], video, opts)
		},
	}
	cmd.Flags().IntSlice(FlagSize, nil, "Resize frames to WIDTH,HEIGHT before thresholding (0,0 keeps the source size).")
	cmd.Flags().Bool(flagInvert, false, "Invert the threshold.")
	cmd.Flags().Int(flagThreshold, imaging.DefaultLevel, "Gray level above which pixels become light.")
	cmd.Flags().Bool(flagVideo, false, "Encode every frame of an animated gif.")
	cmd.Flags().String(FlagFormat, config.FormatFramed, "Output format: framed or raw.")
	cmd.Flags().String(flagCompression, "zstd", "Compression of framed output: none, lz4 or zstd.")
	cmd.Flags().Bool(flagVerify, false, "Decode every frame after encoding and compare.")
	return cmd
}

// encodeSettings layers changed flags over the config file values.
func encodeSettings(cmd *cobra.Command, ec config.EncodeConfig) (config.EncodeConfig, error) {
	flags := cmd.Flags()
	if w, h, ok, err := sizeFlag(cmd); err != nil {
		return ec, err
	} else if ok {
		ec.Width, ec.Height = w, h
	}
	if flags.Changed(flagInvert) {
		ec.Invert, _ = flags.GetBool(flagInvert)
	}
	if flags.Changed(flagThreshold) {
		ec.Threshold, _ = flags.GetInt(flagThreshold)
	}
	if flags.Changed(FlagFormat) {
		ec.Format, _ = flags.GetString(FlagFormat)
	}
	if flags.Changed(flagCompression) {
		ec.Compression, _ = flags.GetString(flagCompression)
	}
	if flags.Changed(flagVerify) {
		ec.Verify, _ = flags.GetBool(flagVerify)
	}
	cfg := config.Config{LogLevel: "info", Encode: ec}
	if err := cfg.Validate(); err != nil {
		return ec, err
	}
	if (ec.Width == 0) != (ec.Height == 0) {
		return ec, errors.Errorf("size %dx%d: set both or neither", ec.Width, ec.Height)
	}
	return ec, nil
}

// openOutput opens path for writing; "-" is stdout unless it is a terminal.
func openOutput(path string) (io.WriteCloser, error) {
	if path != "-" {
		return os.Create(path)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return nil, errors.New("refusing to write binary output to a terminal")
	}
	return nopCloser{os.Stdout}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func encodeFile(inPath, outPath string, video bool, ec config.EncodeConfig) error {
	lgr := log.WithModule("encode")

	var frames []image.Image
	if video {
		imgs, err := imaging.LoadFrames(inPath)
		if err != nil {
			return err
		}
		frames = imgs
	} else {
		img, err := imaging.Load(inPath)
		if err != nil {
			return err
		}
		frames = []image.Image{img}
	}
	if len(frames) == 0 {
		return errors.Errorf("%s has no frames", inPath)
	}
	b := frames[0].Bounds()
	lgr.Info("loaded image", "path", inPath, "width", b.Dx(), "height", b.Dy(), "frames", len(frames))

	width, height := ec.Width, ec.Height
	if width == 0 && height == 0 {
		width, height = b.Dx(), b.Dy()
	}
	opts := imaging.Options{Width: width, Height: height, Level: uint8(ec.Threshold), Invert: ec.Invert}

	out, err := openOutput(outPath)
	if err != nil {
		return errors.Wrap(err, "error opening output")
	}
	defer out.Close()

	fw := &frameWriter{w: out, record: ec.Verify}
	var writeFrame func(pixels []byte) error
	switch ec.Format {
	case config.FormatRaw:
		var runs []byte
		writeFrame = func(pixels []byte) error {
			runs, err = rle.AppendEncode(runs[:0], pixels)
			if err != nil {
				return err
			}
			_, err = fw.Write(runs)
			return err
		}
	default:
		codec, err := container.CodecByName(ec.Compression)
		if err != nil {
			return err
		}
		w, err := container.NewWriter(fw, container.Header{Width: width, Height: height}, codec)
		if err != nil {
			return err
		}
		writeFrame = w.WriteFrame
	}

	total := 0
	for i, img := range frames {
		pixels, err := imaging.Bilevel(img, opts)
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		fw.reset()
		if err := writeFrame(pixels); err != nil {
			return errors.Wrapf(err, "error writing frame %d", i)
		}
		if ec.Verify {
			if err := verifyWritten(ec.Format, fw.frame.Bytes(), pixels); err != nil {
				return errors.Wrapf(err, "frame %d", i)
			}
		}
		total += fw.n
		lgr.Info("encoded frame", "frame", i, "bytes", fw.n)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "error closing output")
	}
	lgr.Info("done", "out", outPath, "frames", len(frames), "bytes", total,
		"format", ec.Format, "size", [2]int{width, height})
	return nil
}

// verifyWritten decodes the bytes written for one frame, a bare run stream
// or a container block, and compares them with the source pixels.
func verifyWritten(format string, written, pixels []byte) error {
	runs := written
	if format != config.FormatRaw {
		b, err := container.DecompressBlock(written, len(pixels))
		if err != nil {
			return err
		}
		runs = b.Runs
	}
	if !bytes.Equal(rle.Decode(runs), pixels) {
		return errVerify
	}
	return nil
}

// frameWriter counts the bytes written for the current frame and, when
// record is set, keeps a copy of them.
type frameWriter struct {
	w      io.Writer
	record bool
	n      int
	frame  bytes.Buffer
}

func (f *frameWriter) reset() {
	f.n = 0
	f.frame.Reset()
}

func (f *frameWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.n += n
	if f.record {
		f.frame.Write(p[:n])
	}
	return n, err
}
