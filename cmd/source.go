package cmd

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/config"
	"github.com/svanichkin/bwrle/container"
	"github.com/svanichkin/bwrle/log"
	"github.com/svanichkin/bwrle/rle"
)

const formatAuto = "auto"

// encodedFrame is one frame read back from an encoded file.
type encodedFrame struct {
	// Stored is the number of bytes the frame takes in the file.
	Stored int
	// Runs is the frame's rle stream.
	Runs []byte
}

// encodedFile is an encoded file split into frames.
type encodedFile struct {
	Format string
	Width  int
	Height int
	Method string
	Frames []encodedFrame
}

// readEncodedFile reads a framed or raw file. Raw files are split using the
// given frame size, which is required for them.
//
// In auto mode a file that starts with a valid container header is read as
// framed. A raw stream can start with the same ten bytes by chance, so when
// the framed read fails and a frame size is known the file is retried as raw.
func readEncodedFile(path, format string, width, height int) (*encodedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading encoded file")
	}
	switch format {
	case config.FormatFramed:
		return readFramed(data)
	case config.FormatRaw:
		return readRaw(data, width, height)
	case formatAuto:
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}

	if _, err := container.NewReader(bytes.NewReader(data)); err != nil {
		return readRaw(data, width, height)
	}
	ef, ferr := readFramed(data)
	if ferr == nil || width == 0 || height == 0 {
		return ef, ferr
	}
	ef, rerr := readRaw(data, width, height)
	if rerr != nil {
		return nil, ferr
	}
	log.WithModule("source").Warn("file has a container header but only reads as raw",
		"path", path, "framed_error", ferr.Error())
	return ef, nil
}

func readFramed(data []byte) (*encodedFile, error) {
	rd, err := container.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	hdr := rd.Header()
	ef := &encodedFile{
		Format: config.FormatFramed,
		Width:  hdr.Width,
		Height: hdr.Height,
		Method: container.MethodName(hdr.Method),
	}
	for {
		b, err := rd.NextBlock()
		if err == io.EOF {
			return ef, nil
		}
		if err != nil {
			return nil, err
		}
		ef.Frames = append(ef.Frames, encodedFrame{Stored: container.BlockHeaderSize + b.Stored, Runs: b.Runs})
	}
}

func readRaw(data []byte, width, height int) (*encodedFile, error) {
	if width == 0 || height == 0 {
		return nil, errors.Errorf("raw input needs the frame size: pass --%s WIDTH,HEIGHT", FlagSize)
	}
	frames, err := rle.SplitFrames(data, width*height)
	if err != nil {
		return nil, errors.Wrap(err, "error splitting raw frames")
	}
	ef := &encodedFile{Format: config.FormatRaw, Width: width, Height: height, Method: "none"}
	for _, f := range frames {
		ef.Frames = append(ef.Frames, encodedFrame{Stored: len(f), Runs: f})
	}
	return ef, nil
}

// addSourceFlags registers the flags that describe an encoded input.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().IntSlice(FlagSize, nil, "Frame size WIDTH,HEIGHT of raw input.")
	cmd.Flags().String(FlagFormat, formatAuto, "Input format: auto, framed or raw.")
}

// readSource reads the file named by args[0] using the source flags,
// falling back to the [decode] section of the config for the frame size.
func readSource(cmd *cobra.Command, path string, dc config.DecodeConfig) (*encodedFile, error) {
	width, height := dc.Width, dc.Height
	if w, h, ok, err := sizeFlag(cmd); err != nil {
		return nil, err
	} else if ok {
		width, height = w, h
	}
	format, _ := cmd.Flags().GetString(FlagFormat)
	return readEncodedFile(path, format, width, height)
}
