package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/imaging"
	"github.com/svanichkin/bwrle/log"
	"github.com/svanichkin/bwrle/rle"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <in> <out.png>",
		Short: "Decodes an encoded file to png.",
		Long: `Decodes an encoded file to png. A file with several frames is written
as <out>-000.png, <out>-001.png and so on.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ef, err := readSource(cmd, args[0], cfg.Decode)
			if err != nil {
				return err
			}
			paths, err := decodeFrames(ef, args[1])
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Decoded %s → %s\n", args[0], p)
			}
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

// framePaths names the png files for n frames.
func framePaths(outPath string, n int) []string {
	if n == 1 {
		return []string{outPath}
	}
	ext := filepath.Ext(outPath)
	base := strings.TrimSuffix(outPath, ext)
	if ext == "" {
		ext = ".png"
	}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s-%03d%s", base, i, ext)
	}
	return paths
}

func decodeFrames(ef *encodedFile, outPath string) ([]string, error) {
	lgr := log.WithModule("decode")
	if len(ef.Frames) == 0 {
		return nil, errors.New("encoded file has no frames")
	}
	paths := framePaths(outPath, len(ef.Frames))
	for i, f := range ef.Frames {
		img, err := imaging.FromPixels(rle.Decode(f.Runs), ef.Width, ef.Height)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		if err := imaging.SavePNG(paths[i], img); err != nil {
			return nil, err
		}
		lgr.Debug("decoded frame", "frame", i, "bytes", f.Stored, "path", paths[i])
	}
	lgr.Info("done", "frames", len(ef.Frames), "format", ef.Format,
		"size", fmt.Sprintf("%dx%d", ef.Width, ef.Height))
	return paths, nil
}
