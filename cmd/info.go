package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/rle"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <in>",
		Short: "Lists the frames of an encoded file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ef, err := readSource(cmd, args[0], cfg.Decode)
			if err != nil {
				return err
			}
			writeInfo(cmd.OutOrStdout(), ef)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func writeInfo(w io.Writer, ef *encodedFile) {
	fmt.Fprintf(w, "Format: %s  Size: %dx%d  Compression: %s  Frames: %d\n",
		ef.Format, ef.Width, ef.Height, ef.Method, len(ef.Frames))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Frame", "Stored", "Run Bytes", "Runs", "Pixels", "Dark", "Light"})
	for i, f := range ef.Frames {
		runs := rle.Runs(f.Runs)
		var dark, light int
		for _, r := range runs {
			if r.Light {
				light += r.Len
			} else {
				dark += r.Len
			}
		}
		table.Append([]string{
			strconv.Itoa(i),
			strconv.Itoa(f.Stored),
			strconv.Itoa(len(f.Runs)),
			strconv.Itoa(len(runs)),
			strconv.Itoa(dark + light),
			strconv.Itoa(dark),
			strconv.Itoa(light),
		})
	}
	table.Render()
}
