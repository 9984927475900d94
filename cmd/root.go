// Package cmd is the bwrle command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/svanichkin/bwrle/config"
	"github.com/svanichkin/bwrle/log"
)

const (
	FlagHome     = "home"
	FlagLogLevel = "log-level"
	FlagSize     = "size"
	FlagFormat   = "format"
)

// NewRootCmd builds the bwrle command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bwrle",
		Short:         "Run-length encoder for black and white images and animations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(FlagHome, "~/.bwrle", "Home directory for the configuration file.")
	rootCmd.PersistentFlags().String(FlagLogLevel, "", "Log level (trace, debug, info, warn, error).")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newInfoCmd())
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func homeDir(cmd *cobra.Command) string {
	home, err := cmd.Flags().GetString(FlagHome)
	if err != nil {
		panic(err)
	}
	return config.ExpandHomePath(home)
}

// loadConfig reads the config from the home directory and applies the
// log level: config file, then --log-level, then the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(homeDir(cmd))
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if cmd.Flags().Changed(FlagLogLevel) {
		level, _ = cmd.Flags().GetString(FlagLogLevel)
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	log.SetLevel(lvl)
	log.ApplyEnv()
	return cfg, nil
}

// sizeFlag returns --size as width and height, or ok == false if unset.
func sizeFlag(cmd *cobra.Command) (w, h int, ok bool, err error) {
	if !cmd.Flags().Changed(FlagSize) {
		return 0, 0, false, nil
	}
	size, err := cmd.Flags().GetIntSlice(FlagSize)
	if err != nil {
		return 0, 0, false, err
	}
	if len(size) != 2 || size[0] < 0 || size[1] < 0 {
		return 0, 0, false, errors.Errorf("--%s takes WIDTH,HEIGHT, got %v", FlagSize, size)
	}
	return size[0], size[1], true, nil
}
