package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigRoundTrip(t *testing.T) {
	cfg, err := ReadConfig(bytes.NewReader(GenerateDefaultConfigFile()))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, *cfg)
}

func TestReadConfigOverrides(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`
log_level = "debug"

[encode]
  width = 128
  invert = true
  format = "raw"
`))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 128, cfg.Encode.Width)
	require.Equal(t, 64, cfg.Encode.Height)
	require.True(t, cfg.Encode.Invert)
	require.Equal(t, FormatRaw, cfg.Encode.Format)
	require.Equal(t, "zstd", cfg.Encode.Compression)
}

func TestReadConfigInvalid(t *testing.T) {
	for _, doc := range []string{
		"[encode]\nthreshold = 300\n",
		"[encode]\nformat = \"avi\"\n",
		"[encode]\ncompression = \"gzip\"\n",
		"[encode]\nwidth = -1\n",
		"[decode]\nheight = -2\n",
		"log_level = [",
	} {
		_, err := ReadConfig(strings.NewReader(doc))
		require.Error(t, err, doc)
	}
}

func TestInitHomeDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "bwrle")

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, *cfg)

	require.NoError(t, InitHomeDir(home))
	require.Error(t, InitHomeDir(home))

	cfg, err = ReadConfigFile(home)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, *cfg)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = HomeDirExists(file)
	require.Error(t, err)
}

func TestExpandHomePath(t *testing.T) {
	require.Equal(t, "/tmp/x", ExpandHomePath("/tmp/x"))
	require.NotContains(t, ExpandHomePath("~/.bwrle"), "~")
}

func TestReadConfigWrongType(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("[encode]\nwidth = \"wide\"\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "encode.width")
}
