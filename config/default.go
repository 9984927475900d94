package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

const ConfigFile = "config.toml"

var DefaultConfig = Config{
	LogLevel: "info",
	Encode: EncodeConfig{
		Width:       64,
		Height:      64,
		Threshold:   127,
		Format:      FormatFramed,
		Compression: "zstd",
	},
}

var defaultConfigTemplateText = `# bwrle configuration.
# Command-line flags override these values.

# Sets the log level: trace, debug, info, warn, error or fatal.
log_level = "{{.LogLevel}}"

[encode]
  # Size every frame is resized to before thresholding.
  # 0 and 0 keep the size of the source image.
  width = {{.Encode.Width}}
  height = {{.Encode.Height}}
  # Gray levels above the threshold become light pixels.
  threshold = {{.Encode.Threshold}}
  # Swaps dark and light after thresholding.
  invert = {{.Encode.Invert}}
  # "framed" writes a header and per-frame lengths, "raw" writes bare
  # run-length streams back to back.
  format = "{{.Encode.Format}}"
  # Compression of framed output: none, lz4 or zstd.
  compression = "{{.Encode.Compression}}"
  # Decodes every frame after encoding it and compares.
  verify = {{.Encode.Verify}}

[decode]
  # Frame size of raw input. Framed input carries its own size.
  width = {{.Decode.Width}}
  height = {{.Decode.Height}}
`

var defaultConfigTemplate = template.Must(template.New("defaultConfig").Parse(defaultConfigTemplateText))

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ReadConfigFile(homeDir string) (*Config, error) {
	f, err := os.Open(filepath.Join(homeDir, ConfigFile))
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return cfg, nil
}

// LoadConfig reads the config file in homeDir, or returns the defaults if
// there is none.
func LoadConfig(homeDir string) (*Config, error) {
	_, err := os.Stat(filepath.Join(homeDir, ConfigFile))
	if os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}
	return ReadConfigFile(homeDir)
}

func WriteDefaultConfigFile(homeDir string) error {
	f, err := os.OpenFile(filepath.Join(homeDir, ConfigFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	if _, err := io.Copy(f, bytes.NewReader(GenerateDefaultConfigFile())); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}
