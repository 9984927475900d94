package config

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type Config struct {
	LogLevel string
	Encode   EncodeConfig
	Decode   DecodeConfig
}

type EncodeConfig struct {
	Width       int
	Height      int
	Threshold   int
	Invert      bool
	Format      string
	Compression string
	Verify      bool
}

type DecodeConfig struct {
	Width  int
	Height int
}

// Formats of the encoded output.
const (
	FormatFramed = "framed"
	FormatRaw    = "raw"
)

// ReadConfig parses a TOML config. Keys missing from the file keep their
// DefaultConfig values.
func ReadConfig(r io.Reader) (*Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	config := DefaultConfig
	fields := []struct {
		key string
		dst interface{}
	}{
		{"log_level", &config.LogLevel},
		{"encode.width", &config.Encode.Width},
		{"encode.height", &config.Encode.Height},
		{"encode.threshold", &config.Encode.Threshold},
		{"encode.invert", &config.Encode.Invert},
		{"encode.format", &config.Encode.Format},
		{"encode.compression", &config.Encode.Compression},
		{"encode.verify", &config.Encode.Verify},
		{"decode.width", &config.Decode.Width},
		{"decode.height", &config.Decode.Height},
	}
	for _, f := range fields {
		if !tree.Has(f.key) {
			continue
		}
		if err := assign(f.dst, tree.Get(f.key)); err != nil {
			return nil, errors.Wrapf(err, "error decoding %s", f.key)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func assign(dst interface{}, v interface{}) error {
	switch d := dst.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return errors.Errorf("expected string, got %T", v)
		}
		*d = s
	case *int:
		n, ok := v.(int64)
		if !ok {
			return errors.Errorf("expected integer, got %T", v)
		}
		*d = int(n)
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return errors.Errorf("expected boolean, got %T", v)
		}
		*d = b
	default:
		panic("unsupported config field type")
	}
	return nil
}

// Validate checks the values a config file can get wrong.
func (c *Config) Validate() error {
	e := c.Encode
	if e.Width < 0 || e.Height < 0 || e.Width > 0xffff || e.Height > 0xffff {
		return errors.Errorf("invalid encode size %dx%d", e.Width, e.Height)
	}
	if e.Threshold < 0 || e.Threshold > 255 {
		return errors.Errorf("threshold %d out of range 0..255", e.Threshold)
	}
	switch e.Format {
	case FormatFramed, FormatRaw:
	default:
		return errors.Errorf("unknown format %q", e.Format)
	}
	switch e.Compression {
	case "none", "lz4", "zstd":
	default:
		return errors.Errorf("unknown compression %q", e.Compression)
	}
	if c.Decode.Width < 0 || c.Decode.Height < 0 {
		return errors.Errorf("invalid decode size %dx%d", c.Decode.Width, c.Decode.Height)
	}
	return nil
}
