package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout of the user configuration file. Only
// the declarative fields live in the file; callbacks are wired in code.
type fileConfig struct {
	Dimensions *fileDimensions `toml:"dimensions,omitempty"`
	Border     *string         `toml:"border,omitempty"`
	Highlight  *string         `toml:"highlight,omitempty"`
	Blend      *int            `toml:"blend,omitempty"`
	Cmd        []string        `toml:"cmd,omitempty"`
	FileType   *string         `toml:"filetype,omitempty"`
	AutoClose  *bool           `toml:"auto_close,omitempty"`
}

type fileDimensions struct {
	Width  *float64 `toml:"width,omitempty"`
	Height *float64 `toml:"height,omitempty"`
	X      *float64 `toml:"x,omitempty"`
	Y      *float64 `toml:"y,omitempty"`
}

// GetConfigPath returns the path of the user configuration file, creating
// parent directories as needed.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile("fterm/config.toml")
	if err != nil {
		return "", fmt.Errorf("could not resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the user configuration file and returns it as
// overrides to merge over Default(). A missing file is not an error: a
// default file is written for the user to edit and empty overrides are
// returned.
func LoadUserConfig() (Overrides, error) {
	path, err := GetConfigPath()
	if err != nil {
		return Overrides{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if werr := WriteDefaultConfig(path); werr != nil {
			return Overrides{}, werr
		}
		return Overrides{}, nil
	}
	if err != nil {
		return Overrides{}, fmt.Errorf("could not read config file: %w", err)
	}

	return ParseOverrides(data)
}

// ParseOverrides decodes TOML configuration data into overrides.
func ParseOverrides(data []byte) (Overrides, error) {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Overrides{}, fmt.Errorf("could not parse config file: %w", err)
	}

	o := Overrides{
		Border:    fc.Border,
		Highlight: fc.Highlight,
		Blend:     fc.Blend,
		FileType:  fc.FileType,
		AutoClose: fc.AutoClose,
	}
	if fc.Cmd != nil {
		o.Cmd = Command(fc.Cmd)
	}
	if fc.Dimensions != nil {
		o.Dimensions = &DimensionOverrides{
			Width:  fc.Dimensions.Width,
			Height: fc.Dimensions.Height,
			X:      fc.Dimensions.X,
			Y:      fc.Dimensions.Y,
		}
	}
	return o, nil
}

// WriteDefaultConfig writes a commented default configuration file to path.
func WriteDefaultConfig(path string) error {
	def := Default()
	fc := fileConfig{
		Dimensions: &fileDimensions{
			Width:  &def.Dimensions.Width,
			Height: &def.Dimensions.Height,
			X:      &def.Dimensions.X,
			Y:      &def.Dimensions.Y,
		},
		Border:    &def.Border,
		Highlight: &def.Highlight,
		Blend:     &def.Blend,
		FileType:  &def.FileType,
		AutoClose: &def.AutoClose,
	}

	var sb strings.Builder
	sb.WriteString("# fterm configuration file\n")
	sb.WriteString("# Dimensions are ratios of the screen size in [0, 1];\n")
	sb.WriteString("# x/y place the window within the remaining space (0.5 centers it).\n")
	sb.WriteString("# cmd defaults to your login shell when unset.\n\n")

	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
