// Package configfile reads and writes the Lotus service config file.
package configfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/lotus-setup/internal/model"
)

// Format is the encoding of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const header = "# Generated by lotus-setup. Edit freely; re-running the wizard keeps your values.\n"

// ParseFormat accepts "yaml", "yml" and "toml". Empty means YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("configfile: unknown format %q", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads an existing config and fills missing keys with model.Defaults.
// A missing file is not an error; the defaults are returned.
func Load(fs afero.Fs, path string) (model.SetupConfig, error) {
	cfg := model.Defaults()

	v := viper.New()
	v.SetFs(fs)
	if err := setDefaults(v, cfg); err != nil {
		return cfg, err
	}

	v.SetConfigFile(path)
	v.SetConfigType(string(FormatFromPath(path)))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("configfile: read %s: %w", path, err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return cfg, fmt.Errorf("configfile: decode %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults registers every key of cfg as a viper default, using the
// same key names the YAML encoder produces.
func setDefaults(v *viper.Viper, cfg model.SetupConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("configfile: encode defaults: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("configfile: decode defaults: %w", err)
	}
	for key, value := range values {
		v.SetDefault(key, value)
	}
	return nil
}

// Marshal encodes cfg in the given format, preceded by a comment header.
func Marshal(cfg model.SetupConfig, format Format) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("configfile: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("configfile: encode yaml: %w", err)
		}
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("configfile: encode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("configfile: unknown format %q", format)
	}
	return buf.Bytes(), nil
}

// Write encodes cfg and replaces path atomically: the content goes to a
// temporary file in the same directory which is then renamed over path.
func Write(fs afero.Fs, path string, cfg model.SetupConfig, format Format) error {
	data, err := Marshal(cfg, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("configfile: create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("configfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("configfile: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("configfile: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("configfile: close %s: %w", tmpName, err)
	}
	if err := fs.Chmod(tmpName, 0644); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("configfile: chmod %s: %w", tmpName, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("configfile: replace %s: %w", path, err)
	}
	return nil
}
