package simdef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat indicates a definition file extension that is neither
	// YAML nor TOML.
	ErrUnknownFormat = errors.New("unknown definition file format")

	// ErrUnsupportedSpec indicates a definition written against a spec
	// version this loader does not understand.
	ErrUnsupportedSpec = errors.New("unsupported definition spec version")
)

// Load reads and parses a definition file, dispatching on the extension:
// .yaml/.yml or .toml.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// ParseYAML parses YAML definition data.
func ParseYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.checkSpec(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseTOML parses TOML definition data.
func ParseTOML(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.checkSpec(); err != nil {
		return nil, err
	}
	return &f, nil
}

// checkSpec accepts files with no spec tag or any "1.x" tag.
func (f *File) checkSpec() error {
	if f.Spec == "" || f.Spec == "1" || strings.HasPrefix(f.Spec, "1.") {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedSpec, f.Spec)
}
