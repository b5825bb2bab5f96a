package statefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sdujack2012/remic/internal/tree"
)

// ErrUnknownFormat is returned for file names whose extension maps to no
// supported document format.
var ErrUnknownFormat = errors.New("unknown document format")

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Decode parses a document.
func Decode(data []byte, format Format) (tree.Value, error) {
	var raw any
	switch format {
	case JSON:
		return tree.ParseJSON(data)
	case YAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case TOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		raw = doc
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	v, err := tree.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return v, nil
}

// Encode renders v. TOML documents must have a Map at the root.
func Encode(v tree.Value, format Format) ([]byte, error) {
	switch format {
	case JSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree.ToAny(v)); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return buf.Bytes(), nil
	case YAML:
		out, err := yaml.Marshal(tree.ToAny(v))
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	case TOML:
		if _, ok := tree.AsMap(v); !ok {
			return nil, fmt.Errorf("encode toml: root must be a table, got %T", v)
		}
		out, err := toml.Marshal(tree.ToAny(v))
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Load reads and decodes the document at path. The format comes from the
// extension.
func Load(path string) (tree.Value, Format, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read state file: %w", err)
	}
	v, err := Decode(data, format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return v, format, nil
}

// Save encodes v in the format named by path's extension and writes it,
// creating parent directories as needed.
func Save(path string, v tree.Value) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(v, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
