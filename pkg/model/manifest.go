package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/typegrid/typegrid/pkg/errors"
)

// Manifest formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath derives the manifest format from a file extension.
// Returns an error for unknown extensions.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown manifest extension: %s (want .toml, .json, .yaml)", filepath.Ext(path))
	}
}

// Read decodes a manifest in the given format from r into a Model.
//
// The manifest declares the metamodel: card types with their categories and
// fields, and the typed relations between them. A minimal TOML manifest:
//
//	name = "enterprise"
//
//	[[card_types]]
//	key = "application"
//	name = "Application"
//	category = "application"
//
//	[[card_types]]
//	key = "server"
//	category = "technology"
//
//	[[relations]]
//	key = "runs-on"
//	name = "runs on"
//	reverse_name = "hosts"
//	source = "application"
//	target = "server"
//
// Read returns an error if the payload is malformed or if the decoded model
// fails [Model.Validate]. Lint-level problems (dangling endpoints, missing
// labels) do not fail the read. Read does not close r.
func Read(r io.Reader, format string) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Model
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &m)
	case FormatJSON:
		err = json.Unmarshal(data, &m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write encodes a model in the given format to w. The output re-reads with
// [Read] to an identical model.
func Write(w io.Writer, m *Model, format string) error {
	switch format {
	case FormatTOML:
		data, err := toml.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode manifest: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown manifest format: %s", format)
	}
}

// Load reads a manifest file at path, deriving the format from the
// extension. The error wraps the underlying cause with the file path for
// context; a missing file carries a not-found code.
func Load(path string) (*Model, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Save writes a manifest file at path, deriving the format from the
// extension. This is a convenience wrapper around [Write] for file-based
// output.
func Save(path string, m *Model) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, m, format)
}
