package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the container encoding of a persisted library
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the container format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported library file extension %q", filepath.Ext(path))
}

// Decode parses a library from data in the given format.
// Unknown fields are rejected for both formats.
func Decode(data []byte, format Format) (*CellLibraryProto, error) {
	var lib CellLibraryProto
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&lib); err != nil {
			return nil, fmt.Errorf("decoding json library: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&lib); err != nil {
			return nil, fmt.Errorf("decoding yaml library: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown library format %q", format)
	}
	return &lib, nil
}

// Encode serializes a library in the given format
func Encode(lib *CellLibraryProto, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(lib, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json library: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(lib); err != nil {
			return nil, fmt.Errorf("encoding yaml library: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml library: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown library format %q", format)
}

// ToJSON re-encodes a library as compact JSON. Used to hand YAML-sourced
// libraries to JSON consumers such as the contract validator.
func ToJSON(lib *CellLibraryProto) ([]byte, error) {
	data, err := json.Marshal(lib)
	if err != nil {
		return nil, fmt.Errorf("encoding json library: %w", err)
	}
	return data, nil
}

// ReadFile loads a library file, picking the format from its extension
func ReadFile(path string) (*CellLibraryProto, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library file: %w", err)
	}
	return Decode(data, format)
}

// WriteFile writes a library file atomically, picking the format from its extension
func WriteFile(path string, lib *CellLibraryProto) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(lib, format)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("library dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("temp library file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write library file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close library file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename library file: %w", err)
	}
	return nil
}
