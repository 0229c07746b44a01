package snapshotfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/event-simulator/internal/scheduler"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("snapshotfile: unsupported format")

// Format identifies the encoding of a snapshot file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want .json, .yaml or .yml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a snapshot file. Unknown fields are rejected so typos in field
// names do not silently drop data.
func Load(path string) (scheduler.RawSnapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return scheduler.RawSnapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scheduler.RawSnapshot{}, fmt.Errorf("snapshotfile: read %s: %w", path, err)
	}
	raw, err := Parse(data, format)
	if err != nil {
		return scheduler.RawSnapshot{}, fmt.Errorf("snapshotfile: %s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes snapshot content in the given format.
func Parse(data []byte, format Format) (scheduler.RawSnapshot, error) {
	var raw scheduler.RawSnapshot
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&raw); err != nil {
			return scheduler.RawSnapshot{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return scheduler.RawSnapshot{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return scheduler.RawSnapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return raw, nil
}

// Write encodes raw in the given format.
func Write(w io.Writer, raw scheduler.RawSnapshot, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(raw)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(raw); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
