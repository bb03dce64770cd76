package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// Supported encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// File is one sheet: an optional draft name and its fields.
type File struct {
	Name   string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Fields sheet.FieldMap `json:"fields" yaml:"fields" toml:"fields"`
}

// Batch is a list of sheets rendered together.
type Batch struct {
	Sheets []File `json:"sheets" yaml:"sheets" toml:"sheets"`
}

// FormatFromPath returns the encoding implied by the extension of path.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet file extension %q (must be .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

func decode(r io.Reader, format string, v any) error {
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(v)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(v)
		if err == nil {
			if undec := md.Undecoded(); len(undec) > 0 {
				err = fmt.Errorf("unknown key %q", undec[0].String())
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", format)
	}
	return nil
}

// ReadFile decodes one sheet from r.
func ReadFile(r io.Reader, format string) (File, error) {
	var f File
	if err := decode(r, format, &f); err != nil {
		return File{}, err
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// ReadBatch decodes a batch from r.
func ReadBatch(r io.Reader, format string) (Batch, error) {
	var b Batch
	if err := decode(r, format, &b); err != nil {
		return Batch{}, err
	}
	for i, f := range b.Sheets {
		if err := f.Validate(); err != nil {
			return Batch{}, fmt.Errorf("sheet %d: %w", i+1, err)
		}
	}
	return b, nil
}

// Validate checks the draft name and every field key.
func (f File) Validate() error {
	if f.Name != "" {
		if err := errors.ValidateDraftName(f.Name); err != nil {
			return err
		}
	}
	for _, key := range f.Fields.SortedKeys() {
		if err := errors.ValidateFieldKey(key); err != nil {
			return err
		}
		if !sheet.IsKey(key) {
			return errors.New(errors.ErrCodeInvalidFieldKey, "unknown field %q", key)
		}
	}
	return nil
}

// ImportFile reads a sheet from path.
func ImportFile(path string) (File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return File{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return ReadFile(fh, format)
}

// ImportBatch reads a batch from path.
func ImportBatch(path string) (Batch, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Batch{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return ReadBatch(fh, format)
}
