package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

// WriteFile encodes f to w. Fields are written in key order.
func WriteFile(f File, w io.Writer, format string) error {
	if f.Fields == nil {
		f.Fields = map[string]string{}
	}
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(f); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(f)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported sheet format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// ExportFile writes f to path, choosing the encoding from the extension.
func ExportFile(f File, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteFile(f, fh, format); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "close %s", path)
	}
	return nil
}
