package io

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

func sampleFile() File {
	return File{
		Name: "Q3 Review",
		Fields: sheet.FieldMap{
			sheet.KeyTopic:                         "Hiring plan",
			sheet.OptionKey(2, "Benefits/Revenue"): "+10%",
			sheet.ActionKey(5):                     "Post the job ad",
		},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"dir/a.YAML", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.toml", FormatTOML, false},
		{"a.txt", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteReadAllFormats(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFile(sampleFile(), &buf, format); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			got, err := ReadFile(&buf, format)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if diff := cmp.Diff(sampleFile(), got); diff != "" {
				t.Errorf("ReadFile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFileYAML(t *testing.T) {
	src := `
name: Budget
fields:
  Topic: Cloud spend
  Option1Cons: Slow
`
	f, err := ReadFile(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if f.Name != "Budget" {
		t.Errorf("Name = %q, want %q", f.Name, "Budget")
	}
	if got := f.Fields.Get("Option1Cons"); got != "Slow" {
		t.Errorf("Option1Cons = %q, want %q", got, "Slow")
	}
}

func TestReadFileRejectsUnknownField(t *testing.T) {
	src := `{"fields": {"Topic": "x", "Topik": "typo"}}`
	_, err := ReadFile(strings.NewReader(src), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidFieldKey) {
		t.Fatalf("ReadFile() error = %v, want %s", err, errors.ErrCodeInvalidFieldKey)
	}
}

func TestReadFileRejectsUnknownTopLevelKey(t *testing.T) {
	tests := []struct {
		format string
		src    string
	}{
		{FormatJSON, `{"title": "x", "fields": {}}`},
		{FormatYAML, "title: x\nfields: {}\n"},
		{FormatTOML, "title = \"x\"\n[fields]\n"},
	}
	for _, tt := range tests {
		_, err := ReadFile(strings.NewReader(tt.src), tt.format)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadFile(%s) error = %v, want %s", tt.format, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestReadFileRejectsBadName(t *testing.T) {
	_, err := ReadFile(strings.NewReader(`{"name": "../x", "fields": {}}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidDraftName) {
		t.Fatalf("ReadFile() error = %v, want %s", err, errors.ErrCodeInvalidDraftName)
	}
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	_, err := ReadFile(strings.NewReader(`{}`), "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("ReadFile() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestReadBatchTOML(t *testing.T) {
	src := `
[[sheets]]
name = "first"
[sheets.fields]
Topic = "One"

[[sheets]]
[sheets.fields]
Topic = "Two"
"Option3Benefits/Revenue" = "More"
`
	b, err := ReadBatch(strings.NewReader(src), FormatTOML)
	if err != nil {
		t.Fatalf("ReadBatch() error: %v", err)
	}
	if len(b.Sheets) != 2 {
		t.Fatalf("len(Sheets) = %d, want 2", len(b.Sheets))
	}
	if b.Sheets[0].Name != "first" || b.Sheets[1].Name != "" {
		t.Errorf("names = %q, %q", b.Sheets[0].Name, b.Sheets[1].Name)
	}
	if got := b.Sheets[1].Fields.Get("Option3Benefits/Revenue"); got != "More" {
		t.Errorf("Option3Benefits/Revenue = %q, want %q", got, "More")
	}
}

func TestReadBatchReportsSheetIndex(t *testing.T) {
	src := `{"sheets": [{"fields": {}}, {"fields": {"Bogus": "x"}}]}`
	_, err := ReadBatch(strings.NewReader(src), FormatJSON)
	if err == nil || !strings.Contains(err.Error(), "sheet 2") {
		t.Fatalf("ReadBatch() error = %v, want mention of sheet 2", err)
	}
}

func TestExportImportFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"s.json", "s.yaml", "s.toml"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(sampleFile(), path); err != nil {
			t.Fatalf("ExportFile(%s) error: %v", name, err)
		}
		got, err := ImportFile(path)
		if err != nil {
			t.Fatalf("ImportFile(%s) error: %v", name, err)
		}
		if diff := cmp.Diff(sampleFile(), got); diff != "" {
			t.Errorf("ImportFile(%s) mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "missing.json"))
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ImportFile() error = %v, want not-exist", err)
	}
}

func TestWriteFileNilFields(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFile(File{}, &buf, FormatJSON); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"fields": {}`) {
		t.Errorf("WriteFile() = %s, want empty fields object", buf.String())
	}
}
