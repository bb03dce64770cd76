// Package pipeline provides the compose → render pipeline for topicsheet.
//
// Both the CLI and the HTTP form service turn a field map into files the
// same way; this package holds that logic so the two entry points cannot
// drift apart.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: build a [sheet.Document] from the field map and compose it
//     into a paginated [layout.Layout]
//  2. Render: write the layout in every requested format (PDF, JSON, SVG)
//
// Both stages are deterministic, so the [Runner] caches their results.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Fields:    fields,
//	    DraftName: "Quarterly Review",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicsheet/pkg/cache"
	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/render/compose"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPDF

// Creator is stamped into PDF metadata.
const Creator = "topicsheet"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one render.
// This struct supports JSON serialization for batch files.
type Options struct {
	// Fields holds the form values keyed by field name. Missing keys render
	// as empty boxes.
	Fields sheet.FieldMap `json:"fields"`

	// DraftName names the output file. Empty means the default name.
	DraftName string `json:"draft_name,omitempty"`

	// Layout options
	SummaryOnly    bool              `json:"summary_only,omitempty"`
	PlainRowLabels bool              `json:"plain_row_labels,omitempty"`
	HeaderLogo     string            `json:"header_logo,omitempty"` // file path
	FooterLogo     string            `json:"footer_logo,omitempty"` // file path
	Geometry       *layout.Geometry  `json:"geometry,omitempty"`
	Branding       *compose.Branding `json:"branding,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`
	Author  string   `json:"author,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the composed document.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings lists oversized words and blocks and skipped logos.
	Warnings []layout.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Pages      int
	Blocks     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, json, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DraftName != "" {
		if err := errors.ValidateDraftName(o.DraftName); err != nil {
			return err
		}
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Fields == nil {
		o.Fields = sheet.FieldMap{}
	}
	if o.Geometry == nil {
		g := layout.DefaultGeometry()
		o.Geometry = &g
	}
	if o.Branding == nil {
		b := compose.DefaultBranding()
		o.Branding = &b
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and validates the geometry.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Geometry.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Title == "" && o.Branding != nil {
		o.Title = o.Branding.Title
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Filename returns "{draft name}.{format}", or the default stem when no
// draft name is set.
func (o *Options) Filename(format string) string {
	return sheet.Filename(o.DraftName, format)
}

// ComposeOptions converts the options to composer options. Logos are
// attached by the runner.
func (o *Options) ComposeOptions() compose.Options {
	opts := compose.DefaultOptions()
	if o.Geometry != nil {
		opts.Geometry = *o.Geometry
	}
	if o.Branding != nil {
		opts.Branding = *o.Branding
	}
	opts.BoldRowLabels = !o.PlainRowLabels
	opts.SummaryOnly = o.SummaryOnly
	opts.Logger = o.Logger
	return opts
}

// LayoutKeyOpts returns cache key options for layout computation.
// logos is a hash of the loaded logo data.
func (o *Options) LayoutKeyOpts(logos string) cache.LayoutKeyOpts {
	geo := hashJSON(struct {
		G *layout.Geometry
		B *compose.Branding
	}{o.Geometry, o.Branding})
	return cache.LayoutKeyOpts{
		Geometry:      geo,
		BoldRowLabels: !o.PlainRowLabels,
		SummaryOnly:   o.SummaryOnly,
		Logos:         logos,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Title:  o.Title,
		Author: o.Author,
	}
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("pipeline: marshal cache key: %v", err))
	}
	return cache.Hash(data)
}
