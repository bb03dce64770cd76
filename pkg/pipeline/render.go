package pipeline

import (
	"fmt"

	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/render/sink"
)

// RenderFromLayout renders l in every format of opts.Formats.
// A failure in any format aborts the render and returns no artifacts.
func RenderFromLayout(l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(l layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPDF:
		return sink.RenderPDF(l, buildPDFOptions(opts)...)
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONOps())
	case FormatSVG:
		return sink.RenderSVG(l), nil
	}
	return nil, ValidateFormat(format)
}

func buildPDFOptions(opts Options) []sink.PDFOption {
	pdfOpts := []sink.PDFOption{sink.WithCreator(Creator)}
	if opts.Title != "" {
		pdfOpts = append(pdfOpts, sink.WithTitle(opts.Title))
	}
	if opts.Author != "" {
		pdfOpts = append(pdfOpts, sink.WithAuthor(opts.Author))
	}
	return pdfOpts
}
