// Package pkg holds the libraries behind the topicsheet command and form
// server.
//
// # Overview
//
// topicsheet turns the fields of a "Strategic / Ad hoc Topic Summary" form
// into a paginated PDF. The pkg directory is organised by concern:
//
//  1. [sheet] - field keys, field maps and the fixed document structure
//  2. [render] - measurement, wrapping, pagination and output sinks
//  3. [pipeline] - orchestration (compose → render) with caching
//  4. [drafts] and [session] - saved forms and their owners
//  5. [api] - the HTTP form service
//  6. [config], [io], [cache], [errors], [fonts], [observability] - support
//
// # Architecture
//
// The data flow for one sheet:
//
//	form fields / sheet file / saved draft
//	         ↓
//	    [sheet] package (normalise and build the document)
//	         ↓
//	    [render/compose] package (wrap, size, paginate)
//	         ↓
//	    [render/sink] package (PDF, JSON, SVG)
//
// # Quick Start
//
// Render a sheet to PDF:
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/topicsheet/pkg/pipeline"
//	    "github.com/matzehuels/topicsheet/pkg/sheet"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    Fields:  sheet.FieldMap{sheet.KeyTopic: "Office move"},
//	    Formats: []string{pipeline.FormatPDF},
//	})
//	pdf := res.Artifacts[pipeline.FormatPDF]
//
// The runner caches composed layouts and rendered artifacts; pass a
// [cache.FileCache] or [cache.RedisCache] to keep them between runs.
//
// [sheet]: github.com/matzehuels/topicsheet/pkg/sheet
// [render]: github.com/matzehuels/topicsheet/pkg/render
// [render/compose]: github.com/matzehuels/topicsheet/pkg/render/compose
// [render/sink]: github.com/matzehuels/topicsheet/pkg/render/sink
// [pipeline]: github.com/matzehuels/topicsheet/pkg/pipeline
// [drafts]: github.com/matzehuels/topicsheet/pkg/drafts
// [session]: github.com/matzehuels/topicsheet/pkg/session
// [api]: github.com/matzehuels/topicsheet/pkg/api
// [config]: github.com/matzehuels/topicsheet/pkg/config
// [io]: github.com/matzehuels/topicsheet/pkg/io
// [cache]: github.com/matzehuels/topicsheet/pkg/cache
// [cache.FileCache]: github.com/matzehuels/topicsheet/pkg/cache#FileCache
// [cache.RedisCache]: github.com/matzehuels/topicsheet/pkg/cache#RedisCache
// [errors]: github.com/matzehuels/topicsheet/pkg/errors
// [fonts]: github.com/matzehuels/topicsheet/pkg/fonts
// [observability]: github.com/matzehuels/topicsheet/pkg/observability
package pkg
