package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/topicsheet/pkg/cache"
	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/observability"
	"github.com/matzehuels/topicsheet/pkg/render/compose"
	"github.com/matzehuels/topicsheet/pkg/render/images"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
	"github.com/matzehuels/topicsheet/pkg/render/sink"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// Resource names of the loaded logos. Fixed names keep a header and a
// footer logo with the same file name apart.
const (
	HeaderLogoName = "logo-header"
	FooterLogoName = "logo-footer"
)

// DefaultBatchLimit bounds the renders ExecuteBatch runs at once.
const DefaultBatchLimit = 4

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every call
// builds its own measurer and flow, so multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// NewMeasurer builds the measurer for one render. Defaults to the
	// built-in core font metrics.
	NewMeasurer func() metrics.Measurer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		NewMeasurer: func() metrics.Measurer {
			return metrics.NewCoreMeasurer()
		},
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Warnings = l.Warnings
	result.Stats.Pages = l.PageCount()
	result.Stats.Blocks = len(l.Blocks)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("composed sheet",
		"draft", opts.DraftName,
		"pages", l.PageCount(),
		"warnings", len(l.Warnings),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExecuteBatch runs Execute for every entry of batch with at most limit
// renders in flight. Results are returned in input order. The first error
// cancels the remaining renders.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	results := make([]*Result, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, batch[i])
			if err != nil {
				return fmt.Errorf("%s: %w", batch[i].Filename(DefaultFormat), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GenerateLayoutWithCacheInfo composes the sheet with caching and returns
// cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, opts Options) (l layout.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	start := time.Now()
	observability.Render().OnLayoutStart(ctx, opts.DraftName)
	defer func() {
		observability.Render().OnLayoutComplete(ctx, opts.DraftName, l.PageCount(), len(l.Warnings), time.Since(start), err)
	}()

	copts := opts.ComposeOptions()
	missing := r.loadLogos(&copts, opts)

	doc := sheet.Build(opts.Fields)
	m := r.measurer()
	keyOpts := opts.LayoutKeyOpts(logoHash(copts, missing))
	keyOpts.Metrics = metrics.ID(m)
	cacheKey := r.Keyer.LayoutKey(hashJSON(doc), keyOpts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			if cached, err := sink.ParseJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err = ComposeDocument(m, doc, copts)
	if err != nil {
		return layout.Layout{}, false, err
	}
	l.Warnings = append(l.Warnings, missing...)

	if data, err := sink.RenderJSON(l, sink.WithJSONOps(), sink.WithJSONResources()); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		} else {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls
// GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, opts Options) (layout.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, ok, err := r.Cache.Get(ctx, key)
			if err != nil || !ok {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := RenderFromLayout(l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// ComposeDocument lays out doc without caching.
func ComposeDocument(m metrics.Measurer, doc sheet.Document, opts compose.Options) (layout.Layout, error) {
	c, err := compose.New(m, opts)
	if err != nil {
		return layout.Layout{}, err
	}
	return c.Compose(doc)
}

// loadLogos attaches the logos named in opts to copts. Missing files are
// skipped and reported as warnings.
func (r *Runner) loadLogos(copts *compose.Options, opts Options) []layout.Warning {
	var warnings []layout.Warning
	load := func(path, name string) *images.Image {
		if path == "" {
			return nil
		}
		img, err := images.Load(path)
		if err != nil {
			if !stderrors.Is(err, images.ErrMissing) {
				err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "logo %s", path)
			}
			opts.Logger.Warn("logo skipped", "logo", name, "path", path, "error", err)
			warnings = append(warnings, layout.Warning{
				Kind:   layout.WarnImageMissing,
				Page:   1,
				Block:  name,
				Detail: err.Error(),
			})
			return nil
		}
		img.Name = name
		return img
	}
	copts.HeaderLogo = load(opts.HeaderLogo, HeaderLogoName)
	copts.FooterLogo = load(opts.FooterLogo, FooterLogoName)
	return warnings
}

// logoHash identifies the logo data and the skipped logos.
func logoHash(copts compose.Options, missing []layout.Warning) string {
	var parts []string
	for _, img := range []*images.Image{copts.HeaderLogo, copts.FooterLogo} {
		if img == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, cache.Hash(img.Data))
	}
	for _, w := range missing {
		parts = append(parts, w.Block+":"+w.Detail)
	}
	return hashJSON(parts)
}

func (r *Runner) measurer() metrics.Measurer {
	if r.NewMeasurer == nil {
		return metrics.NewCoreMeasurer()
	}
	return r.NewMeasurer()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
