// Package cache stores computed layouts and rendered artifacts.
//
// Rendering a sheet is deterministic: the same field map, geometry and
// options always produce the same layout and the same bytes. The render
// pipeline therefore keys layouts by a hash of their inputs and artifacts
// by a hash of the layout, and skips work on a hit.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the form service
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are built by a [Keyer] so backends never see raw inputs:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(docHash, cache.LayoutKeyOpts{Geometry: geoHash})
//
// [ScopedKeyer] prefixes every key, e.g. with an owner ID.
package cache

import (
	"context"
	"time"
)

// Default time-to-live for cache entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds every input besides the document that changes a layout.
type LayoutKeyOpts struct {
	Geometry      string `json:"geometry"` // hash of the geometry and branding
	BoldRowLabels bool   `json:"bold_row_labels,omitempty"`
	SummaryOnly   bool   `json:"summary_only,omitempty"`
	Logos         string `json:"logos,omitempty"`   // hash of the logo data
	Metrics       string `json:"metrics,omitempty"` // identity of the text measurer
}

// ArtifactKeyOpts holds every input besides the layout that changes an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}
