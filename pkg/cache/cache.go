// Package cache provides content-addressed caching for computed layouts and
// rendered artifacts.
//
// Rendering a chart is deterministic in its definition and options, so cache
// keys are derived by hashing the canonical definition bytes together with
// the option structs that influence the output. Three backends are provided:
//   - FileCache: hash-sharded JSON entries on disk, for CLI usage
//   - RedisCache: shared cache for multi-instance service deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache entry lifetimes per pipeline stage. Layouts are cheap to keep and
// expensive enough to recompute; artifacts may shell out to rsvg-convert.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the options that influence a computed layout.
type LayoutKeyOpts struct {
	Title   string
	Width   float64
	Height  float64
	MarginX float64
	MarginY float64
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string
	Style      string
	ShowValues bool
	Scale      float64
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey generates a key for a computed layout.
	LayoutKey(defHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(defHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes option structs into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey generates a key for a computed layout.
func (DefaultKeyer) LayoutKey(defHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", defHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(defHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", defHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g.
// separating tenants sharing one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(defHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(defHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(defHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(defHash, opts)
}
