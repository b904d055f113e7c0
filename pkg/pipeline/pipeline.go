// Package pipeline implements the cached fetch-and-render pipeline.
//
// A [Runner] loads the six statistics categories for a repository
// concurrently: each category checks the cache, fetches and normalizes on a
// miss, stores the result, and hands it to a [render.Renderer]. Categories
// fail independently: a failure in one never cancels, blocks, or aborts the
// others. The primary stats category (and the download aggregate) render
// fixed fallback values on failure; every other category leaves its render
// target untouched.
package pipeline

import (
	"time"

	"github.com/repopulse/repopulse/pkg/cache"
	"github.com/repopulse/repopulse/pkg/stats"
)

// Options configures a single Load.
type Options struct {
	// Refresh bypasses the cache and always fetches.
	Refresh bool

	// TTL overrides the cache TTL for stored values. Zero means
	// cache.DefaultTTL.
	TTL time.Duration
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	return o
}

// CategoryResult records the outcome of one category load.
type CategoryResult struct {
	Category string        `json:"category"`
	Cached   bool          `json:"cached"`
	Fallback bool          `json:"fallback"`
	Skipped  bool          `json:"skipped"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Result holds the data of one Load across all six categories, plus the
// per-category outcomes.
type Result struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`

	Stats        stats.RepoStats     `json:"stats"`
	Downloads    int64               `json:"downloads"`
	Commits      []stats.Commit      `json:"commits"`
	Contributors []stats.Contributor `json:"contributors"`
	Languages    []stats.Language    `json:"languages"`
	Release      stats.Release       `json:"release"`

	Loads map[string]CategoryResult `json:"loads"`
}

// Failed reports whether any category load ended in an error.
func (r *Result) Failed() bool {
	for _, l := range r.Loads {
		if l.Err != nil {
			return true
		}
	}
	return false
}
