package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/repopulse/repopulse/pkg/cache"
	"github.com/repopulse/repopulse/pkg/github"
	"github.com/repopulse/repopulse/pkg/httputil"
	"github.com/repopulse/repopulse/pkg/observability"
	"github.com/repopulse/repopulse/pkg/render"
	"github.com/repopulse/repopulse/pkg/stats"
)

// Runner executes the fetch-render pipeline.
type Runner struct {
	client *github.Client
	store  cache.Store
	logger *log.Logger
	ttl    time.Duration
	group  singleflight.Group
}

// NewRunner creates a pipeline runner. Pass cache.NewNullStore() to disable
// caching. A nil logger falls back to log.Default().
func NewRunner(client *github.Client, store cache.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{client: client, store: store, logger: logger}
}

// SetDefaultTTL sets the cache lifetime used when a Load does not carry its
// own TTL. Zero keeps cache.DefaultTTL.
func (rn *Runner) SetDefaultTTL(ttl time.Duration) {
	rn.ttl = ttl
}

// DefaultTTL returns the runner-level cache lifetime, or zero when unset.
func (rn *Runner) DefaultTTL() time.Duration {
	return rn.ttl
}

// Load fetches all six categories for owner/repo concurrently and hands each
// result to r as soon as it is available. The returned Result always carries
// a per-category outcome; Load itself never returns an error because no
// category failure is fatal.
func (rn *Runner) Load(ctx context.Context, owner, repo string, r render.Renderer, opts Options) *Result {
	if opts.TTL == 0 {
		opts.TTL = rn.ttl
	}
	opts = opts.WithDefaults()
	result := &Result{Owner: owner, Repo: repo}
	outcomes := make([]CategoryResult, len(stats.Categories))

	// A plain join, not errgroup.WithContext: one failing category must not
	// cancel the others.
	var g errgroup.Group
	g.Go(func() error { outcomes[0] = rn.loadStats(ctx, result, r, opts); return nil })
	g.Go(func() error { outcomes[1] = rn.loadDownloads(ctx, result, r, opts); return nil })
	g.Go(func() error { outcomes[2] = rn.loadCommits(ctx, result, r, opts); return nil })
	g.Go(func() error { outcomes[3] = rn.loadContributors(ctx, result, r, opts); return nil })
	g.Go(func() error { outcomes[4] = rn.loadLanguages(ctx, result, r, opts); return nil })
	g.Go(func() error { outcomes[5] = rn.loadRelease(ctx, result, r, opts); return nil })
	_ = g.Wait()

	result.Loads = make(map[string]CategoryResult, len(outcomes))
	for _, o := range outcomes {
		result.Loads[o.Category] = o
	}
	return result
}

func (rn *Runner) loadStats(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryStats, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryStats, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) (stats.RepoStats, error) {
			raw, err := rn.client.Repo(ctx, result.Owner, result.Repo)
			if err != nil {
				return stats.RepoStats{}, err
			}
			return stats.NormalizeRepoStats(raw), nil
		})
		if err != nil {
			// The primary category always renders something.
			rn.logger.Debug("stats fetch failed, rendering fallback", "repo", result.Owner+"/"+result.Repo, "err", err)
			result.Stats = stats.FallbackStats
			r.RenderStats(result.Stats)
			return false, true, err
		}
		result.Stats = v
		r.RenderStats(v)
		return cached, false, nil
	})
}

func (rn *Runner) loadDownloads(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryDownloads, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryDownloads, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) (int64, error) {
			return stats.SumDownloads(ctx, rn.client, result.Owner, result.Repo)
		})
		if err != nil {
			rn.logger.Debug("download aggregation failed, rendering placeholder", "err", err)
			result.Downloads = stats.FallbackDownloads
			r.RenderDownloads(result.Downloads)
			return false, true, err
		}
		result.Downloads = v
		r.RenderDownloads(v)
		return cached, false, nil
	})
}

func (rn *Runner) loadCommits(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryCommits, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryCommits, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) ([]stats.Commit, error) {
			raw, err := rn.client.Commits(ctx, result.Owner, result.Repo, stats.MaxCommits)
			if err != nil {
				return nil, err
			}
			return stats.NormalizeCommits(raw), nil
		})
		if err != nil {
			rn.logger.Debug("commits fetch failed, leaving target untouched", "err", err)
			return false, false, err
		}
		result.Commits = v
		r.RenderCommits(v)
		return cached, false, nil
	})
}

func (rn *Runner) loadContributors(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryContributors, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryContributors, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) ([]stats.Contributor, error) {
			raw, err := rn.client.Contributors(ctx, result.Owner, result.Repo, stats.MaxContributors)
			if err != nil {
				return nil, err
			}
			return stats.NormalizeContributors(raw), nil
		})
		if err != nil {
			rn.logger.Debug("contributors fetch failed, leaving target untouched", "err", err)
			return false, false, err
		}
		result.Contributors = v
		r.RenderContributors(v)
		return cached, false, nil
	})
}

func (rn *Runner) loadLanguages(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryLanguages, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryLanguages, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) ([]stats.Language, error) {
			raw, err := rn.client.Languages(ctx, result.Owner, result.Repo)
			if err != nil {
				return nil, err
			}
			return stats.NormalizeLanguages(raw), nil
		})
		if err != nil {
			rn.logger.Debug("languages fetch failed, leaving target untouched", "err", err)
			return false, false, err
		}
		result.Languages = v
		r.RenderLanguages(v)
		return cached, false, nil
	})
}

func (rn *Runner) loadRelease(ctx context.Context, result *Result, r render.Renderer, opts Options) CategoryResult {
	return rn.track(ctx, stats.CategoryRelease, func() (bool, bool, error) {
		key := cache.Key(stats.CategoryRelease, result.Owner, result.Repo)
		v, cached, err := loadValue(ctx, rn, key, opts, func(ctx context.Context) (stats.Release, error) {
			raw, err := rn.client.LatestRelease(ctx, result.Owner, result.Repo)
			if err != nil {
				return stats.Release{}, err
			}
			return stats.NormalizeRelease(raw), nil
		})
		if err != nil {
			rn.logger.Debug("release fetch failed, leaving target untouched", "err", err)
			return false, false, err
		}
		result.Release = v
		r.RenderRelease(v)
		return cached, false, nil
	})
}

// track wraps a category load with hooks and timing. The inner function
// reports (cached, fallback, err).
func (rn *Runner) track(ctx context.Context, category string, fn func() (bool, bool, error)) CategoryResult {
	observability.Load().OnLoadStart(ctx, category)
	start := time.Now()

	cached, fallback, err := fn()
	duration := time.Since(start)

	observability.Load().OnLoadComplete(ctx, category, cached, duration, err)
	return CategoryResult{
		Category: category,
		Cached:   cached,
		Fallback: fallback,
		Skipped:  err != nil && !fallback,
		Duration: duration,
		Err:      err,
	}
}

// loadValue is the cache-or-fetch core shared by every category: a fresh
// cache hit is returned as-is; otherwise fetch runs (with backoff for
// retryable failures), and the value is stored before being returned.
// Concurrent loads of the same key collapse into a single fetch.
func loadValue[T any](ctx context.Context, rn *Runner, key string, opts Options, fetch func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	if !opts.Refresh {
		// Storage failures degrade to a miss.
		if data, ok, _ := rn.store.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				observability.Cache().OnCacheHit(ctx, key)
				return v, true, nil
			}
			_ = rn.store.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}

	out, err, _ := rn.group.Do(key, func() (any, error) {
		var v T
		err := httputil.RetryWithBackoff(ctx, func() error {
			got, err := fetch(ctx)
			if err != nil {
				return err
			}
			v = got
			return nil
		})
		if err != nil {
			return nil, err
		}

		// A failed write degrades to a no-op.
		if data, err := json.Marshal(v); err == nil {
			if rn.store.Set(ctx, key, data, opts.TTL) == nil {
				observability.Cache().OnCacheSet(ctx, key, len(data))
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, false, err
	}
	return out.(T), false, nil
}
