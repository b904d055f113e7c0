// Package render defines the display surface for repository statistics.
//
// The pipeline never touches an output device directly; it talks to a
// [Renderer], one method per display target. This keeps the pipeline
// testable with a recording fake and lets the same loads drive the one-shot
// terminal dashboard, the watch TUI, and the HTTP API.
package render

import "github.com/repopulse/repopulse/pkg/stats"

// Renderer receives normalized category data. Implementations must be
// idempotent: rendering the same value twice leaves the displayed output
// unchanged and skips any visual transition.
//
// Each target is owned by exactly one category, so concurrent loads never
// write to the same target. Implementations still need to tolerate
// concurrent calls to different methods.
type Renderer interface {
	RenderStats(s stats.RepoStats)
	RenderDownloads(total int64)
	RenderCommits(commits []stats.Commit)
	RenderContributors(contributors []stats.Contributor)
	RenderLanguages(languages []stats.Language)
	RenderRelease(release stats.Release)
}
