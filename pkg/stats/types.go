package stats

import "time"

// Category identifiers. Each owns a disjoint cache key and render target.
const (
	CategoryStats        = "stats"
	CategoryDownloads    = "downloads"
	CategoryCommits      = "commits"
	CategoryContributors = "contributors"
	CategoryLanguages    = "languages"
	CategoryRelease      = "release"
)

// Categories lists all category identifiers in render order.
var Categories = []string{
	CategoryStats,
	CategoryDownloads,
	CategoryCommits,
	CategoryContributors,
	CategoryLanguages,
	CategoryRelease,
}

// Normalization limits.
const (
	MaxCommits      = 8
	MaxContributors = 12
	MaxMessageLen   = 80
	ShortHashLen    = 7
)

// RepoStats holds the headline counters for a repository.
type RepoStats struct {
	Stars      int `json:"stars"`
	Forks      int `json:"forks"`
	Watchers   int `json:"watchers"`
	OpenIssues int `json:"open_issues"`
}

// Commit is a normalized commit summary: short hash, first message line
// truncated to MaxMessageLen, and the author with an optional avatar.
type Commit struct {
	ShortHash string    `json:"short_hash"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
	Author    string    `json:"author"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// Contributor is a normalized contributor entry.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
	ProfileURL    string `json:"profile_url"`
}

// Language is one slice of the language breakdown. Percent carries one
// decimal place; a breakdown sums to roughly 100.
type Language struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// Release describes the most recent published release.
type Release struct {
	Tag         string    `json:"tag"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
}

// Fallback values rendered when the primary stats fetch fails. Only the
// stats and downloads categories substitute placeholders; every other
// category leaves its render target untouched on failure.
var FallbackStats = RepoStats{
	Stars:      1200,
	Forks:      180,
	Watchers:   95,
	OpenIssues: 12,
}

// FallbackDownloads is the placeholder total when the aggregator fails.
const FallbackDownloads int64 = 50000
