package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/repopulse/repopulse/pkg/github"
)

// NormalizeRepoStats maps the repository metadata payload onto the headline
// counters.
func NormalizeRepoStats(r *github.Repo) RepoStats {
	return RepoStats{
		Stars:      r.Stars,
		Forks:      r.Forks,
		Watchers:   r.Watchers,
		OpenIssues: r.OpenIssues,
	}
}

// NormalizeCommits converts raw commit entries into summaries: at most
// MaxCommits entries, hash truncated to ShortHashLen, message reduced to its
// first line and at most MaxMessageLen characters. The author name falls
// back from the linked GitHub login to the raw commit author when the commit
// has no linked account.
func NormalizeCommits(raw []github.Commit) []Commit {
	if len(raw) > MaxCommits {
		raw = raw[:MaxCommits]
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		c := Commit{
			ShortHash: shortHash(rc.SHA),
			Message:   firstLine(rc.Commit.Message),
			Date:      rc.Commit.Author.Date,
			Author:    rc.Commit.Author.Name,
		}
		if rc.Author != nil {
			c.Author = rc.Author.Login
			c.AvatarURL = rc.Author.AvatarURL
		}
		commits = append(commits, c)
	}
	return commits
}

// NormalizeContributors maps raw contributor entries verbatim, keeping at
// most MaxContributors and preserving the source order (descending by
// contribution count).
func NormalizeContributors(raw []github.Contributor) []Contributor {
	if len(raw) > MaxContributors {
		raw = raw[:MaxContributors]
	}

	contributors := make([]Contributor, 0, len(raw))
	for _, rc := range raw {
		contributors = append(contributors, Contributor{
			Login:         rc.Login,
			AvatarURL:     rc.AvatarURL,
			Contributions: rc.Contributions,
			ProfileURL:    rc.HTMLURL,
		})
	}
	return contributors
}

// NormalizeLanguages converts per-language byte counts into a breakdown of
// percentages (one decimal place) sorted descending by share. Returns nil
// when there are no bytes at all.
func NormalizeLanguages(raw github.Languages) []Language {
	var total int64
	for _, bytes := range raw {
		total += bytes
	}
	if total == 0 {
		return nil
	}

	languages := make([]Language, 0, len(raw))
	for name, bytes := range raw {
		percent := math.Round(float64(bytes)/float64(total)*1000) / 10
		languages = append(languages, Language{Name: name, Percent: percent})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Percent != languages[j].Percent {
			return languages[i].Percent > languages[j].Percent
		}
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// NormalizeRelease maps the latest-release payload. The release tag stands
// in for a missing title.
func NormalizeRelease(r *github.Release) Release {
	title := r.Name
	if title == "" {
		title = r.TagName
	}
	return Release{
		Tag:         r.TagName,
		Title:       title,
		PublishedAt: r.PublishedAt,
		URL:         r.HTMLURL,
	}
}

func shortHash(sha string) string {
	if len(sha) > ShortHashLen {
		return sha[:ShortHashLen]
	}
	return sha
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	message = strings.TrimSpace(message)
	// Truncate by rune, not byte, so multi-byte characters survive intact.
	if runes := []rune(message); len(runes) > MaxMessageLen {
		message = string(runes[:MaxMessageLen])
	}
	return message
}
