package stats

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/repopulse/repopulse/pkg/github"
)

func TestNormalizeRepoStats(t *testing.T) {
	repo := &github.Repo{Stars: 100, Forks: 20, Watchers: 15, OpenIssues: 3}
	got := NormalizeRepoStats(repo)
	want := RepoStats{Stars: 100, Forks: 20, Watchers: 15, OpenIssues: 3}
	if got != want {
		t.Errorf("NormalizeRepoStats() = %+v, want %+v", got, want)
	}
}

func rawCommit(sha, message, authorName string) github.Commit {
	var c github.Commit
	c.SHA = sha
	c.Commit.Message = message
	c.Commit.Author.Name = authorName
	c.Commit.Author.Date = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return c
}

func TestNormalizeCommits_Truncation(t *testing.T) {
	longHash := "0123456789abcdef0123456789abcdef01234567"
	longMessage := strings.Repeat("x", 120)
	multiLine := "first line\nsecond line\nthird line"

	commits := NormalizeCommits([]github.Commit{
		rawCommit(longHash, longMessage, "Ada"),
		rawCommit("abc1234", multiLine, "Grace"),
	})

	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].ShortHash != "0123456" {
		t.Errorf("got hash %q, want 7-char prefix", commits[0].ShortHash)
	}
	if got := len([]rune(commits[0].Message)); got != 80 {
		t.Errorf("got message length %d, want 80", got)
	}
	if commits[1].Message != "first line" {
		t.Errorf("got message %q, want first line only", commits[1].Message)
	}
}

func TestNormalizeCommits_MultiByteTruncation(t *testing.T) {
	// 80 runes but 81 bytes: the multi-byte rune at the boundary must not be
	// split, and a message of exactly MaxMessageLen runes must not shrink.
	exactWidth := strings.Repeat("x", 79) + "é"
	overWidth := strings.Repeat("é", 100)

	commits := NormalizeCommits([]github.Commit{
		rawCommit("abc1234", exactWidth, "Ada"),
		rawCommit("def5678", overWidth, "Grace"),
	})

	if commits[0].Message != exactWidth {
		t.Errorf("got %q, want 80-rune message untouched", commits[0].Message)
	}
	if got := len([]rune(commits[1].Message)); got != MaxMessageLen {
		t.Errorf("got message length %d runes, want %d", got, MaxMessageLen)
	}
	for _, c := range commits {
		if !utf8.ValidString(c.Message) {
			t.Errorf("message %q is not valid UTF-8", c.Message)
		}
	}
}

func TestNormalizeCommits_AuthorFallback(t *testing.T) {
	linked := rawCommit("abc1234", "msg", "Raw Name")
	linked.Author = &struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}{Login: "ada", AvatarURL: "https://example.com/a.png"}
	unlinked := rawCommit("def5678", "msg", "Grace Hopper")

	commits := NormalizeCommits([]github.Commit{linked, unlinked})

	if commits[0].Author != "ada" {
		t.Errorf("got author %q, want linked login", commits[0].Author)
	}
	if commits[0].AvatarURL == "" {
		t.Error("linked commit should carry an avatar URL")
	}
	if commits[1].Author != "Grace Hopper" {
		t.Errorf("got author %q, want raw commit author", commits[1].Author)
	}
	if commits[1].AvatarURL != "" {
		t.Error("unlinked commit should have no avatar URL")
	}
}

func TestNormalizeCommits_Limit(t *testing.T) {
	raw := make([]github.Commit, 20)
	for i := range raw {
		raw[i] = rawCommit("abc1234", "msg", "a")
	}
	if got := len(NormalizeCommits(raw)); got != MaxCommits {
		t.Errorf("got %d commits, want %d", got, MaxCommits)
	}
}

func TestNormalizeContributors(t *testing.T) {
	raw := make([]github.Contributor, 15)
	for i := range raw {
		raw[i] = github.Contributor{
			Login:         "user",
			AvatarURL:     "https://example.com/u.png",
			Contributions: 100 - i,
			HTMLURL:       "https://github.com/user",
		}
	}

	contributors := NormalizeContributors(raw)
	if len(contributors) != MaxContributors {
		t.Fatalf("got %d contributors, want %d", len(contributors), MaxContributors)
	}
	// Source order (descending contributions) is preserved, not re-sorted.
	if contributors[0].Contributions != 100 {
		t.Errorf("got first contribution count %d, want 100", contributors[0].Contributions)
	}
	if contributors[0].ProfileURL != "https://github.com/user" {
		t.Errorf("got profile URL %q", contributors[0].ProfileURL)
	}
}

func TestNormalizeLanguages(t *testing.T) {
	breakdown := NormalizeLanguages(github.Languages{
		"Go":    75000,
		"Shell": 20000,
		"Make":  5000,
	})

	if len(breakdown) != 3 {
		t.Fatalf("got %d languages, want 3", len(breakdown))
	}
	if breakdown[0].Name != "Go" || breakdown[0].Percent != 75.0 {
		t.Errorf("got top language %+v, want Go at 75.0", breakdown[0])
	}
	if breakdown[2].Name != "Make" || breakdown[2].Percent != 5.0 {
		t.Errorf("got last language %+v, want Make at 5.0", breakdown[2])
	}

	var sum float64
	for _, l := range breakdown {
		sum += l.Percent
	}
	if sum < 99.5 || sum > 100.5 {
		t.Errorf("percentages sum to %.1f, want ~100", sum)
	}
}

func TestNormalizeLanguages_Empty(t *testing.T) {
	if got := NormalizeLanguages(github.Languages{}); got != nil {
		t.Errorf("got %v, want nil for empty byte counts", got)
	}
}

func TestNormalizeRelease(t *testing.T) {
	published := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	rel := &github.Release{
		TagName:     "v2.1.0",
		Name:        "Winter release",
		PublishedAt: published,
		HTMLURL:     "https://github.com/owner/repo/releases/tag/v2.1.0",
	}

	got := NormalizeRelease(rel)
	if got.Tag != "v2.1.0" || got.Title != "Winter release" {
		t.Errorf("NormalizeRelease() = %+v", got)
	}
	if !got.PublishedAt.Equal(published) {
		t.Errorf("got published %v, want %v", got.PublishedAt, published)
	}

	// Tag stands in for a missing title.
	rel.Name = ""
	if got := NormalizeRelease(rel); got.Title != "v2.1.0" {
		t.Errorf("got title %q, want tag fallback", got.Title)
	}
}
