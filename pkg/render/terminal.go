package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/repopulse/repopulse/pkg/stats"
)

// Display target names, one per Renderer method.
const (
	targetStats        = "stats"
	targetDownloads    = "downloads"
	targetCommits      = "commits"
	targetContributors = "contributors"
	targetLanguages    = "languages"
	targetRelease      = "release"
)

const languageBarWidth = 40

var (
	colorCyan  = lipgloss.Color("36")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleLink    = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)

	// One color per language bar segment, cycled.
	barColors = []lipgloss.Color{"36", "75", "220", "167", "35", "245"}
)

// Terminal renders statistics as styled sections written to w.
//
// Terminal remembers the last output written per display target and skips
// the write entirely when a section's formatted content is unchanged, so
// repeated renders (the watch loop) don't reprint identical data.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	last map[string]string
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, last: make(map[string]string)}
}

// RenderStats writes the headline counters.
func (t *Terminal) RenderStats(s stats.RepoStats) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Repository") + "\n")
	writeCounter(&b, "Stars", int64(s.Stars))
	writeCounter(&b, "Forks", int64(s.Forks))
	writeCounter(&b, "Watchers", int64(s.Watchers))
	writeCounter(&b, "Open issues", int64(s.OpenIssues))
	t.write(targetStats, b.String())
}

// RenderDownloads writes the aggregate download counter.
func (t *Terminal) RenderDownloads(total int64) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Downloads") + "\n")
	writeCounter(&b, "Total", total)
	t.write(targetDownloads, b.String())
}

// RenderCommits writes the recent commit list.
func (t *Terminal) RenderCommits(commits []stats.Commit) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Recent commits") + "\n")
	for _, c := range commits {
		fmt.Fprintf(&b, "  %s %s %s\n",
			styleNumber.Render(c.ShortHash),
			styleValue.Render(c.Message),
			styleDim.Render(fmt.Sprintf("(%s, %s)", c.Author, c.Date.Format("2006-01-02"))))
	}
	t.write(targetCommits, b.String())
}

// RenderContributors writes the contributor list.
func (t *Terminal) RenderContributors(contributors []stats.Contributor) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Contributors") + "\n")
	for _, c := range contributors {
		fmt.Fprintf(&b, "  %s %s\n",
			styleValue.Render(c.Login),
			styleDim.Render(fmt.Sprintf("%d commits", c.Contributions)))
	}
	t.write(targetContributors, b.String())
}

// RenderLanguages writes the language bar and legend.
func (t *Terminal) RenderLanguages(languages []stats.Language) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Languages") + "\n")

	b.WriteString("  ")
	for i, l := range languages {
		width := int(l.Percent / 100 * languageBarWidth)
		if width < 1 {
			width = 1
		}
		seg := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)])
		b.WriteString(seg.Render(strings.Repeat("█", width)))
	}
	b.WriteString("\n")

	for i, l := range languages {
		dot := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)]).Render("●")
		fmt.Fprintf(&b, "  %s %s %s\n", dot,
			styleValue.Render(l.Name),
			styleDim.Render(fmt.Sprintf("%.1f%%", l.Percent)))
	}
	t.write(targetLanguages, b.String())
}

// RenderRelease writes the latest-release badge.
func (t *Terminal) RenderRelease(release stats.Release) {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Latest release") + "\n")
	fmt.Fprintf(&b, "  %s %s %s\n",
		styleNumber.Render(release.Tag),
		styleValue.Render(release.Title),
		styleDim.Render(release.PublishedAt.Format("2006-01-02")))
	if release.URL != "" {
		fmt.Fprintf(&b, "  %s\n", styleLink.Render(release.URL))
	}
	t.write(targetRelease, b.String())
}

// write emits the section unless it matches the last output for the target.
func (t *Terminal) write(target, out string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last[target] == out {
		return
	}
	t.last[target] = out
	fmt.Fprintln(t.w, out)
}

func writeCounter(b *strings.Builder, label string, n int64) {
	fmt.Fprintf(b, "%s %s\n", styleLabel.Render(label), styleNumber.Render(stats.FormatCount(n)))
}

// Ensure Terminal implements Renderer.
var _ Renderer = (*Terminal)(nil)
