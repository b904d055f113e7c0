package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/pkg/pipeline"
	"github.com/repopulse/repopulse/pkg/stats"
)

const defaultWatchInterval = time.Minute

// watchCommand creates the "watch" command with a live-updating view.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		interval time.Duration
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "watch <owner>/<repo>",
		Short: "Watch repository statistics with periodic refresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepo(args[0])
			if err != nil {
				return err
			}
			if interval < 10*time.Second {
				return fmt.Errorf("interval %s is below the 10s minimum", interval)
			}

			runner, store, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			model := newWatchModel(cmd.Context(), runner, owner, repo, interval)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "refresh interval (minimum 10s)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// watchModel - Live statistics view
// =============================================================================

type loadedMsg struct{ result *pipeline.Result }

type tickMsg struct{}

// watchModel is the bubbletea model for the watch view.
type watchModel struct {
	ctx      context.Context
	runner   *pipeline.Runner
	owner    string
	repo     string
	interval time.Duration

	result    *pipeline.Result
	updatedAt time.Time
	loading   bool
	frame     int
}

func newWatchModel(ctx context.Context, runner *pipeline.Runner, owner, repo string, interval time.Duration) watchModel {
	return watchModel{
		ctx:      ctx,
		runner:   runner,
		owner:    owner,
		repo:     repo,
		interval: interval,
		loading:  true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.load(false), m.animate())
}

// load runs the pipeline off the UI goroutine.
func (m watchModel) load(refresh bool) tea.Cmd {
	return func() tea.Msg {
		result := m.runner.Load(m.ctx, m.owner, m.repo, discardView{}, pipeline.Options{Refresh: refresh})
		return loadedMsg{result: result}
	}
}

func (m watchModel) animate() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.load(true), m.animate())
			}
		}
	case loadedMsg:
		m.result = msg.result
		m.updatedAt = time.Now()
		m.loading = false
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return refreshMsg{} })
	case refreshMsg:
		m.loading = true
		return m, tea.Batch(m.load(true), m.animate())
	case tickMsg:
		if m.loading {
			m.frame++
			return m, m.animate()
		}
	}
	return m, nil
}

type refreshMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.owner+"/"+m.repo) + "\n")
	if m.loading {
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		b.WriteString(styleIconSpinner.Render(frame) + StyleDim.Render(" refreshing…") + "\n")
	} else {
		b.WriteString(StyleDim.Render(fmt.Sprintf("updated %s ago", time.Since(m.updatedAt).Round(time.Second))) + "\n")
	}
	b.WriteString("\n")

	if m.result == nil {
		return b.String()
	}

	b.WriteString(m.viewCounters())
	b.WriteString(m.viewLanguages())
	b.WriteString(m.viewCommits())
	b.WriteString(m.viewRelease())

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r refresh · q quit"))
	return b.String()
}

func (m watchModel) viewCounters() string {
	s := m.result.Stats
	cols := []string{
		counterCell("Stars", int64(s.Stars)),
		counterCell("Forks", int64(s.Forks)),
		counterCell("Watchers", int64(s.Watchers)),
		counterCell("Issues", int64(s.OpenIssues)),
		counterCell("Downloads", m.result.Downloads),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n\n"
}

func counterCell(label string, n int64) string {
	cell := StyleNumber.Render(stats.FormatCount(n)) + "\n" + StyleDim.Render(label)
	return lipgloss.NewStyle().PaddingRight(3).Render(cell)
}

func (m watchModel) viewLanguages() string {
	if len(m.result.Languages) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range m.result.Languages {
		fmt.Fprintf(&b, "%s %s  ", StyleValue.Render(l.Name), StyleDim.Render(fmt.Sprintf("%.1f%%", l.Percent)))
	}
	return strings.TrimRight(b.String(), " ") + "\n\n"
}

func (m watchModel) viewCommits() string {
	if len(m.result.Commits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleDim.Render("Recent commits") + "\n")
	limit := min(len(m.result.Commits), 5)
	for _, c := range m.result.Commits[:limit] {
		fmt.Fprintf(&b, "  %s %s\n", StyleNumber.Render(c.ShortHash), StyleValue.Render(c.Message))
	}
	b.WriteString("\n")
	return b.String()
}

func (m watchModel) viewRelease() string {
	r := m.result.Release
	if r.Tag == "" {
		return ""
	}
	return StyleDim.Render("Latest release ") + StyleNumber.Render(r.Tag) + " " + StyleValue.Render(r.Title) + "\n"
}

// discardView satisfies the pipeline's renderer; the view reads values from
// the result instead of reacting to render calls.
type discardView struct{}

func (discardView) RenderStats(stats.RepoStats)            {}
func (discardView) RenderDownloads(int64)                  {}
func (discardView) RenderCommits([]stats.Commit)           {}
func (discardView) RenderContributors([]stats.Contributor) {}
func (discardView) RenderLanguages([]stats.Language)       {}
func (discardView) RenderRelease(stats.Release)            {}
