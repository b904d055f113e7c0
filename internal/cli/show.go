package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/pkg/pipeline"
	"github.com/repopulse/repopulse/pkg/render"
	"github.com/repopulse/repopulse/pkg/stats"
)

// showCommand creates the "show" command rendering a one-shot dashboard.
func (c *CLI) showCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
		ttl     time.Duration
		details bool
	)

	cmd := &cobra.Command{
		Use:   "show <owner>/<repo>",
		Short: "Render repository statistics once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepo(args[0])
			if err != nil {
				return err
			}

			runner, store, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			spinner := newSpinner(fmt.Sprintf("Fetching %s/%s", owner, repo))
			spinner.Start()

			// The spinner hides when the first section arrives, so the
			// dashboard never interleaves with the progress line.
			p := newProgress(c.Logger)
			r := &firstRenderStop{Renderer: render.NewTerminal(os.Stdout), stop: spinner.Stop}
			result := runner.Load(cmd.Context(), owner, repo, r, pipeline.Options{Refresh: refresh, TTL: ttl})
			spinner.Stop()
			p.done(fmt.Sprintf("Loaded %d categories", len(result.Loads)))

			if details {
				printDetails(result)
			}
			if result.Failed() {
				printWarning("Some categories failed to load, run with --details for status")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and fetch fresh data")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching for this run")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "cache lifetime for fetched data (default 30m)")
	cmd.Flags().BoolVar(&details, "details", false, "print per-category load status")

	return cmd
}

// printDetails prints one outcome line per category in a stable order.
func printDetails(result *pipeline.Result) {
	fmt.Println()
	printInfo("Load status for %s/%s", result.Owner, result.Repo)
	for _, category := range stats.Categories {
		outcome := result.Loads[category]
		printOutcome(category, outcome.Cached, outcome.Duration.Round(time.Millisecond).String(), outcome.Err)
		if outcome.Err != nil {
			printDetail("%v", outcome.Err)
		}
	}
}

// firstRenderStop invokes stop exactly once, before the first section is
// rendered.
type firstRenderStop struct {
	render.Renderer
	stop func()
	once sync.Once
}

func (f *firstRenderStop) RenderStats(s stats.RepoStats) {
	f.once.Do(f.stop)
	f.Renderer.RenderStats(s)
}

func (f *firstRenderStop) RenderDownloads(total int64) {
	f.once.Do(f.stop)
	f.Renderer.RenderDownloads(total)
}

func (f *firstRenderStop) RenderCommits(commits []stats.Commit) {
	f.once.Do(f.stop)
	f.Renderer.RenderCommits(commits)
}

func (f *firstRenderStop) RenderContributors(contributors []stats.Contributor) {
	f.once.Do(f.stop)
	f.Renderer.RenderContributors(contributors)
}

func (f *firstRenderStop) RenderLanguages(languages []stats.Language) {
	f.once.Do(f.stop)
	f.Renderer.RenderLanguages(languages)
}

func (f *firstRenderStop) RenderRelease(release stats.Release) {
	f.once.Do(f.stop)
	f.Renderer.RenderRelease(release)
}
