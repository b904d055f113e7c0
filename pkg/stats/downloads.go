package stats

import (
	"context"

	"github.com/repopulse/repopulse/pkg/github"
)

// Pagination bounds for the download aggregator. The page ceiling guards
// against servers that keep advertising a next page.
const (
	releasesPerPage = 100
	maxReleasePages = 20
)

// ReleasePager fetches one page of a release listing. The boolean reports
// whether the source advertises a further page.
type ReleasePager interface {
	Releases(ctx context.Context, owner, repo string, page, perPage int) ([]github.Release, bool, error)
}

// SumDownloads walks the paginated release listing and sums the download
// counter of every asset across all releases. It stops at the first empty
// page, when the source stops advertising a next page, or at the hard
// ceiling of maxReleasePages. Any request failure mid-walk fails the whole
// aggregate; the caller substitutes the placeholder total.
func SumDownloads(ctx context.Context, pager ReleasePager, owner, repo string) (int64, error) {
	var total int64
	page := 1
	hasMore := true

	for hasMore && page <= maxReleasePages {
		releases, next, err := pager.Releases(ctx, owner, repo, page, releasesPerPage)
		if err != nil {
			return 0, err
		}
		if len(releases) == 0 {
			break
		}
		for _, rel := range releases {
			for _, asset := range rel.Assets {
				total += asset.DownloadCount
			}
		}
		hasMore = next
		page++
	}
	return total, nil
}
