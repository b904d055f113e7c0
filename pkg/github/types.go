package github

import "time"

// Repo is the repository metadata payload from GET /repos/{owner}/{repo}.
type Repo struct {
	FullName   string `json:"full_name"`
	Stars      int    `json:"stargazers_count"`
	Forks      int    `json:"forks_count"`
	Watchers   int    `json:"subscribers_count"`
	OpenIssues int    `json:"open_issues_count"`
	HTMLURL    string `json:"html_url"`
}

// Commit is one entry of GET /repos/{owner}/{repo}/commits.
// The nested commit block always carries the raw author name; the top-level
// author is present only when the commit maps to a GitHub account.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"author"`
	HTMLURL string `json:"html_url"`
}

// Contributor is one entry of GET /repos/{owner}/{repo}/contributors,
// ordered by the API descending by contribution count.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
	HTMLURL       string `json:"html_url"`
}

// Release is one entry of GET /repos/{owner}/{repo}/releases, also used for
// the releases/latest payload.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name          string `json:"name"`
	DownloadCount int64  `json:"download_count"`
	Size          int64  `json:"size"`
}

// Languages maps language name to byte count, from
// GET /repos/{owner}/{repo}/languages.
type Languages map[string]int64
