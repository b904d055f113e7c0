// Package server exposes the statistics pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/repopulse/repopulse/pkg/history"
	"github.com/repopulse/repopulse/pkg/pipeline"
	"github.com/repopulse/repopulse/pkg/stats"
)

// Server serves repository statistics as JSON.
type Server struct {
	runner  *pipeline.Runner
	archive history.Store
	logger  *log.Logger
	router  chi.Router
}

// New builds a server around the pipeline runner. archive may be nil when
// snapshot recording is disabled.
func New(runner *pipeline.Runner, archive history.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, archive: archive, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api/{owner}/{repo}", func(r chi.Router) {
		r.Get("/", s.handleStats)
		r.Get("/history", s.handleHistory)
		r.Get("/{category}", s.handleCategory)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statsResponse is the wire shape of a pipeline result. Per-category
// outcomes are flattened into plain strings so failures stay inspectable.
type statsResponse struct {
	Owner        string              `json:"owner"`
	Repo         string              `json:"repo"`
	Stats        stats.RepoStats     `json:"stats"`
	Downloads    int64               `json:"downloads"`
	Commits      []stats.Commit      `json:"commits,omitempty"`
	Contributors []stats.Contributor `json:"contributors,omitempty"`
	Languages    []stats.Language    `json:"languages,omitempty"`
	Release      *stats.Release      `json:"release,omitempty"`
	Loads        map[string]loadInfo `json:"loads"`
}

type loadInfo struct {
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	opts := pipeline.Options{Refresh: r.URL.Query().Get("refresh") == "true"}

	result := s.runner.Load(r.Context(), owner, repo, discardRenderer{}, opts)

	resp := statsResponse{
		Owner:        result.Owner,
		Repo:         result.Repo,
		Stats:        result.Stats,
		Downloads:    result.Downloads,
		Commits:      result.Commits,
		Contributors: result.Contributors,
		Languages:    result.Languages,
		Loads:        make(map[string]loadInfo, len(result.Loads)),
	}
	if result.Release.Tag != "" {
		resp.Release = &result.Release
	}
	for category, outcome := range result.Loads {
		info := loadInfo{
			Cached:   outcome.Cached,
			Fallback: outcome.Fallback,
			Skipped:  outcome.Skipped,
			Duration: outcome.Duration.Round(time.Millisecond).String(),
		}
		if outcome.Err != nil {
			info.Error = outcome.Err.Error()
		}
		resp.Loads[category] = info
	}

	s.record(r, result)
	writeJSON(w, http.StatusOK, resp)
}

// record archives a snapshot for fresh, successful stats loads.
func (s *Server) record(r *http.Request, result *pipeline.Result) {
	if s.archive == nil {
		return
	}
	outcome := result.Loads[stats.CategoryStats]
	if outcome.Err != nil || outcome.Cached {
		return
	}
	snap := history.NewSnapshot(result.Owner, result.Repo, result.Stats, result.Downloads)
	if err := s.archive.Record(r.Context(), snap); err != nil {
		s.logger.Warn("snapshot recording failed", "repo", result.Owner+"/"+result.Repo, "err", err)
	}
}

// handleCategory serves a single category's value.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	category := chi.URLParam(r, "category")
	opts := pipeline.Options{Refresh: r.URL.Query().Get("refresh") == "true"}

	result := s.runner.Load(r.Context(), owner, repo, discardRenderer{}, opts)

	var value any
	switch category {
	case stats.CategoryStats:
		value = result.Stats
	case stats.CategoryDownloads:
		value = map[string]int64{"downloads": result.Downloads}
	case stats.CategoryCommits:
		value = result.Commits
	case stats.CategoryContributors:
		value = result.Contributors
	case stats.CategoryLanguages:
		value = result.Languages
	case stats.CategoryRelease:
		value = result.Release
	default:
		writeError(w, http.StatusNotFound, "unknown category "+category)
		return
	}

	if outcome := result.Loads[category]; outcome.Skipped {
		writeError(w, http.StatusBadGateway, outcome.Err.Error())
		return
	}
	s.record(r, result)
	writeJSON(w, http.StatusOK, value)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snaps, err := s.archive.Recent(r.Context(), owner, repo, limit)
	if err != nil {
		s.logger.Error("history lookup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	if snaps == nil {
		snaps = []history.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// discardRenderer satisfies the pipeline's renderer without producing
// output; the server reads values from the result instead.
type discardRenderer struct{}

func (discardRenderer) RenderStats(stats.RepoStats)            {}
func (discardRenderer) RenderDownloads(int64)                  {}
func (discardRenderer) RenderCommits([]stats.Commit)           {}
func (discardRenderer) RenderContributors([]stats.Contributor) {}
func (discardRenderer) RenderLanguages([]stats.Language)       {}
func (discardRenderer) RenderRelease(stats.Release)            {}
