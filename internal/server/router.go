// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/zarouz/scriptforge/internal/fountain"
	"github.com/zarouz/scriptforge/internal/server/handlers"
	"github.com/zarouz/scriptforge/internal/server/ratelimit"
	"github.com/zarouz/scriptforge/internal/storage/content"
)

// NewRouter creates and configures the HTTP router.
// All endpoints live under /api/*.
func NewRouter(svc *content.Service, parser *fountain.Client, readLimiter, writeLimiter *ratelimit.Limiter, version string) http.Handler {
	mux := &http.ServeMux{}
	ph := handlers.NewProjectHandler(svc)
	sh := handlers.NewScriptHandler(svc)
	vh := handlers.NewVersionControlHandler(svc)
	fh := handlers.NewParserHandler(parser)
	hh := handlers.NewHealthHandler(version)

	// Health check
	mux.Handle("/api/health", Wrap(hh.Health))

	// Project endpoints
	mux.Handle("GET /api/projects", Wrap(ph.ListProjects))
	mux.Handle("POST /api/projects", Wrap(ph.CreateProject))
	mux.Handle("DELETE /api/projects/{id}", Wrap(ph.DeleteProject))

	// Script endpoints
	mux.Handle("GET /api/projects/{id}/scripts", Wrap(sh.ListScripts))
	mux.Handle("POST /api/projects/{id}/scripts", Wrap(sh.CreateScript))
	mux.Handle("GET /api/scripts/{id}", Wrap(sh.GetScript))
	mux.Handle("PUT /api/scripts/{id}", Wrap(sh.UpdateScript))
	mux.Handle("DELETE /api/scripts/{id}", Wrap(sh.DeleteScript))
	mux.Handle("GET /api/scripts/{id}/at/{sha}", Wrap(sh.GetScriptAtCommit))

	// Version control endpoints
	mux.Handle("GET /api/projects/{id}/git/status", Wrap(vh.RepoStatus))
	mux.Handle("POST /api/projects/{id}/git/stage", Wrap(vh.StageFiles))
	mux.Handle("POST /api/projects/{id}/git/commit", Wrap(vh.Commit))
	mux.Handle("GET /api/projects/{id}/git/history", Wrap(vh.History))

	// Parser endpoint
	mux.Handle("POST /api/parser/preview", Wrap(fh.Preview))

	return LogRequests(RateLimit(readLimiter, writeLimiter)(mux))
}
