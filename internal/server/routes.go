package server

import (
	"net/http"
	"time"

	"github.com/dataforte10/saham/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Analysis pipeline
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/chat", s.handleChat)

	// Session
	mux.HandleFunc("/api/session/news", s.handleSessionNews)
	mux.HandleFunc("/api/session/followup", s.handleSessionFollowUp)
	mux.HandleFunc("/api/session/financials", s.handleSessionFinancials)
	mux.HandleFunc("/api/session/chart.png", s.handleSessionChart)
	mux.HandleFunc("/api/session", s.handleSession)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.app.Config.Environment,
		"storage_path":      s.app.Config.Storage.Path,
		"logging_level":     s.app.Config.Logging.Level,
		"language":          s.app.Config.Analysis.Language,
		"news_region":       s.app.Config.Analysis.NewsRegion,
		"gemini_model":      s.app.Config.Clients.Gemini.Model,
		"eodhd_configured":  s.app.MarketClient != nil,
		"gemini_configured": s.app.GeminiClient != nil,
		"uptime":            uptime.String(),
		"started_at":        s.app.StartupTime,
	})
}
